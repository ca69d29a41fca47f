package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/clarifai-go/internal/client"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
	"github.com/fivetwenty-io/clarifai-go/pkg/tokencache"
)

const (
	// cliKeyringService holds the credential saved by 'clarifai login'.
	cliKeyringService = "clarifai-cli"
	apiKeyAccount     = "api_key"

	defaultJSONIndent = "  "
)

// Settings are the CLI settings resolved from flags, environment and config file.
type Settings struct {
	APIEndpoint  string `json:"api_endpoint"  yaml:"api_endpoint"`
	APIKey       string `json:"api_key"       yaml:"api_key"`
	SessionToken string `json:"session_token" yaml:"session_token"`
	ClientID     string `json:"client_id"     yaml:"client_id"`
	ClientSecret string `json:"client_secret" yaml:"client_secret"`
	UserID       string `json:"user_id"       yaml:"user_id"`
	AppID        string `json:"app_id"        yaml:"app_id"`
	TokenStore   string `json:"token_store"   yaml:"token_store"`
	TokenFile    string `json:"token_file"    yaml:"token_file"`
	NATSURL      string `json:"nats_url"      yaml:"nats_url"`
	Debug        bool   `json:"debug"         yaml:"debug"`
}

func loadSettings() *Settings {
	settings := &Settings{
		APIEndpoint:  viper.GetString("api_endpoint"),
		APIKey:       viper.GetString("api_key"),
		SessionToken: viper.GetString("session_token"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		UserID:       viper.GetString("user_id"),
		AppID:        viper.GetString("app_id"),
		TokenStore:   viper.GetString("token_store"),
		TokenFile:    viper.GetString("token_file"),
		NATSURL:      viper.GetString("nats_url"),
		Debug:        viper.GetBool("debug"),
	}

	if !settings.hasCredentials() {
		apiKey, err := keyring.Get(cliKeyringService, apiKeyAccount)
		if err == nil {
			settings.APIKey = apiKey
		}
	}

	return settings
}

func (s *Settings) hasCredentials() bool {
	return s.APIKey != "" || s.SessionToken != "" || s.ClientID != "" || s.ClientSecret != ""
}

// masked returns a copy safe to print.
func (s *Settings) masked() *Settings {
	masked := *s

	for _, field := range []*string{&masked.APIKey, &masked.SessionToken, &masked.ClientSecret} {
		if *field != "" {
			*field = constants.MaskedSecret
		}
	}

	return &masked
}

// newTokenStore creates the token store named by the token_store setting.
// The returned function releases it.
func newTokenStore(ctx context.Context, settings *Settings) (clarifai.TokenPersister, func(), error) {
	storeConfig := &tokencache.Config{
		Type:     tokencache.Type(settings.TokenStore),
		FilePath: settings.TokenFile,
	}
	if storeConfig.Type == tokencache.TypeNATS {
		storeConfig.NATS = &tokencache.NATSConfig{URL: settings.NATSURL}
	}

	store, err := tokencache.New(ctx, storeConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("creating token store: %w", err)
	}

	closer := func() {}
	if natsStore, ok := store.(*tokencache.NATSPersister); ok {
		closer = natsStore.Close
	}

	return store, closer, nil
}

// newApp creates a client from the resolved settings. The returned function
// releases the token store.
func newApp(ctx context.Context) (*client.App, func(), error) {
	settings := loadSettings()
	if !settings.hasCredentials() {
		return nil, nil, constants.ErrNoCredentials
	}

	store, closer, err := newTokenStore(ctx, settings)
	if err != nil {
		return nil, nil, err
	}

	opts := &clarifai.Options{
		APIEndpoint:    settings.APIEndpoint,
		UserID:         settings.UserID,
		AppID:          settings.AppID,
		APIKey:         settings.APIKey,
		SessionToken:   settings.SessionToken,
		ClientID:       settings.ClientID,
		ClientSecret:   settings.ClientSecret,
		TokenPersister: store,
		Debug:          settings.Debug,
		RetryMax:       constants.DefaultRetryMax,
	}

	if settings.Debug {
		opts.Logger = newDebugLogger()
	}

	app, err := client.New(opts)
	if err != nil {
		closer()

		return nil, nil, fmt.Errorf("creating client: %w", err)
	}

	return app, func() {
		app.WaitForTokenSaves()
		closer()
	}, nil
}

// newVerifyApp creates a client that authenticates with apiKey only.
func newVerifyApp(apiKey string) (*client.App, error) {
	settings := loadSettings()

	app, err := client.New(&clarifai.Options{
		APIEndpoint: settings.APIEndpoint,
		UserID:      settings.UserID,
		AppID:       settings.AppID,
		APIKey:      apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return app, nil
}

// commandContext bounds a single CLI invocation.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}

	return context.WithTimeout(parent, 2*constants.DefaultHTTPTimeout)
}

// printResult writes data in the configured output format. A --jq expression
// takes precedence over the format.
func printResult(w io.Writer, data interface{}, table func(*tablewriter.Table) error) error {
	return writeResult(w, viper.GetString("output"), viper.GetString("jq"), data, table)
}

func writeResult(w io.Writer, format, expr string, data interface{}, table func(*tablewriter.Table) error) error {
	if expr != "" {
		return writeJQ(w, expr, data)
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", defaultJSONIndent)

		return encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer func() {
			_ = encoder.Close()
		}()

		return encoder.Encode(data)
	default:
		t := tablewriter.NewWriter(w)

		err := table(t)
		if err != nil {
			return err
		}

		err = t.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

// writeJQ runs expr over the JSON form of data. Strings are printed raw,
// other values as indented JSON.
func writeJQ(w io.Writer, expr string, data interface{}) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("parsing jq expression: %w", err)
	}

	input, err := toJSONValue(data)
	if err != nil {
		return err
	}

	results := 0
	iter := query.Run(input)

	for {
		value, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := value.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}

			return fmt.Errorf("evaluating jq expression: %w", err)
		}

		results++

		err = writeJQValue(w, value)
		if err != nil {
			return err
		}
	}

	if results == 0 {
		return constants.ErrJQNoResult
	}

	return nil
}

func writeJQValue(w io.Writer, value interface{}) error {
	if text, ok := value.(string); ok {
		_, err := fmt.Fprintln(w, text)

		return err
	}

	data, err := json.MarshalIndent(value, "", defaultJSONIndent)
	if err != nil {
		return fmt.Errorf("encoding jq result: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// toJSONValue converts data to the plain maps and slices gojq operates on.
func toJSONValue(data interface{}) (interface{}, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding output: %w", err)
	}

	var value interface{}

	err = json.Unmarshal(encoded, &value)
	if err != nil {
		return nil, fmt.Errorf("decoding output: %w", err)
	}

	return value, nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return constants.NotAvailable
	}

	return t.Format(time.RFC3339)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}

func orNotAvailable(value string) string {
	if strings.TrimSpace(value) == "" {
		return constants.NotAvailable
	}

	return value
}

func newDebugLogger() clarifai.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})

	return clarifai.NewSlogLogger(slog.New(handler))
}
