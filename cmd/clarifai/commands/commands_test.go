package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/clarifai-go/internal/auth"
	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
	"github.com/fivetwenty-io/clarifai-go/pkg/tokencache"
)

func subcommandNames(cmd *cobra.Command) []string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	return names
}

// useSettings replaces the global viper state for one test.
func useSettings(t *testing.T, values map[string]interface{}) {
	t.Helper()

	viper.Reset()
	keyring.MockInit()

	for key, value := range values {
		viper.Set(key, value)
	}

	t.Cleanup(viper.Reset)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "clarifai", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(cmd)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd  *cobra.Command
		want []string
	}{
		{NewTokenCommand(), []string{"get", "set", "status", "inspect"}},
		{NewConfigCommand(), []string{"show", "base-path", "set", "unset"}},
		{NewModelsCommand(), []string{"list", "get", "predict", "moderate"}},
		{NewInputsCommand(), []string{"list", "get", "add", "delete"}},
		{NewConceptsCommand(), []string{"list", "get", "search"}},
		{NewWorkflowsCommand(), []string{"list", "predict", "delete"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			t.Parallel()

			assert.ElementsMatch(t, tt.want, subcommandNames(tt.cmd))
			assert.NotEmpty(t, tt.cmd.Short)
		})
	}
}

func TestListCommandsHavePaging(t *testing.T) {
	t.Parallel()

	for _, cmd := range []*cobra.Command{
		newModelsListCommand(), newInputsListCommand(), newConceptsListCommand(), newWorkflowsListCommand(),
	} {
		page := cmd.Flags().Lookup("page")
		require.NotNil(t, page, cmd.Name())
		assert.Equal(t, "1", page.DefValue)

		perPage := cmd.Flags().Lookup("per-page")
		require.NotNil(t, perPage, cmd.Name())
		assert.Equal(t, "20", perPage.DefValue)
	}
}

func TestWriteResult(t *testing.T) {
	t.Parallel()

	models := []clarifai.Model{{ID: "general", Name: "General"}, {ID: "food"}}
	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, writeResult(&buf, constants.FormatJSON, "", models, nil))

		var decoded []clarifai.Model

		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, models, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, writeResult(&buf, constants.FormatYAML, "", VersionInfo{Version: "v1", Commit: "abc", Built: "now"}, nil))
		assert.Equal(t, "version: v1\ncommit: abc\nbuilt: now\n", buf.String())
	})

	t.Run("jq string", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, writeResult(&buf, constants.FormatTable, ".[].id", models, nil))
		assert.Equal(t, "general\nfood\n", buf.String())
	})

	t.Run("jq object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, writeResult(&buf, constants.FormatJSON, ".[0] | {name}", models, nil))
		assert.JSONEq(t, `{"name":"General"}`, buf.String())
	})

	t.Run("jq no result", func(t *testing.T) {
		t.Parallel()

		err := writeResult(&bytes.Buffer{}, constants.FormatJSON, ".[] | select(.id == \"none\")", models, nil)
		require.ErrorIs(t, err, constants.ErrJQNoResult)
	})

	t.Run("jq parse error", func(t *testing.T) {
		t.Parallel()

		err := writeResult(&bytes.Buffer{}, constants.FormatJSON, ".[", models, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing jq expression")
	})
}

func TestInspectJWT(t *testing.T) {
	t.Parallel()

	sign := func(t *testing.T, claims jwt.MapClaims) string {
		t.Helper()

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		return signed
	}

	t.Run("claims and expiry", func(t *testing.T) {
		t.Parallel()

		expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

		claims, err := inspectJWT(sign(t, jwt.MapClaims{"sub": "user-1", "exp": expiry.Unix()}))
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims["sub"])
		assert.Equal(t, "2030-01-01T00:00:00Z", claims["expires_at"])
	})

	t.Run("no expiry", func(t *testing.T) {
		t.Parallel()

		_, err := inspectJWT(sign(t, jwt.MapClaims{"sub": "user-1"}))
		require.ErrorIs(t, err, constants.ErrNoExpirationClaim)
	})

	t.Run("not a JWT", func(t *testing.T) {
		t.Parallel()

		_, err := inspectJWT("opaque-token")
		require.ErrorIs(t, err, constants.ErrInvalidJWTFormat)
	})
}

func TestParseTokenArg(t *testing.T) {
	t.Parallel()

	raw, err := parseTokenArg(" abc ")
	require.NoError(t, err)
	assert.Equal(t, "abc", raw)

	raw, err = parseTokenArg(`{"access_token":"abc","expires_in":60}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"access_token": "abc", "expires_in": float64(60)}, raw)

	_, err = parseTokenArg("{not json")
	require.ErrorIs(t, err, constants.ErrInvalidTokenInput)

	_, err = parseTokenArg("  ")
	require.ErrorIs(t, err, constants.ErrTokenArgRequired)
}

func TestMaskToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, constants.MaskedSecret, maskToken("short"))
	assert.Equal(t, constants.MaskedSecret+"wxyz", maskToken("abcdefghijklmnopqrstuvwxyz"))
}

func TestEditConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clarifai", "config.yml")

	require.NoError(t, editConfigFile(path, func(values map[string]interface{}) error {
		values["user_id"] = "me"
		values["app_id"] = "main"

		return nil
	}))

	require.NoError(t, editConfigFile(path, func(values map[string]interface{}) error {
		delete(values, "app_id")

		return nil
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var values map[string]interface{}

	require.NoError(t, yaml.Unmarshal(data, &values))
	assert.Equal(t, map[string]interface{}{"user_id": "me"}, values)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())
}

//nolint:paralleltest // mutates global viper state
func TestConfigSet_RejectsUnknownKey(t *testing.T) {
	useSettings(t, map[string]interface{}{})
	viper.SetConfigFile(filepath.Join(t.TempDir(), "config.yml"))

	_, err := execute(t, NewConfigCommand(), "config", "set", "api_key", "secret")
	require.ErrorIs(t, err, constants.ErrUnknownConfigKey)

	out, err := execute(t, NewConfigCommand(), "config", "set", "user_id", "me")
	require.NoError(t, err)
	assert.Contains(t, out, "Set user_id")
}

//nolint:paralleltest // mutates global viper state
func TestConfigShow_MasksSecrets(t *testing.T) {
	useSettings(t, map[string]interface{}{
		"api_endpoint": "https://api.example.test/",
		"api_key":      "super-secret",
		"user_id":      "me",
		"app_id":       "main",
		"output":       constants.FormatJSON,
	})

	out, err := execute(t, NewConfigCommand(), "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "super-secret")

	var view map[string]interface{}

	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, constants.MaskedSecret, view["api_key"])
	assert.Equal(t, "https://api.example.test", view["resolved_endpoint"])
	assert.Equal(t, "https://api.example.test/users/me/apps/main", view["base_path"])

	out, err = execute(t, NewConfigCommand(), "config", "base-path")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test/users/me/apps/main\n", out)
}

//nolint:paralleltest // mutates global viper state
func TestNewApp_RequiresCredentials(t *testing.T) {
	useSettings(t, map[string]interface{}{})

	_, err := execute(t, NewModelsCommand(), "models", "list")
	require.ErrorIs(t, err, constants.ErrNoCredentials)
}

//nolint:paralleltest // mutates global viper state
func TestModelsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Key key-1", r.Header.Get(constants.HeaderAuthorization))
		assert.Equal(t, "/v2/models", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":{"code":10000,"description":"Ok"},"models":[{"id":"general","name":"General"}]}`))
	}))
	t.Cleanup(server.Close)

	useSettings(t, map[string]interface{}{
		"api_endpoint": server.URL,
		"api_key":      "key-1",
		"jq":           ".[].name",
	})

	out, err := execute(t, NewModelsCommand(), "models", "list", "--page", "2")
	require.NoError(t, err)
	assert.Equal(t, "General\n", out)
}

//nolint:paralleltest // mutates global viper state
func TestLoadSettings_FallsBackToKeyring(t *testing.T) {
	useSettings(t, map[string]interface{}{})
	require.NoError(t, keyring.Set(cliKeyringService, apiKeyAccount, "saved-key"))

	assert.Equal(t, "saved-key", loadSettings().APIKey)

	viper.Set("session_token", "session")
	assert.Empty(t, loadSettings().APIKey)
}

//nolint:paralleltest // mutates global viper state
func TestLoginAndLogout(t *testing.T) {
	useSettings(t, map[string]interface{}{})

	login := NewLoginCommand()
	login.SetIn(bytes.NewBufferString("key-from-stdin\n"))

	out, err := execute(t, login, "login", "--verify=false")
	require.NoError(t, err)
	assert.Contains(t, out, "API key saved")

	saved, err := keyring.Get(cliKeyringService, apiKeyAccount)
	require.NoError(t, err)
	assert.Equal(t, "key-from-stdin", saved)

	_, err = execute(t, NewLogoutCommand(), "logout")
	require.NoError(t, err)

	_, err = keyring.Get(cliKeyringService, apiKeyAccount)
	require.ErrorIs(t, err, keyring.ErrNotFound)
}

//nolint:paralleltest // mutates global viper state
func TestTokenSetPersistsToFileStore(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "tokens.yml")
	endpoint := "https://api.example.test"

	useSettings(t, map[string]interface{}{
		"api_endpoint":  endpoint,
		"client_id":     "id-1",
		"client_secret": "secret-1",
		"token_store":   string(tokencache.TypeFile),
		"token_file":    tokenFile,
		"output":        constants.FormatJSON,
	})

	_, err := execute(t, NewTokenCommand(), "token", "set", `{"access_token":"abc","expires_in":3600}`)
	require.NoError(t, err)

	key := auth.TokenCacheKey(config.TokenURL(config.BasePath(endpoint, "", "")), "id-1")

	stored, err := tokencache.NewFilePersister(tokenFile).LoadToken(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "abc", stored.AccessToken)

	out, err := execute(t, NewTokenCommand(), "token", "status")
	require.NoError(t, err)

	var status TokenStatus

	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, key, status.CacheKey)
	assert.Equal(t, "file", status.TokenStore)
	require.NotNil(t, status.Token)
	assert.True(t, status.Token.Valid)
}
