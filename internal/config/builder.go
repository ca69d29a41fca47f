package config

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/fivetwenty-io/clarifai-go/internal/auth"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// Build validates opts and assembles the shared configuration. A nil opts is
// treated as empty and fails validation.
func Build(opts *clarifai.Options) (*Shared, error) {
	if opts == nil {
		opts = &clarifai.Options{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = clarifai.DefaultLogger()
	}

	creds := auth.Credentials{
		APIKey:       opts.APIKey,
		SessionToken: opts.SessionToken,
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		HasToken:     hasToken(opts.Token),
	}

	err := auth.Validate(creds, logger)
	if err != nil {
		return nil, err
	}

	var env clarifai.Source = NewEnvSource()
	if opts.Environment != nil {
		env = opts.Environment
	}

	endpoint := ResolveEndpoint(opts.APIEndpoint, env)
	basePath := BasePath(endpoint, opts.UserID, opts.AppID)

	moderation := opts.ModerationEndpoint
	if moderation == "" {
		moderation = constants.DefaultModerationEndpoint
	}

	shared := &Shared{
		APIEndpoint:        endpoint,
		BasePath:           basePath,
		ModerationEndpoint: strings.TrimRight(moderation, "/"),
		UserID:             opts.UserID,
		AppID:              opts.AppID,
		ClientID:           opts.ClientID,
		ClientSecret:       clarifai.NewSecret(opts.ClientSecret),
		APIKey:             clarifai.NewSecret(opts.APIKey),
		SessionToken:       clarifai.NewSecret(opts.SessionToken),
		Logger:             logger,
	}

	shared.tokens = newTokenManager(shared, opts, creds)
	shared.TokenAccessor = shared.tokens.GetToken

	if opts.Token != nil {
		seedToken(shared, opts.Token, logger)
	}

	return shared, nil
}

func newTokenManager(shared *Shared, opts *clarifai.Options, creds auth.Credentials) auth.TokenManager {
	tokenURL := TokenURL(shared.BasePath)

	manager := auth.NewClientCredentialsTokenManager(&auth.ClientCredentialsConfig{
		TokenURL:     tokenURL,
		ClientID:     shared.ClientID,
		ClientSecret: shared.ClientSecret,
		HTTPClient:   opts.HTTPClient,
		Logger:       shared.Logger,
	})

	if opts.TokenPersister == nil || creds.Strategy() != auth.StrategyClientCredentials {
		return manager
	}

	return auth.NewPersistingTokenManager(
		context.Background(),
		manager,
		opts.TokenPersister,
		auth.TokenCacheKey(tokenURL, shared.ClientID),
		shared.Logger,
	)
}

func seedToken(shared *Shared, raw any, logger clarifai.Logger) {
	token, ok := clarifai.NormalizeToken(raw, time.Now())
	if ok && shared.SetToken(token) {
		return
	}

	logger.Warn("Ignoring unusable token", map[string]interface{}{
		"type": fmt.Sprintf("%T", raw),
	})
}

// hasToken reports whether a token was supplied at all. Nil values, typed nils
// and empty strings or byte slices count as absent. A non-nil map counts as
// supplied even when empty.
func hasToken(raw any) bool {
	switch value := raw.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case []byte:
		return len(value) > 0
	case json.RawMessage:
		return len(value) > 0
	case *clarifai.Token:
		return value != nil
	case *clarifai.RawToken:
		return value != nil
	case map[string]any:
		return value != nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}
