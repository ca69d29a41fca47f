package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/clarifai-go/internal/auth"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func testOptions(opts clarifai.Options) *clarifai.Options {
	opts.Logger = nopLogger{}
	opts.Environment = viper.New()

	return &opts
}

func TestBuild_RequiresCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts *clarifai.Options
	}{
		{name: "nil options", opts: nil},
		{name: "empty", opts: testOptions(clarifai.Options{})},
		{name: "client id only", opts: testOptions(clarifai.Options{ClientID: "id"})},
		{name: "client secret only", opts: testOptions(clarifai.Options{ClientSecret: "secret"})},
		{name: "empty token", opts: testOptions(clarifai.Options{Token: ""})},
		{name: "ids only", opts: testOptions(clarifai.Options{UserID: "u1", AppID: "a1"})},
		{name: "nil token pointer", opts: testOptions(clarifai.Options{Token: (*clarifai.Token)(nil)})},
		{name: "nil raw token pointer", opts: testOptions(clarifai.Options{Token: (*clarifai.RawToken)(nil)})},
		{name: "nil token map", opts: testOptions(clarifai.Options{Token: map[string]any(nil)})},
		{name: "nil token bytes", opts: testOptions(clarifai.Options{Token: []byte(nil)})},
		{name: "empty token bytes", opts: testOptions(clarifai.Options{Token: []byte{}})},
		{name: "nil raw message", opts: testOptions(clarifai.Options{Token: json.RawMessage(nil)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			shared, err := Build(tt.opts)
			require.Error(t, err)
			assert.Nil(t, shared)
			assert.True(t, clarifai.IsParamsRequired(err))
			assert.Contains(t, err.Error(), "apiKey")
		})
	}
}

func TestBuild_AcceptsEachStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     *clarifai.Options
		strategy auth.Strategy
	}{
		{name: "api key", opts: testOptions(clarifai.Options{APIKey: "key"}), strategy: auth.StrategyAPIKey},
		{name: "session token", opts: testOptions(clarifai.Options{SessionToken: "session"}), strategy: auth.StrategySessionToken},
		{name: "client pair", opts: testOptions(clarifai.Options{ClientID: "id", ClientSecret: "secret"}), strategy: auth.StrategyClientCredentials},
		{name: "token", opts: testOptions(clarifai.Options{Token: "abc123"}), strategy: auth.StrategyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			shared, err := Build(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, shared.Strategy())
			assert.Equal(t, constants.DefaultAPIEndpoint, shared.APIEndpoint)
			assert.Equal(t, constants.DefaultAPIEndpoint, shared.BasePath)
			assert.Equal(t, constants.DefaultModerationEndpoint, shared.ModerationEndpoint)
			assert.NotNil(t, shared.TokenAccessor)
		})
	}
}

func TestBuild_AcceptsUnusableTokenObjects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token any
	}{
		{name: "empty map", token: map[string]any{}},
		{name: "zero value", token: clarifai.Token{}},
		{name: "zero pointer", token: &clarifai.Token{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			shared, err := Build(testOptions(clarifai.Options{Token: tt.token}))
			require.NoError(t, err)
			assert.Nil(t, shared.CachedToken())
		})
	}
}

func TestBuild_ResolvesBasePath(t *testing.T) {
	t.Parallel()

	env := viper.New()
	env.Set(constants.APIEndpointKey, "https://override.example.com")

	shared, err := Build(&clarifai.Options{
		APIKey:      "key",
		UserID:      "u1",
		AppID:       "a1",
		Environment: env,
		Logger:      nopLogger{},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", shared.APIEndpoint)
	assert.Equal(t, "https://override.example.com/users/u1/apps/a1", shared.BasePath)
}

func TestBuild_SeedsSuppliedToken(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		_, _ = fmt.Fprint(w, `{"access_token":"fetched","expires_in":3600}`)
	}))
	t.Cleanup(server.Close)

	shared, err := Build(testOptions(clarifai.Options{
		APIEndpoint:  server.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		HTTPClient:   server.Client(),
		Token:        map[string]any{"accessToken": "seeded", "expiresIn": 3600},
	}))
	require.NoError(t, err)

	token, err := shared.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seeded", token.AccessToken)
	assert.Greater(t, token.ExpireTime, time.Now().UnixMilli())
	assert.Equal(t, int32(0), requests.Load())
}

func TestBuild_FetchesTokenFromBasePath(t *testing.T) {
	t.Parallel()

	var path atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.Path)
		_, _ = fmt.Fprint(w, `{"access_token":"fetched","expires_in":3600}`)
	}))
	t.Cleanup(server.Close)

	shared, err := Build(testOptions(clarifai.Options{
		APIEndpoint:  server.URL,
		UserID:       "u1",
		ClientID:     "id",
		ClientSecret: "secret",
		HTTPClient:   server.Client(),
	}))
	require.NoError(t, err)

	token, err := shared.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fetched", token.AccessToken)
	assert.Equal(t, "/users/u1/v2/token", path.Load())
}

type memoryPersister struct {
	tokens map[string]*clarifai.Token
}

func (p *memoryPersister) LoadToken(_ context.Context, key string) (*clarifai.Token, error) {
	return p.tokens[key], nil
}

func (p *memoryPersister) SaveToken(_ context.Context, key string, token *clarifai.Token) error {
	p.tokens[key] = token

	return nil
}

func TestBuild_UsesTokenPersisterForClientCredentials(t *testing.T) {
	t.Parallel()

	tokenURL := "https://api.example.com/v2/token"
	persister := &memoryPersister{tokens: map[string]*clarifai.Token{
		auth.TokenCacheKey(tokenURL, "id"): clarifai.NewToken("persisted", 3600, time.Now()),
	}}

	shared, err := Build(testOptions(clarifai.Options{
		APIEndpoint:    "https://api.example.com",
		ClientID:       "id",
		ClientSecret:   "secret",
		TokenPersister: persister,
	}))
	require.NoError(t, err)

	token, err := shared.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "persisted", token.AccessToken)

	_, ok := shared.TokenManager().(*auth.PersistingTokenManager)
	assert.True(t, ok)
}
