package clarifaiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifaiclient"
)

type captureLogger struct {
	mutex    sync.Mutex
	warnings []string
}

func (l *captureLogger) Debug(string, map[string]interface{}) {}
func (l *captureLogger) Info(string, map[string]interface{})  {}
func (l *captureLogger) Error(string, map[string]interface{}) {}

func (l *captureLogger) Warn(msg string, _ map[string]interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.warnings = append(l.warnings, msg)
}

func baseOptions() *clarifai.Options {
	return &clarifai.Options{
		APIEndpoint: "https://api.example.com",
		Environment: viper.New(),
		Logger:      &captureLogger{},
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*clarifai.Options)
	}{
		{name: "nothing", mutate: func(*clarifai.Options) {}},
		{name: "client id only", mutate: func(o *clarifai.Options) { o.ClientID = "id" }},
		{name: "client secret only", mutate: func(o *clarifai.Options) { o.ClientSecret = "secret" }},
		{name: "scoping only", mutate: func(o *clarifai.Options) { o.UserID, o.AppID = "u1", "a1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := baseOptions()
			tt.mutate(opts)

			app, err := clarifaiclient.New(opts)
			require.Error(t, err)
			assert.Nil(t, app)

			var paramsErr *clarifai.ParamsRequiredError
			require.ErrorAs(t, err, &paramsErr)
			assert.Equal(t, []string{"apiKey"}, paramsErr.Params)
		})
	}
}

func TestNew_SingleCredential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*clarifai.Options)
		warnings int
	}{
		{name: "api key", mutate: func(o *clarifai.Options) { o.APIKey = "key" }},
		{name: "session token", mutate: func(o *clarifai.Options) { o.SessionToken = "session" }},
		{name: "client pair", mutate: func(o *clarifai.Options) { o.ClientID, o.ClientSecret = "id", "secret" }, warnings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := baseOptions()
			tt.mutate(opts)

			app, err := clarifaiclient.New(opts)
			require.NoError(t, err)
			assert.NotNil(t, app)

			logger, _ := opts.Logger.(*captureLogger)
			assert.Len(t, logger.warnings, tt.warnings)
		})
	}
}

func TestNew_DoesNotModifyOptions(t *testing.T) {
	t.Parallel()

	opts := baseOptions()
	opts.APIEndpoint = "api.example.com/"

	app, err := clarifaiclient.NewWithAPIKey("key", opts)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", app.BasePath())
	assert.Equal(t, "api.example.com/", opts.APIEndpoint)
	assert.Empty(t, opts.APIKey)
}

func TestNewWithClientCredentials(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "legacy-id", username)
		assert.Equal(t, "legacy-secret", password)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "legacy-token", "expires_in": 3600})
	}))
	t.Cleanup(server.Close)

	opts := baseOptions()
	opts.APIEndpoint = server.URL
	opts.HTTPClient = server.Client()

	app, err := clarifaiclient.NewWithClientCredentials("legacy-id", "legacy-secret", opts)
	require.NoError(t, err)

	token, err := app.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", token.AccessToken)

	_, err = app.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestNewWithClientCredentials_NilOptions(t *testing.T) {
	t.Parallel()

	app, err := clarifaiclient.NewWithClientCredentials("id", "secret", nil)
	require.NoError(t, err)
	assert.NotNil(t, app)

	_, err = clarifaiclient.NewWithClientCredentials("", "", nil)
	assert.True(t, clarifai.IsParamsRequired(err))
}

func TestNewWithSessionToken(t *testing.T) {
	t.Parallel()

	app, err := clarifaiclient.NewWithSessionToken("session", baseOptions())
	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	opts := baseOptions()
	opts.APIEndpoint = server.URL
	opts.HTTPClient = server.Client()

	app, err := clarifaiclient.NewWithToken(map[string]any{"accessToken": "supplied", "expiresIn": 60}, opts)
	require.NoError(t, err)

	token, err := app.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "supplied", token.AccessToken)
	assert.Equal(t, int32(0), requests.Load())
}
