package clarifai

import (
	"context"
	"net/http"
	"time"
)

// Options configures an App.
//
// # Credentials
//
// Exactly one strategy is required. In order of preference:
//  1. APIKey: sent as "Authorization: Key <apiKey>" on every request.
//  2. SessionToken: sent as the "X-Clarifai-Session-Token" header.
//  3. ClientID + ClientSecret: deprecated. An access token is exchanged at
//     "<base path>/v2/token" with HTTP Basic auth, cached, and refreshed
//     transparently once it expires. Supplying either field logs a
//     deprecation warning.
//  4. Token: a pre-supplied access token. See NormalizeToken for the accepted
//     shapes. It is installed in the token cache at construction, so the first
//     token lookup does not reach the network while it is unexpired.
//
// Construction fails with ParamsRequired("apiKey") when none is usable.
//
// # Endpoint and scoping
//
// APIEndpoint defaults to the value of the API_ENDPOINT environment variable
// (read through Environment), then to https://api.clarifai.com. UserID and
// AppID add "/users/{userId}" and "/apps/{appId}" segments to the base path.
type Options struct {
	// APIEndpoint: origin of the API, e.g. "https://api.clarifai.com".
	APIEndpoint string
	// UserID: optional user scope of the base path.
	UserID string
	// AppID: optional app scope of the base path.
	AppID string

	// ClientID: legacy OAuth client ID.
	//
	// Deprecated: use APIKey.
	ClientID string
	// ClientSecret: legacy OAuth client secret used with ClientID.
	//
	// Deprecated: use APIKey.
	ClientSecret string
	// APIKey: preferred credential.
	APIKey string
	// SessionToken: user session credential.
	SessionToken string
	// Token: pre-supplied access token, a string or a token object (see NormalizeToken).
	Token any

	// ModerationEndpoint: origin of the moderation solution. Defaults to
	// https://api.clarifai-moderation.com.
	ModerationEndpoint string
	// Environment: source of the API_ENDPOINT override. Defaults to the process
	// environment. Tests pass their own source instead of mutating the environment.
	Environment Source
	// Logger: receives deprecation warnings and HTTP debug logs. Defaults to a
	// slog text logger on stderr at WARN level.
	Logger Logger
	// HTTPClient: base client for the token endpoint and the transport.
	HTTPClient *http.Client
	// TokenPersister: optional store that shares legacy tokens across processes.
	TokenPersister TokenPersister
	// RetryMax: retries of transient transport failures (>=500, 429, connection
	// errors). Zero disables retries. Token exchanges are never retried.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug: log every request and response at DEBUG level.
	Debug bool
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
}

// Source resolves configuration overrides by key. *viper.Viper satisfies it.
type Source interface {
	GetString(key string) string
}

// TokenPersister stores legacy access tokens outside the process.
// LoadToken returns nil, nil when no token is stored under key.
type TokenPersister interface {
	LoadToken(ctx context.Context, key string) (*Token, error)
	SaveToken(ctx context.Context, key string, token *Token) error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Secret wraps a credential so it is never printed or serialized by accident.
// Use Expose to read the value, e.g. when building a request header.
type Secret struct {
	value string
}

// NewSecret creates a new Secret from a string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String returns a redacted placeholder.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString returns a redacted placeholder for %#v formatting.
func (s Secret) GoString() string {
	return "clarifai.Secret{[REDACTED]}"
}

// MarshalJSON returns a redacted JSON string.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText returns a redacted text representation.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Expose returns the actual secret value.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty returns true if the secret value is empty.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
