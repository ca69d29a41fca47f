package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and credential files.
	ConfigFilePerm = 0600
)

// API endpoints and paths.
const (
	// DefaultAPIEndpoint is used when neither an explicit endpoint nor an override is supplied.
	DefaultAPIEndpoint = "https://api.clarifai.com"

	// DefaultModerationEndpoint is the origin of the moderation solution.
	DefaultModerationEndpoint = "https://api.clarifai-moderation.com"

	// APIEndpointKey is the configuration key resolved for the endpoint override.
	APIEndpointKey = "api_endpoint"

	// APIEndpointEnv is the environment variable bound to APIEndpointKey.
	APIEndpointEnv = "API_ENDPOINT"

	// TokenPath is appended to the base path for the legacy token exchange.
	TokenPath = "/v2/token"

	// UsersSegment scopes a base path to a user.
	UsersSegment = "/users/"

	// AppsSegment scopes a base path to an app.
	AppsSegment = "/apps/"
)

// Token lifetimes.
const (
	// DefaultTokenExpiresIn is the lifetime, in seconds, given to a bare token string.
	DefaultTokenExpiresIn = 176400

	// MillisPerSecond converts ExpiresIn seconds to ExpireTime milliseconds.
	MillisPerSecond = 1000
)

// HTTP headers.
const (
	// HeaderAuthorization carries Key and Bearer credentials.
	HeaderAuthorization = "Authorization"

	// HeaderSessionToken carries a session token.
	HeaderSessionToken = "X-Clarifai-Session-Token"

	// HeaderRequestID correlates a request across client and server logs.
	HeaderRequestID = "X-Request-ID"

	// AuthSchemeKey prefixes API keys.
	AuthSchemeKey = "Key "

	// AuthSchemeBearer prefixes access tokens.
	AuthSchemeBearer = "Bearer "

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "clarifai-go/1.0"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries used by the CLI.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// HTTP status codes commonly used.
const (
	// HTTPStatusMultipleChoices is the first non-success status.
	HTTPStatusMultipleChoices = 300
)

// Clarifai status codes.
const (
	// StatusCodeNotAuthenticated is returned for a missing or invalid credential.
	StatusCodeNotAuthenticated = 11100

	// StatusCodeNotFound is returned for missing resources.
	StatusCodeNotFound = 21200
)

// Token persistence.
const (
	// TokenCacheBucket is the default NATS KV bucket for shared tokens.
	TokenCacheBucket = "clarifai_tokens"

	// KeyringService is the service name used in the OS keyring.
	KeyringService = "clarifai"

	// TokenFileName is the default file name of the file persister.
	TokenFileName = "tokens.yml"

	// LockTimeout bounds how long the file persister waits for its lock.
	LockTimeout = 100 * time.Millisecond

	// LockRetryInterval is the poll interval while waiting for the lock.
	LockRetryInterval = 10 * time.Millisecond

	// PersistTimeout bounds every load and save against a token persister.
	PersistTimeout = 2 * time.Second
)

// Pagination.
const (
	// DefaultPage is the first page of a list call.
	DefaultPage = 1

	// DefaultPerPage is the default page size of list calls.
	DefaultPerPage = 20
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "[REDACTED]"

	// MinimumArgumentCount is the argument count of KEY VALUE commands.
	MinimumArgumentCount = 2
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Tracing.
const (
	// TracerName is the instrumentation scope of spans emitted by this module.
	TracerName = "github.com/fivetwenty-io/clarifai-go"

	// SpanTokenFetch names the span around a token endpoint call.
	SpanTokenFetch = "clarifai.token.fetch"

	// SpanHTTPRequest names the span around a transport request.
	SpanHTTPRequest = "clarifai.http.request"
)
