package constants

import "errors"

// Token errors.
var (
	ErrMalformedTokenResponse = errors.New("token endpoint returned no usable access token")
	ErrNoTokenManager         = errors.New("no token manager configured")
	ErrInvalidJWTFormat       = errors.New("invalid JWT format")
	ErrNoExpirationClaim      = errors.New("no expiration claim found")
)

// Persistence errors.
var (
	ErrNATSConnRequired   = errors.New("NATS connection or URL required")
	ErrTokenKeyRequired   = errors.New("token cache key required")
	ErrLockNotAcquired    = errors.New("token file lock not acquired")
	ErrInvalidTokenRecord = errors.New("invalid persisted token record")
)

// CLI errors.
var (
	ErrNoCredentials      = errors.New("no credentials configured, use 'clarifai login' or set CLARIFAI_API_KEY")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrTokenArgRequired   = errors.New("token argument required")
	ErrInvalidTokenInput  = errors.New("token must be a string or a JSON object with access_token and expires_in")
	ErrJQNoResult         = errors.New("jq expression produced no result")
	ErrUnsupportedPersist = errors.New("unsupported token store")
)

// Response errors.
var (
	ErrEmptyWorkflowResponse = errors.New("workflow response contained no workflow")
)
