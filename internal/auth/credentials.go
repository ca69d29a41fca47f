package auth

import (
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// DeprecationMessage is logged whenever a client ID or secret is supplied.
const DeprecationMessage = "Client ID/secret has been deprecated. Please switch to using the API key. " +
	"See here how to do the switch: https://blog.clarifai.com/introducing-api-keys-a-safer-way-to-authenticate-your-applications"

// Strategy identifies how requests are authenticated.
type Strategy int

const (
	// StrategyNone means no usable credential was supplied.
	StrategyNone Strategy = iota
	// StrategyAPIKey sends the API key as a Key authorization header.
	StrategyAPIKey
	// StrategySessionToken sends the session token header.
	StrategySessionToken
	// StrategyClientCredentials exchanges a client ID/secret for bearer tokens.
	StrategyClientCredentials
	// StrategyToken uses a pre-supplied bearer token.
	StrategyToken
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyAPIKey:
		return "api_key"
	case StrategySessionToken:
		return "session_token"
	case StrategyClientCredentials:
		return "client_credentials"
	case StrategyToken:
		return "token"
	default:
		return "none"
	}
}

// Deprecated reports whether the strategy is the legacy client credentials flow.
func (s Strategy) Deprecated() bool {
	return s == StrategyClientCredentials
}

// Credentials is the raw credential set a caller supplied.
type Credentials struct {
	APIKey       string
	SessionToken string
	ClientID     string
	ClientSecret string
	// HasToken is set when a pre-supplied token was passed, whatever its shape.
	HasToken bool
}

// Strategy picks the preferred usable strategy.
func (c Credentials) Strategy() Strategy {
	switch {
	case c.APIKey != "":
		return StrategyAPIKey
	case c.SessionToken != "":
		return StrategySessionToken
	case c.ClientID != "" && c.ClientSecret != "":
		return StrategyClientCredentials
	case c.HasToken:
		return StrategyToken
	default:
		return StrategyNone
	}
}

// Validate fails with ParamsRequired("apiKey") when no strategy is usable.
// Any client ID or secret logs a deprecation warning; the warning alone never
// fails validation.
func Validate(creds Credentials, logger clarifai.Logger) error {
	if creds.ClientID != "" || creds.ClientSecret != "" {
		warnDeprecated(logger, creds)
	}

	if creds.Strategy() == StrategyNone {
		return clarifai.ParamsRequired("apiKey")
	}

	return nil
}

func warnDeprecated(logger clarifai.Logger, creds Credentials) {
	if logger == nil {
		return
	}

	logger.Warn(DeprecationMessage, map[string]interface{}{
		"client_id":         creds.ClientID,
		"has_client_secret": creds.ClientSecret != "",
	})
}
