package clarifaiclient

import (
	"github.com/fivetwenty-io/clarifai-go/internal/client"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// New creates a new Clarifai API client. opts is not modified; a nil opts is
// treated as empty and fails with a *clarifai.ParamsRequiredError.
func New(opts *clarifai.Options) (clarifai.App, error) {
	app, err := client.New(copyOptions(opts))
	if err != nil {
		return nil, err
	}

	return app, nil
}

// NewWithClientCredentials creates a client from the legacy positional
// arguments. clientID and clientSecret override the same fields of opts, which
// may be nil.
//
// Deprecated: use NewWithAPIKey.
func NewWithClientCredentials(clientID, clientSecret string, opts *clarifai.Options) (clarifai.App, error) {
	normalized := copyOptions(opts)
	normalized.ClientID = clientID
	normalized.ClientSecret = clientSecret

	return New(normalized)
}

// NewWithAPIKey creates a client authenticated with an API key.
func NewWithAPIKey(apiKey string, opts *clarifai.Options) (clarifai.App, error) {
	normalized := copyOptions(opts)
	normalized.APIKey = apiKey

	return New(normalized)
}

// NewWithSessionToken creates a client authenticated with a session token.
func NewWithSessionToken(sessionToken string, opts *clarifai.Options) (clarifai.App, error) {
	normalized := copyOptions(opts)
	normalized.SessionToken = sessionToken

	return New(normalized)
}

// NewWithToken creates a client around a pre-supplied access token in any
// shape accepted by clarifai.NormalizeToken.
func NewWithToken(token any, opts *clarifai.Options) (clarifai.App, error) {
	normalized := copyOptions(opts)
	normalized.Token = token

	return New(normalized)
}

func copyOptions(opts *clarifai.Options) *clarifai.Options {
	if opts == nil {
		return &clarifai.Options{}
	}

	copied := *opts

	return &copied
}
