package config

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/clarifai-go/internal/auth"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// TokenAccessor returns a valid access token, fetching one when needed.
type TokenAccessor func(ctx context.Context) (*clarifai.Token, error)

// Shared is the configuration of one App. The App and every resource client
// hold the same *Shared and read its fields and token at call time, so a token
// refreshed or installed through any of them is seen by all.
type Shared struct {
	APIEndpoint        string
	BasePath           string
	ModerationEndpoint string
	UserID             string
	AppID              string

	ClientID     string
	ClientSecret clarifai.Secret
	APIKey       clarifai.Secret
	SessionToken clarifai.Secret

	// TokenAccessor is bound to the token manager by Build.
	TokenAccessor TokenAccessor

	Logger clarifai.Logger

	tokens auth.TokenManager
}

// Credentials returns the credential set of the configuration.
func (s *Shared) Credentials() auth.Credentials {
	return auth.Credentials{
		APIKey:       s.APIKey.Expose(),
		SessionToken: s.SessionToken.Expose(),
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret.Expose(),
		HasToken:     s.CachedToken() != nil,
	}
}

// Strategy returns the authentication strategy requests will use.
func (s *Shared) Strategy() auth.Strategy {
	return s.Credentials().Strategy()
}

// TokenManager returns the token manager behind TokenAccessor.
func (s *Shared) TokenManager() auth.TokenManager {
	return s.tokens
}

// GetToken calls TokenAccessor.
func (s *Shared) GetToken(ctx context.Context) (*clarifai.Token, error) {
	if s.TokenAccessor == nil {
		return nil, constants.ErrNoTokenManager
	}

	return s.TokenAccessor(ctx)
}

// SetToken installs token in the shared cache.
func (s *Shared) SetToken(token *clarifai.Token) bool {
	if s.tokens == nil {
		return false
	}

	return s.tokens.SetToken(token)
}

// WaitForTokenSaves blocks until background token saves have finished.
func (s *Shared) WaitForTokenSaves() {
	if waiter, ok := s.tokens.(interface{ Wait() }); ok {
		waiter.Wait()
	}
}

// CachedToken returns the cached token, valid or not.
func (s *Shared) CachedToken() *clarifai.Token {
	if s.tokens == nil {
		return nil
	}

	return s.tokens.CachedToken()
}

// Authorize sets the credential headers of req. An API key wins over a session
// token; without either, a bearer token is obtained through TokenAccessor.
func (s *Shared) Authorize(ctx context.Context, req *http.Request) error {
	switch {
	case !s.APIKey.IsEmpty():
		req.Header.Set(constants.HeaderAuthorization, constants.AuthSchemeKey+s.APIKey.Expose())
	case !s.SessionToken.IsEmpty():
		req.Header.Set(constants.HeaderSessionToken, s.SessionToken.Expose())
	default:
		token, err := s.GetToken(ctx)
		if err != nil {
			return err
		}

		req.Header.Set(constants.HeaderAuthorization, constants.AuthSchemeBearer+token.AccessToken)
	}

	return nil
}
