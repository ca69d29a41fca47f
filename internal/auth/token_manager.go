package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

const fetchKey = "token"

// TokenManager owns the cached token of a shared configuration.
type TokenManager interface {
	// GetToken returns the cached token while it is valid and fetches a new one otherwise.
	GetToken(ctx context.Context) (*clarifai.Token, error)
	// RefreshToken fetches a new token regardless of the cached one.
	RefreshToken(ctx context.Context) error
	// SetToken installs a token and reports whether it was accepted.
	SetToken(token *clarifai.Token) bool
	// CachedToken returns the cached token, valid or not, without fetching.
	CachedToken() *clarifai.Token
}

// ClientCredentialsConfig configures the legacy token exchange.
type ClientCredentialsConfig struct {
	// TokenURL is "<base path>/v2/token".
	TokenURL     string
	ClientID     string
	ClientSecret clarifai.Secret
	// HTTPClient defaults to a pooled client without retries.
	HTTPClient     *http.Client
	Logger         clarifai.Logger
	TracerProvider trace.TracerProvider
}

// ClientCredentialsTokenManager exchanges a client ID/secret pair for access
// tokens. Callers that find the cache stale at the same time share one request.
type ClientCredentialsTokenManager struct {
	config     *ClientCredentialsConfig
	httpClient *http.Client
	store      *TokenStore
	fetchGroup singleflight.Group
	tracer     trace.Tracer
	now        func() time.Time
}

// NewClientCredentialsTokenManager creates a token manager with an empty cache.
func NewClientCredentialsTokenManager(config *ClientCredentialsConfig) *ClientCredentialsTokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}

	provider := config.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &ClientCredentialsTokenManager{
		config:     config,
		httpClient: httpClient,
		store:      NewTokenStore(),
		tracer:     provider.Tracer(constants.TracerName),
		now:        time.Now,
	}
}

// TokenCacheKey identifies the tokens of one client at one token endpoint.
func TokenCacheKey(tokenURL, clientID string) string {
	sum := sha256.Sum256([]byte(tokenURL + "|" + clientID))

	return hex.EncodeToString(sum[:])
}

// CacheKey returns the TokenCacheKey of this manager.
func (m *ClientCredentialsTokenManager) CacheKey() string {
	return TokenCacheKey(m.config.TokenURL, m.config.ClientID)
}

// GetToken returns a valid access token, fetching one if necessary.
func (m *ClientCredentialsTokenManager) GetToken(ctx context.Context) (*clarifai.Token, error) {
	token := m.store.Get()
	if token.Valid(m.now()) {
		return token, nil
	}

	return m.fetch(ctx, false)
}

// RefreshToken forces a token fetch.
func (m *ClientCredentialsTokenManager) RefreshToken(ctx context.Context) error {
	_, err := m.fetch(ctx, true)

	return err
}

// SetToken installs token when it has an access token and a positive lifetime.
// ExpireTime is computed from the current time when absent.
func (m *ClientCredentialsTokenManager) SetToken(token *clarifai.Token) bool {
	if token == nil || token.AccessToken == "" || token.ExpiresIn <= 0 {
		return false
	}

	installed := *token
	if installed.ExpireTime <= 0 {
		installed.ExpireTime = m.now().UnixMilli() + installed.ExpiresIn*constants.MillisPerSecond
	}

	m.store.Set(&installed)

	return true
}

// CachedToken returns the cached token without fetching.
func (m *ClientCredentialsTokenManager) CachedToken() *clarifai.Token {
	return m.store.Get()
}

// fetch runs at most one token request at a time. Unless forced, a token
// installed by a request that finished while this caller was waiting is reused.
// The request runs detached from ctx: a caller whose ctx ends stops waiting, but
// the request continues for every other caller sharing it.
func (m *ClientCredentialsTokenManager) fetch(ctx context.Context, force bool) (*clarifai.Token, error) {
	detached := context.WithoutCancel(ctx)

	results := m.fetchGroup.DoChan(fetchKey, func() (interface{}, error) {
		if !force {
			if token := m.store.Get(); token.Valid(m.now()) {
				return token, nil
			}
		}

		return m.requestToken(detached)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}

		token, _ := result.Val.(*clarifai.Token)

		return token, nil
	}
}

// requestToken performs the exchange. Non-200 responses and transport
// failures are returned unwrapped.
func (m *ClientCredentialsTokenManager) requestToken(ctx context.Context) (*clarifai.Token, error) {
	ctx, span := m.tracer.Start(ctx, constants.SpanTokenFetch, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.SetBasicAuth(m.config.ClientID, m.config.ClientSecret.Expose())
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token request failed")

		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading token response failed")

		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)

		return nil, &clarifai.TokenResponseError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Body:       body,
		}
	}

	token, ok := clarifai.NormalizeToken(json.RawMessage(body), m.now())
	if !ok {
		span.SetStatus(codes.Error, constants.ErrMalformedTokenResponse.Error())

		return nil, constants.ErrMalformedTokenResponse
	}

	m.store.Set(token)

	if m.config.Logger != nil {
		m.config.Logger.Debug("Fetched access token", map[string]interface{}{
			"expires_in": token.ExpiresIn,
			"expires_at": token.ExpiresAt().Format(time.RFC3339),
		})
	}

	return token, nil
}
