package clarifai

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
)

// Token is a cached access token.
//
// ExpireTime is an absolute epoch timestamp in milliseconds, computed once as
// issuedAt + ExpiresIn*1000 when the token is cached and never recomputed.
type Token struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
	ExpiresIn   int64  `json:"expires_in"   yaml:"expires_in"`
	ExpireTime  int64  `json:"expire_time"  yaml:"expire_time"`
}

// NewToken returns a token issued at issuedAt.
func NewToken(accessToken string, expiresIn int64, issuedAt time.Time) *Token {
	return &Token{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
		ExpireTime:  issuedAt.UnixMilli() + expiresIn*constants.MillisPerSecond,
	}
}

// Valid reports whether the token is usable at now.
func (t *Token) Valid(now time.Time) bool {
	return t != nil && t.AccessToken != "" && t.ExpireTime > now.UnixMilli()
}

// ExpiresAt returns ExpireTime as a time.Time.
func (t *Token) ExpiresAt() time.Time {
	if t == nil || t.ExpireTime == 0 {
		return time.Time{}
	}

	return time.UnixMilli(t.ExpireTime)
}

// RawToken is the wire shape of a token as returned by the token endpoint or
// stored by older clients. Both snake_case and camelCase fields are accepted;
// snake_case wins when both are set.
type RawToken struct {
	AccessTokenSnake string `json:"access_token,omitempty"`
	AccessToken      string `json:"accessToken,omitempty"`
	ExpiresInSnake   int64  `json:"expires_in,omitempty"`
	ExpiresIn        int64  `json:"expiresIn,omitempty"`
	ExpireTimeSnake  int64  `json:"expire_time,omitempty"`
	ExpireTime       int64  `json:"expireTime,omitempty"`
}

// Token collapses both casings into a Token. ExpireTime is left as supplied.
func (r RawToken) Token() *Token {
	return &Token{
		AccessToken: firstNonEmpty(r.AccessTokenSnake, r.AccessToken),
		ExpiresIn:   firstPositive(r.ExpiresInSnake, r.ExpiresIn),
		ExpireTime:  firstPositive(r.ExpireTimeSnake, r.ExpireTime),
	}
}

// NormalizeToken converts a caller-supplied token into a Token ready to cache.
//
// Accepted shapes:
//   - string: the access token, with ExpiresIn = 176400 seconds
//   - Token, *Token, RawToken, *RawToken
//   - map[string]any with access_token/accessToken and expires_in/expiresIn
//   - []byte or json.RawMessage holding a JSON object of that shape
//
// The result must carry a non-empty access token and a positive ExpiresIn,
// otherwise NormalizeToken returns false. ExpireTime is computed from now
// unless the input already carries a positive one.
func NormalizeToken(raw any, now time.Time) (*Token, bool) {
	var token *Token

	switch value := raw.(type) {
	case nil:
		return nil, false
	case string:
		token = &Token{AccessToken: value, ExpiresIn: constants.DefaultTokenExpiresIn}
	case Token:
		token = &value
	case *Token:
		if value == nil {
			return nil, false
		}

		copied := *value
		token = &copied
	case RawToken:
		token = value.Token()
	case *RawToken:
		if value == nil {
			return nil, false
		}

		token = value.Token()
	case map[string]any:
		token = tokenFromMap(value)
	case json.RawMessage:
		token = tokenFromJSON(value)
	case []byte:
		token = tokenFromJSON(value)
	default:
		return nil, false
	}

	if token == nil || token.AccessToken == "" || token.ExpiresIn <= 0 {
		return nil, false
	}

	if token.ExpireTime <= 0 {
		token.ExpireTime = now.UnixMilli() + token.ExpiresIn*constants.MillisPerSecond
	}

	return token, true
}

func tokenFromJSON(data []byte) *Token {
	var raw RawToken

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil
	}

	return raw.Token()
}

func tokenFromMap(values map[string]any) *Token {
	return &Token{
		AccessToken: firstNonEmpty(stringField(values, "access_token"), stringField(values, "accessToken")),
		ExpiresIn:   firstPositive(intField(values, "expires_in"), intField(values, "expiresIn")),
		ExpireTime:  firstPositive(intField(values, "expire_time"), intField(values, "expireTime")),
	}
}

func stringField(values map[string]any, key string) string {
	s, _ := values[key].(string)

	return s
}

func intField(values map[string]any, key string) int64 {
	switch n := values[key].(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()

		return i
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)

		return i
	default:
		return 0
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func firstPositive(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}

	return 0
}
