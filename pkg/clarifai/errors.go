package clarifai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
)

// Common static errors that can be wrapped with context.
var (
	ErrParamsRequired  = errors.New("required parameters missing")
	ErrOptionsRequired = errors.New("options are required")
)

// ParamsRequiredError reports which canonical parameters were missing at
// construction. errors.Is(err, ErrParamsRequired) matches it.
type ParamsRequiredError struct {
	Params []string
}

// ParamsRequired builds a ParamsRequiredError naming params.
func ParamsRequired(params ...string) *ParamsRequiredError {
	return &ParamsRequiredError{Params: params}
}

// Error implements the error interface.
func (e *ParamsRequiredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrParamsRequired.Error(), strings.Join(e.Params, ", "))
}

// Is matches ErrParamsRequired.
func (e *ParamsRequiredError) Is(target error) bool {
	return target == ErrParamsRequired
}

// TokenResponseError is the raw non-200 response of the token endpoint.
type TokenResponseError struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Error implements the error interface.
func (e *TokenResponseError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("token request failed with status %d", e.StatusCode)
	}

	return fmt.Sprintf("token request failed with status %d: %s", e.StatusCode, body)
}

// ResponseError is a non-2xx API response.
type ResponseError struct {
	StatusCode int    `json:"-"`
	Status     Status `json:"status"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e.Status.Description == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}

	if e.Status.Details == "" {
		return fmt.Sprintf("%s (code: %d, http: %d)", e.Status.Description, e.Status.Code, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s (code: %d, http: %d)", e.Status.Description, e.Status.Details, e.Status.Code, e.StatusCode)
}

// ParseResponseError builds a ResponseError from a response body. Bodies that
// are not a status envelope still produce an error carrying statusCode.
func ParseResponseError(statusCode int, data []byte) *ResponseError {
	errResp := &ResponseError{StatusCode: statusCode}

	_ = json.Unmarshal(data, errResp)
	errResp.StatusCode = statusCode

	return errResp
}

// IsParamsRequired checks if the error is a construction error for missing credentials.
func IsParamsRequired(err error) bool {
	return errors.Is(err, ErrParamsRequired)
}

// IsUnauthorized checks if the error is an authentication failure from the
// token endpoint or the API.
func IsUnauthorized(err error) bool {
	tokenErr := &TokenResponseError{}
	if errors.As(err, &tokenErr) {
		return tokenErr.StatusCode == http.StatusUnauthorized
	}

	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode == http.StatusUnauthorized ||
			errResp.Status.Code == constants.StatusCodeNotAuthenticated
	}

	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode == http.StatusNotFound ||
			errResp.Status.Code == constants.StatusCodeNotFound
	}

	return false
}
