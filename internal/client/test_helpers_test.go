package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/clarifai-go/internal/client"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// recordedRequest is what the fake API saw.
type recordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	SessionToken  string
	Body          map[string]interface{}
}

// fakeAPI records every request and answers with the registered responses.
type fakeAPI struct {
	*httptest.Server

	mutex     sync.Mutex
	requests  []recordedRequest
	responses map[string]interface{}
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{responses: map[string]interface{}{
		"POST /v2/token": map[string]interface{}{"access_token": "fetched-token", "expires_in": 3600},
	}}

	api.Server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) handle(writer http.ResponseWriter, request *http.Request) {
	recorded := recordedRequest{
		Method:        request.Method,
		Path:          request.URL.Path,
		RawQuery:      request.URL.RawQuery,
		Authorization: request.Header.Get("Authorization"),
		SessionToken:  request.Header.Get("X-Clarifai-Session-Token"),
	}

	_ = json.NewDecoder(request.Body).Decode(&recorded.Body)

	a.mutex.Lock()
	a.requests = append(a.requests, recorded)
	response, ok := a.responses[request.Method+" "+request.URL.Path]
	a.mutex.Unlock()

	writer.Header().Set("Content-Type", "application/json")

	if !ok {
		writer.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(writer).Encode(clarifai.StatusResponse{
			Status: clarifai.Status{Code: 21200, Description: "Resource does not exist"},
		})

		return
	}

	if status, isStatus := response.(int); isStatus {
		writer.WriteHeader(status)

		return
	}

	_ = json.NewEncoder(writer).Encode(response)
}

func (a *fakeAPI) respond(route string, response interface{}) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.responses[route] = response
}

func (a *fakeAPI) recorded() []recordedRequest {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return append([]recordedRequest(nil), a.requests...)
}

func (a *fakeAPI) count(method, path string) int {
	n := 0

	for _, r := range a.recorded() {
		if r.Method == method && r.Path == path {
			n++
		}
	}

	return n
}

func newTestApp(t *testing.T, api *fakeAPI, opts clarifai.Options) *client.App {
	t.Helper()

	opts.APIEndpoint = api.URL
	opts.ModerationEndpoint = api.URL + "/moderation"
	opts.HTTPClient = api.Client()
	opts.Environment = viper.New()
	opts.Logger = nopLogger{}

	app, err := client.New(&opts)
	require.NoError(t, err)

	return app
}
