package client

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/http"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// resourceClient holds what every resource client shares with the App.
type resourceClient struct {
	httpClient *http.Client
	config     *config.Shared
}

// Config returns the shared configuration, the same pointer the App holds.
func (c *resourceClient) Config() *config.Shared {
	return c.config
}

// decode unmarshals a response body into a new T.
func decode[T any](resp *http.Response, what string) (*T, error) {
	var result T

	err := json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", what, err)
	}

	return &result, nil
}

type inputsRequest struct {
	Inputs []clarifai.Input `json:"inputs"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}
