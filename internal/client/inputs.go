package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/http"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// InputsClient implements clarifai.InputsClient.
type InputsClient struct {
	resourceClient
}

// NewInputsClient creates a new inputs client.
func NewInputsClient(httpClient *http.Client, shared *config.Shared) *InputsClient {
	return &InputsClient{resourceClient{httpClient: httpClient, config: shared}}
}

// List implements clarifai.InputsClient.List.
func (c *InputsClient) List(ctx context.Context, opts *clarifai.ListOptions) (*clarifai.InputList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/inputs", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing inputs: %w", err)
	}

	return decode[clarifai.InputList](resp, "inputs list")
}

// Get implements clarifai.InputsClient.Get.
func (c *InputsClient) Get(ctx context.Context, inputID string) (*clarifai.Input, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/inputs/"+url.PathEscape(inputID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting input: %w", err)
	}

	result, err := decode[clarifai.InputResponse](resp, "input")
	if err != nil {
		return nil, err
	}

	return &result.Input, nil
}

// Create implements clarifai.InputsClient.Create.
func (c *InputsClient) Create(ctx context.Context, inputs []clarifai.Input) (*clarifai.InputList, error) {
	resp, err := c.httpClient.Post(ctx, "/v2/inputs", inputsRequest{Inputs: inputs})
	if err != nil {
		return nil, fmt.Errorf("creating inputs: %w", err)
	}

	return decode[clarifai.InputList](resp, "inputs")
}

// Delete implements clarifai.InputsClient.Delete.
func (c *InputsClient) Delete(ctx context.Context, inputID string) error {
	_, err := c.httpClient.Delete(ctx, "/v2/inputs/"+url.PathEscape(inputID))
	if err != nil {
		return fmt.Errorf("deleting input: %w", err)
	}

	return nil
}

// DeleteMany removes several inputs in one call.
func (c *InputsClient) DeleteMany(ctx context.Context, inputIDs []string) error {
	_, err := c.httpClient.DeleteWithBody(ctx, "/v2/inputs", idsRequest{IDs: inputIDs})
	if err != nil {
		return fmt.Errorf("deleting inputs: %w", err)
	}

	return nil
}
