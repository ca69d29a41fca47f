package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/http"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// ModelsClient implements clarifai.ModelsClient.
type ModelsClient struct {
	resourceClient
}

// NewModelsClient creates a new models client.
func NewModelsClient(httpClient *http.Client, shared *config.Shared) *ModelsClient {
	return &ModelsClient{resourceClient{httpClient: httpClient, config: shared}}
}

// List implements clarifai.ModelsClient.List.
func (c *ModelsClient) List(ctx context.Context, opts *clarifai.ListOptions) (*clarifai.ModelList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/models", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}

	return decode[clarifai.ModelList](resp, "models list")
}

// Get implements clarifai.ModelsClient.Get.
func (c *ModelsClient) Get(ctx context.Context, modelID string) (*clarifai.Model, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/models/"+url.PathEscape(modelID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting model: %w", err)
	}

	result, err := decode[clarifai.ModelResponse](resp, "model")
	if err != nil {
		return nil, err
	}

	return &result.Model, nil
}

// Predict implements clarifai.ModelsClient.Predict.
func (c *ModelsClient) Predict(ctx context.Context, modelID string, inputs []clarifai.Input) (*clarifai.PredictResponse, error) {
	return predict(ctx, c.httpClient, modelID, inputs)
}

func predict(ctx context.Context, httpClient *http.Client, modelID string, inputs []clarifai.Input) (*clarifai.PredictResponse, error) {
	path := fmt.Sprintf("/v2/models/%s/outputs", url.PathEscape(modelID))

	resp, err := httpClient.Post(ctx, path, inputsRequest{Inputs: inputs})
	if err != nil {
		return nil, fmt.Errorf("predicting with model: %w", err)
	}

	return decode[clarifai.PredictResponse](resp, "predict")
}
