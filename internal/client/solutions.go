package client

import (
	"context"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/http"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// SolutionsClient implements clarifai.SolutionsClient.
type SolutionsClient struct {
	resourceClient

	moderation *ModerationClient
}

// NewSolutionsClient creates the solutions client. httpClient must target the
// moderation endpoint.
func NewSolutionsClient(httpClient *http.Client, shared *config.Shared) *SolutionsClient {
	return &SolutionsClient{
		resourceClient: resourceClient{httpClient: httpClient, config: shared},
		moderation:     &ModerationClient{resourceClient{httpClient: httpClient, config: shared}},
	}
}

// Moderation implements clarifai.SolutionsClient.Moderation.
func (c *SolutionsClient) Moderation() clarifai.ModerationClient {
	return c.moderation
}

// ModerationClient implements clarifai.ModerationClient.
type ModerationClient struct {
	resourceClient
}

// Predict implements clarifai.ModerationClient.Predict.
func (c *ModerationClient) Predict(ctx context.Context, modelID, imageURL string) (*clarifai.PredictResponse, error) {
	return predict(ctx, c.httpClient, modelID, []clarifai.Input{
		{Data: clarifai.InputData{Image: &clarifai.Image{URL: imageURL}}},
	})
}
