package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/http"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// WorkflowClient implements clarifai.WorkflowClient.
type WorkflowClient struct {
	resourceClient
}

// NewWorkflowClient creates a new workflow client.
func NewWorkflowClient(httpClient *http.Client, shared *config.Shared) *WorkflowClient {
	return &WorkflowClient{resourceClient{httpClient: httpClient, config: shared}}
}

// Predict implements clarifai.WorkflowClient.Predict.
func (c *WorkflowClient) Predict(ctx context.Context, workflowID string, inputs []clarifai.Input) (*clarifai.WorkflowResults, error) {
	path := fmt.Sprintf("/v2/workflows/%s/results", url.PathEscape(workflowID))

	resp, err := c.httpClient.Post(ctx, path, inputsRequest{Inputs: inputs})
	if err != nil {
		return nil, fmt.Errorf("predicting with workflow: %w", err)
	}

	return decode[clarifai.WorkflowResults](resp, "workflow results")
}

// Delete implements clarifai.WorkflowClient.Delete.
func (c *WorkflowClient) Delete(ctx context.Context, workflowID string) error {
	return deleteWorkflow(ctx, c.httpClient, workflowID)
}

func deleteWorkflow(ctx context.Context, httpClient *http.Client, workflowID string) error {
	_, err := httpClient.Delete(ctx, "/v2/workflows/"+url.PathEscape(workflowID))
	if err != nil {
		return fmt.Errorf("deleting workflow: %w", err)
	}

	return nil
}
