package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/internal/http"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// WorkflowsClient implements clarifai.WorkflowsClient.
type WorkflowsClient struct {
	resourceClient
}

// NewWorkflowsClient creates a new workflows client.
func NewWorkflowsClient(httpClient *http.Client, shared *config.Shared) *WorkflowsClient {
	return &WorkflowsClient{resourceClient{httpClient: httpClient, config: shared}}
}

type workflowsRequest struct {
	Workflows []clarifai.Workflow `json:"workflows"`
}

// List implements clarifai.WorkflowsClient.List.
func (c *WorkflowsClient) List(ctx context.Context, opts *clarifai.ListOptions) (*clarifai.WorkflowList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/workflows", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing workflows: %w", err)
	}

	return decode[clarifai.WorkflowList](resp, "workflows list")
}

// Create implements clarifai.WorkflowsClient.Create.
func (c *WorkflowsClient) Create(ctx context.Context, workflow *clarifai.Workflow) (*clarifai.Workflow, error) {
	resp, err := c.httpClient.Post(ctx, "/v2/workflows", workflowsRequest{
		Workflows: []clarifai.Workflow{*workflow},
	})
	if err != nil {
		return nil, fmt.Errorf("creating workflow: %w", err)
	}

	result, err := decode[clarifai.WorkflowList](resp, "workflow")
	if err != nil {
		return nil, err
	}

	if len(result.Workflows) == 0 {
		return nil, constants.ErrEmptyWorkflowResponse
	}

	return &result.Workflows[0], nil
}

// Delete implements clarifai.WorkflowsClient.Delete.
func (c *WorkflowsClient) Delete(ctx context.Context, workflowID string) error {
	return deleteWorkflow(ctx, c.httpClient, workflowID)
}
