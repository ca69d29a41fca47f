package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/http"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// ConceptsClient implements clarifai.ConceptsClient.
type ConceptsClient struct {
	resourceClient
}

// NewConceptsClient creates a new concepts client.
func NewConceptsClient(httpClient *http.Client, shared *config.Shared) *ConceptsClient {
	return &ConceptsClient{resourceClient{httpClient: httpClient, config: shared}}
}

type conceptQuery struct {
	Name string `json:"name"`
}

type conceptSearchRequest struct {
	ConceptQuery conceptQuery `json:"concept_query"`
}

// List implements clarifai.ConceptsClient.List.
func (c *ConceptsClient) List(ctx context.Context, opts *clarifai.ListOptions) (*clarifai.ConceptList, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/concepts", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}

	return decode[clarifai.ConceptList](resp, "concepts list")
}

// Get implements clarifai.ConceptsClient.Get.
func (c *ConceptsClient) Get(ctx context.Context, conceptID string) (*clarifai.Concept, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/concepts/"+url.PathEscape(conceptID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting concept: %w", err)
	}

	result, err := decode[clarifai.ConceptResponse](resp, "concept")
	if err != nil {
		return nil, err
	}

	return &result.Concept, nil
}

// Search implements clarifai.ConceptsClient.Search. name may end with "*" to
// match by prefix.
func (c *ConceptsClient) Search(ctx context.Context, name string) (*clarifai.ConceptList, error) {
	resp, err := c.httpClient.Post(ctx, "/v2/concepts/searches", conceptSearchRequest{
		ConceptQuery: conceptQuery{Name: name},
	})
	if err != nil {
		return nil, fmt.Errorf("searching concepts: %w", err)
	}

	return decode[clarifai.ConceptList](resp, "concept search")
}
