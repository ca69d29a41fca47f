package clarifai

import (
	"context"
)

// ModelsClient provides access to models.
type ModelsClient interface {
	List(ctx context.Context, opts *ListOptions) (*ModelList, error)
	Get(ctx context.Context, modelID string) (*Model, error)
	Predict(ctx context.Context, modelID string, inputs []Input) (*PredictResponse, error)
}

// InputsClient provides access to inputs.
type InputsClient interface {
	List(ctx context.Context, opts *ListOptions) (*InputList, error)
	Get(ctx context.Context, inputID string) (*Input, error)
	Create(ctx context.Context, inputs []Input) (*InputList, error)
	Delete(ctx context.Context, inputID string) error
}

// ConceptsClient provides access to concepts.
type ConceptsClient interface {
	List(ctx context.Context, opts *ListOptions) (*ConceptList, error)
	Get(ctx context.Context, conceptID string) (*Concept, error)
	Search(ctx context.Context, name string) (*ConceptList, error)
}

// WorkflowClient operates on a single workflow by ID.
type WorkflowClient interface {
	Predict(ctx context.Context, workflowID string, inputs []Input) (*WorkflowResults, error)
	Delete(ctx context.Context, workflowID string) error
}

// WorkflowsClient provides access to the workflow collection.
type WorkflowsClient interface {
	List(ctx context.Context, opts *ListOptions) (*WorkflowList, error)
	Create(ctx context.Context, workflow *Workflow) (*Workflow, error)
	Delete(ctx context.Context, workflowID string) error
}

// ModerationClient runs moderation models.
type ModerationClient interface {
	Predict(ctx context.Context, modelID, imageURL string) (*PredictResponse, error)
}

// SolutionsClient groups the hosted solutions.
type SolutionsClient interface {
	Moderation() ModerationClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	Models() ModelsClient
	Inputs() InputsClient
	Concepts() ConceptsClient
	Workflow() WorkflowClient
	Workflows() WorkflowsClient
	Solutions() SolutionsClient
}

// App is the top-level client. Every resource client it exposes shares one
// configuration, so a token refreshed through any of them is seen by all.
type App interface {
	ResourceClients

	// BasePath returns the scoped API base path.
	BasePath() string

	// GetToken returns the cached access token, exchanging client credentials
	// for a new one when it is missing or expired.
	//
	// Deprecated: use an API key.
	GetToken(ctx context.Context) (*Token, error)

	// SetToken installs a token (see NormalizeToken) and reports whether it
	// was accepted. A rejected token leaves the cache unchanged.
	//
	// Deprecated: use an API key.
	SetToken(token any) bool
}
