package client

import (
	"context"
	"time"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/internal/http"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

var _ clarifai.App = (*App)(nil)

// App implements the clarifai.App interface. It owns the shared configuration
// and hands the same pointer to every resource client.
type App struct {
	config           *config.Shared
	httpClient       *http.Client
	moderationClient *http.Client

	// Resource clients
	models    *ModelsClient
	inputs    *InputsClient
	concepts  *ConceptsClient
	workflow  *WorkflowClient
	workflows *WorkflowsClient
	solutions *SolutionsClient
}

// New validates opts and creates an App.
func New(opts *clarifai.Options) (*App, error) {
	shared, err := config.Build(opts)
	if err != nil {
		return nil, err
	}

	return NewWithConfig(shared, createHTTPClientOptions(opts, shared.Logger)...), nil
}

// NewWithConfig creates an App around an already built configuration.
func NewWithConfig(shared *config.Shared, httpOpts ...http.Option) *App {
	app := &App{
		config: shared,
		httpClient: http.NewClient(func() string {
			return shared.BasePath
		}, shared, httpOpts...),
		moderationClient: http.NewClient(func() string {
			return shared.ModerationEndpoint
		}, shared, httpOpts...),
	}

	app.initializeResourceClients()

	return app
}

// createHTTPClientOptions builds HTTP client options from opts.
func createHTTPClientOptions(opts *clarifai.Options, logger clarifai.Logger) []http.Option {
	httpOpts := []http.Option{http.WithLogger(logger)}

	if opts == nil {
		return httpOpts
	}

	if opts.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if opts.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(opts.UserAgent))
	}

	if opts.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(opts.HTTPClient))
	}

	if opts.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if opts.RetryWaitMin > 0 {
			retryWaitMin = opts.RetryWaitMin
		}

		if opts.RetryWaitMax > 0 {
			retryWaitMax = opts.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(opts.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

func (a *App) initializeResourceClients() {
	a.models = NewModelsClient(a.httpClient, a.config)
	a.inputs = NewInputsClient(a.httpClient, a.config)
	a.concepts = NewConceptsClient(a.httpClient, a.config)
	a.workflow = NewWorkflowClient(a.httpClient, a.config)
	a.workflows = NewWorkflowsClient(a.httpClient, a.config)
	a.solutions = NewSolutionsClient(a.moderationClient, a.config)
}

// Config returns the shared configuration.
func (a *App) Config() *config.Shared {
	return a.config
}

// BasePath implements clarifai.App.BasePath.
func (a *App) BasePath() string {
	return a.config.BasePath
}

// GetToken implements clarifai.App.GetToken. Token endpoint failures are
// returned unwrapped.
func (a *App) GetToken(ctx context.Context) (*clarifai.Token, error) {
	return a.config.GetToken(ctx)
}

// SetToken implements clarifai.App.SetToken.
func (a *App) SetToken(token any) bool {
	normalized, ok := clarifai.NormalizeToken(token, time.Now())
	if !ok {
		return false
	}

	return a.config.SetToken(normalized)
}

// WaitForTokenSaves blocks until tokens handed to the token persister are saved.
func (a *App) WaitForTokenSaves() {
	a.config.WaitForTokenSaves()
}

// Models implements clarifai.ResourceClients.Models.
func (a *App) Models() clarifai.ModelsClient {
	return a.models
}

// Inputs implements clarifai.ResourceClients.Inputs.
func (a *App) Inputs() clarifai.InputsClient {
	return a.inputs
}

// Concepts implements clarifai.ResourceClients.Concepts.
func (a *App) Concepts() clarifai.ConceptsClient {
	return a.concepts
}

// Workflow implements clarifai.ResourceClients.Workflow.
func (a *App) Workflow() clarifai.WorkflowClient {
	return a.workflow
}

// Workflows implements clarifai.ResourceClients.Workflows.
func (a *App) Workflows() clarifai.WorkflowsClient {
	return a.workflows
}

// Solutions implements clarifai.ResourceClients.Solutions.
func (a *App) Solutions() clarifai.SolutionsClient {
	return a.solutions
}
