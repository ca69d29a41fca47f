package clarifai

import (
	"net/url"
	"strconv"
	"time"
)

// Status is the status envelope carried by every API response.
type Status struct {
	Code        int    `json:"code"              yaml:"code"`
	Description string `json:"description"       yaml:"description"`
	Details     string `json:"details,omitempty" yaml:"details,omitempty"`
	ReqID       string `json:"req_id,omitempty"  yaml:"req_id,omitempty"`
}

// ListOptions selects a page of a list call.
type ListOptions struct {
	Page    int
	PerPage int
}

// ToValues converts list options to query parameters.
func (o *ListOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}

	if o.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(o.PerPage))
	}

	return values
}

// Model represents a model.
type Model struct {
	ID           string        `json:"id"                      yaml:"id"`
	Name         string        `json:"name,omitempty"          yaml:"name,omitempty"`
	AppID        string        `json:"app_id,omitempty"        yaml:"app_id,omitempty"`
	CreatedAt    *time.Time    `json:"created_at,omitempty"    yaml:"created_at,omitempty"`
	ModelVersion *ModelVersion `json:"model_version,omitempty" yaml:"model_version,omitempty"`
}

// ModelVersion identifies a trained version of a model.
type ModelVersion struct {
	ID     string  `json:"id"               yaml:"id"`
	Status *Status `json:"status,omitempty" yaml:"status,omitempty"`
}

// Image references image data by URL or inline base64.
type Image struct {
	URL    string `json:"url,omitempty"    yaml:"url,omitempty"`
	Base64 string `json:"base64,omitempty" yaml:"base64,omitempty"`
}

// Concept is a label with an optional confidence value.
type Concept struct {
	ID    string  `json:"id"               yaml:"id"`
	Name  string  `json:"name,omitempty"   yaml:"name,omitempty"`
	Value float64 `json:"value,omitempty"  yaml:"value,omitempty"`
	AppID string  `json:"app_id,omitempty" yaml:"app_id,omitempty"`
}

// InputData is the payload of an input.
type InputData struct {
	Image    *Image                 `json:"image,omitempty"    yaml:"image,omitempty"`
	Concepts []Concept              `json:"concepts,omitempty" yaml:"concepts,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Input represents an input.
type Input struct {
	ID        string     `json:"id,omitempty"         yaml:"id,omitempty"`
	Data      InputData  `json:"data"                 yaml:"data"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// OutputData holds the predictions of an output.
type OutputData struct {
	Concepts []Concept `json:"concepts,omitempty" yaml:"concepts,omitempty"`
}

// Output is a model's prediction for a single input.
type Output struct {
	ID     string     `json:"id,omitempty"    yaml:"id,omitempty"`
	Status Status     `json:"status"          yaml:"status"`
	Model  *Model     `json:"model,omitempty" yaml:"model,omitempty"`
	Input  Input      `json:"input"           yaml:"input"`
	Data   OutputData `json:"data"            yaml:"data"`
}

// WorkflowNode is a model step of a workflow.
type WorkflowNode struct {
	ID    string `json:"id"    yaml:"id"`
	Model Model  `json:"model" yaml:"model"`
}

// Workflow represents a workflow.
type Workflow struct {
	ID        string         `json:"id"                   yaml:"id"`
	Nodes     []WorkflowNode `json:"nodes,omitempty"      yaml:"nodes,omitempty"`
	CreatedAt *time.Time     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// WorkflowResult is the outcome of a workflow for a single input.
type WorkflowResult struct {
	Status  Status   `json:"status"  yaml:"status"`
	Input   Input    `json:"input"   yaml:"input"`
	Outputs []Output `json:"outputs" yaml:"outputs"`
}

// ModelResponse is the response of a single model lookup.
type ModelResponse struct {
	Status Status `json:"status" yaml:"status"`
	Model  Model  `json:"model"  yaml:"model"`
}

// ModelList is a page of models.
type ModelList struct {
	Status Status  `json:"status" yaml:"status"`
	Models []Model `json:"models" yaml:"models"`
}

// InputResponse is the response of a single input lookup.
type InputResponse struct {
	Status Status `json:"status" yaml:"status"`
	Input  Input  `json:"input"  yaml:"input"`
}

// InputList is a page of inputs.
type InputList struct {
	Status Status  `json:"status" yaml:"status"`
	Inputs []Input `json:"inputs" yaml:"inputs"`
}

// ConceptResponse is the response of a single concept lookup.
type ConceptResponse struct {
	Status  Status  `json:"status"  yaml:"status"`
	Concept Concept `json:"concept" yaml:"concept"`
}

// ConceptList is a page of concepts.
type ConceptList struct {
	Status   Status    `json:"status"   yaml:"status"`
	Concepts []Concept `json:"concepts" yaml:"concepts"`
}

// WorkflowList is a page of workflows.
type WorkflowList struct {
	Status    Status     `json:"status"    yaml:"status"`
	Workflows []Workflow `json:"workflows" yaml:"workflows"`
}

// PredictResponse is the response of a model prediction.
type PredictResponse struct {
	Status  Status   `json:"status"  yaml:"status"`
	Outputs []Output `json:"outputs" yaml:"outputs"`
}

// WorkflowResults is the response of a workflow prediction.
type WorkflowResults struct {
	Status   Status           `json:"status"   yaml:"status"`
	Workflow *Workflow        `json:"workflow" yaml:"workflow"`
	Results  []WorkflowResult `json:"results"  yaml:"results"`
}

// StatusResponse is the response of calls that return nothing but a status.
type StatusResponse struct {
	Status Status `json:"status" yaml:"status"`
}
