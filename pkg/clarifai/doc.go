// Package clarifai provides types, interfaces, and helpers for working with the
// Clarifai v2 REST API.
//
// # Overview
//
// The clarifai package defines the domain types (Model, Input, Concept,
// Workflow, Token) and the interfaces of the resource clients (ModelsClient,
// InputsClient, ...). A concrete implementation is provided by the
// clarifaiclient package, which validates credentials, builds the shared
// configuration, and wires the transport and the token manager.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
//	  "github.com/fivetwenty-io/clarifai-go/pkg/clarifaiclient"
//	)
//
//	func example() {
//	  app, err := clarifaiclient.New(&clarifai.Options{APIKey: "..."})
//	  if err != nil { log.Fatal(err) }
//
//	  models, err := app.Models().List(context.Background(), &clarifai.ListOptions{PerPage: 50})
//	  if err != nil { log.Fatal(err) }
//	  _ = models
//	}
//
// # Tokens
//
// API keys and session tokens are sent as headers and need no token exchange.
// The deprecated client ID/secret pair is exchanged for an access token that
// is cached with an absolute expiry and refreshed on first use after it
// expires. Concurrent callers that find the cache stale share one exchange.
// Tokens can also be supplied up front (Options.Token) or installed later
// (App.SetToken) in any shape accepted by NormalizeToken.
//
// # Errors
//
// Construction without a usable credential returns a *ParamsRequiredError.
// A failed token exchange returns the raw *TokenResponseError, and failed API
// calls return a *ResponseError. IsParamsRequired, IsUnauthorized, and
// IsNotFound branch on the common cases.
package clarifai
