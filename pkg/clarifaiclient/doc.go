// Package clarifaiclient provides the main entry point for constructing a
// Clarifai API client that implements the clarifai.App interface.
//
// It validates the supplied credentials, resolves the endpoint and the scoped
// base path, and wires the HTTP transport and the token manager behind the
// resource interfaces defined in the clarifai package.
//
// Quick start
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
//	  ctx := context.Background()
//
//	  // Preferred: an API key.
//	  app, err := clarifaiclient.NewWithAPIKey("your-api-key", &clarifai.Options{
//	    UserID: "me",
//	    AppID:  "my-app",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  out, err := app.Models().Predict(ctx, "general-image-recognition", []clarifai.Input{
//	    {Data: clarifai.InputData{Image: &clarifai.Image{URL: "https://samples.clarifai.com/metro-north.jpg"}}},
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = out
//
//	  // Legacy: a client ID/secret pair. A deprecation warning is logged and
//	  // access tokens are exchanged and refreshed transparently.
//	  legacy, err := clarifaiclient.NewWithClientCredentials("id", "secret", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = legacy
//	}
//
// Endpoint resolution
//
// Options.APIEndpoint wins when set. Otherwise the API_ENDPOINT environment
// variable is consulted, then https://api.clarifai.com. Tests can replace the
// environment lookup with any clarifai.Source, e.g. a *viper.Viper.
//
// Sharing tokens between processes
//
// Set Options.TokenPersister to one of the tokencache backends to reuse legacy
// access tokens across processes instead of exchanging credentials in each.
package clarifaiclient
