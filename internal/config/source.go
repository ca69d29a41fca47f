package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// NewEnvSource returns a source that reads the endpoint override from the
// API_ENDPOINT environment variable at lookup time.
func NewEnvSource() *viper.Viper {
	v := viper.New()
	_ = v.BindEnv(constants.APIEndpointKey, constants.APIEndpointEnv)

	return v
}

// ResolveEndpoint picks the API origin: explicit, then the source override,
// then the default endpoint. A bare host gets an https scheme and a trailing
// slash is dropped.
func ResolveEndpoint(explicit string, src clarifai.Source) string {
	endpoint := strings.TrimSpace(explicit)

	if endpoint == "" && src != nil {
		endpoint = strings.TrimSpace(src.GetString(constants.APIEndpointKey))
	}

	if endpoint == "" {
		endpoint = constants.DefaultAPIEndpoint
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return strings.TrimRight(endpoint, "/")
}
