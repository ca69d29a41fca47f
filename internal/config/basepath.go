package config

import (
	"net/url"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
)

// BasePath scopes endpoint to a user and an app. Each segment is added only
// when its ID is set, independently of the other.
func BasePath(endpoint, userID, appID string) string {
	basePath := endpoint

	if userID != "" {
		basePath += constants.UsersSegment + url.PathEscape(userID)
	}

	if appID != "" {
		basePath += constants.AppsSegment + url.PathEscape(appID)
	}

	return basePath
}

// TokenURL returns the legacy token endpoint under basePath.
func TokenURL(basePath string) string {
	return basePath + constants.TokenPath
}
