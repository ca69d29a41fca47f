package tokencache

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

func encodeToken(token *clarifai.Token) ([]byte, error) {
	data, err := json.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("encoding token: %w", err)
	}

	return data, nil
}

// decodeToken accepts both field casings so records written by older
// clients still load.
func decodeToken(data []byte) (*clarifai.Token, error) {
	var raw clarifai.RawToken

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidTokenRecord, err)
	}

	token := raw.Token()
	if token.AccessToken == "" {
		return nil, constants.ErrInvalidTokenRecord
	}

	return token, nil
}

func checkKey(key string) error {
	if key == "" {
		return constants.ErrTokenKeyRequired
	}

	return nil
}
