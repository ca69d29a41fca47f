package tokencache

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// KeyringPersister stores tokens in the OS keyring.
type KeyringPersister struct {
	service string
}

// NewKeyringPersister creates a keyring persister. An empty service uses
// "clarifai".
func NewKeyringPersister(service string) *KeyringPersister {
	if service == "" {
		service = constants.KeyringService
	}

	return &KeyringPersister{service: service}
}

// LoadToken implements clarifai.TokenPersister.
func (p *KeyringPersister) LoadToken(_ context.Context, key string) (*clarifai.Token, error) {
	err := checkKey(key)
	if err != nil {
		return nil, err
	}

	data, err := keyring.Get(p.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading keyring: %w", err)
	}

	return decodeToken([]byte(data))
}

// SaveToken implements clarifai.TokenPersister.
func (p *KeyringPersister) SaveToken(_ context.Context, key string, token *clarifai.Token) error {
	err := checkKey(key)
	if err != nil {
		return err
	}

	data, err := encodeToken(token)
	if err != nil {
		return err
	}

	err = keyring.Set(p.service, key, string(data))
	if err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}

	return nil
}

// DeleteToken removes the token stored under key.
func (p *KeyringPersister) DeleteToken(_ context.Context, key string) error {
	err := keyring.Delete(p.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting from keyring: %w", err)
	}

	return nil
}
