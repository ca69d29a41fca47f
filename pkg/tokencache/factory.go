package tokencache

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// Type represents the type of token store.
type Type string

const (
	// TypeNATS stores tokens in a NATS JetStream bucket.
	TypeNATS Type = "nats"

	// TypeKeyring stores tokens in the OS keyring.
	TypeKeyring Type = "keyring"

	// TypeFile stores tokens in a YAML file.
	TypeFile Type = "file"

	// TypeNone disables persistence.
	TypeNone Type = "none"
)

// Config configures a token store.
type Config struct {
	// Type is the store backend type
	Type Type

	// NATS bucket configuration
	NATS *NATSConfig

	// KeyringService is the keyring service name
	KeyringService string

	// FilePath defaults to DefaultFilePath()
	FilePath string
}

// New creates a token store from configuration.
func New(ctx context.Context, config *Config) (clarifai.TokenPersister, error) {
	if config == nil {
		return NoOp{}, nil
	}

	switch config.Type {
	case TypeNATS:
		persister, err := NewNATSPersister(ctx, config.NATS)
		if err != nil {
			return nil, err
		}

		return persister, nil

	case TypeKeyring:
		return NewKeyringPersister(config.KeyringService), nil

	case TypeFile:
		path := config.FilePath
		if path == "" {
			var err error

			path, err = DefaultFilePath()
			if err != nil {
				return nil, err
			}
		}

		return NewFilePersister(path), nil

	case TypeNone, "":
		return NoOp{}, nil

	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedPersist, config.Type)
	}
}

// Builder helps build store configurations.
type Builder struct {
	config *Config
}

// NewBuilder creates a builder for a store of type TypeNone.
func NewBuilder() *Builder {
	return &Builder{config: &Config{Type: TypeNone}}
}

// WithType sets the store type.
func (b *Builder) WithType(storeType Type) *Builder {
	b.config.Type = storeType

	return b
}

// WithNATSConfig sets the NATS bucket configuration.
func (b *Builder) WithNATSConfig(config *NATSConfig) *Builder {
	b.config.NATS = config

	return b
}

// WithKeyringService sets the keyring service name.
func (b *Builder) WithKeyringService(service string) *Builder {
	b.config.KeyringService = service

	return b
}

// WithFilePath sets the token file path.
func (b *Builder) WithFilePath(path string) *Builder {
	b.config.FilePath = path

	return b
}

// Build creates the store from the configuration.
func (b *Builder) Build(ctx context.Context) (clarifai.TokenPersister, error) {
	return New(ctx, b.config)
}

// NoOp is a token store that stores nothing.
type NoOp struct{}

// LoadToken always reports no token.
func (NoOp) LoadToken(context.Context, string) (*clarifai.Token, error) {
	return nil, nil
}

// SaveToken does nothing.
func (NoOp) SaveToken(context.Context, string, *clarifai.Token) error {
	return nil
}

// Chain consults stores in order (L1, L2, ...).
type Chain struct {
	stores []clarifai.TokenPersister
}

// NewChain creates a new store chain.
func NewChain(stores ...clarifai.TokenPersister) *Chain {
	return &Chain{stores: stores}
}

// LoadToken returns the first token found and copies it into the stores
// consulted before it. A failing store is skipped.
func (c *Chain) LoadToken(ctx context.Context, key string) (*clarifai.Token, error) {
	var lastErr error

	for i, store := range c.stores {
		token, err := store.LoadToken(ctx, key)
		if err != nil {
			lastErr = err

			continue
		}

		if token == nil {
			continue
		}

		for j := range i {
			_ = c.stores[j].SaveToken(ctx, key, token)
		}

		return token, nil
	}

	return nil, lastErr
}

// SaveToken stores token in every store and returns the last failure.
func (c *Chain) SaveToken(ctx context.Context, key string, token *clarifai.Token) error {
	var lastErr error

	for _, store := range c.stores {
		err := store.SaveToken(ctx, key, token)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}
