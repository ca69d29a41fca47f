package tokencache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// NATSConfig configures a NATS JetStream token bucket.
type NATSConfig struct {
	// URL is used to connect when Conn is nil.
	URL string
	// Conn is an existing connection. It is not closed by Close.
	Conn *nats.Conn
	// Bucket defaults to "clarifai_tokens".
	Bucket string
	// TTL expires stored tokens. Zero keeps them until overwritten.
	TTL time.Duration
}

// NATSPersister stores tokens in a JetStream key-value bucket.
type NATSPersister struct {
	kv   jetstream.KeyValue
	conn *nats.Conn
}

// NewNATSPersister connects to NATS and creates or updates the bucket.
func NewNATSPersister(ctx context.Context, config *NATSConfig) (*NATSPersister, error) {
	if config == nil || (config.Conn == nil && config.URL == "") {
		return nil, constants.ErrNATSConnRequired
	}

	conn := config.Conn

	var owned *nats.Conn

	if conn == nil {
		var err error

		conn, err = nats.Connect(config.URL, nats.Name("clarifai-go token cache"))
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		owned = conn
	}

	kv, err := createBucket(ctx, conn, config)
	if err != nil {
		if owned != nil {
			owned.Close()
		}

		return nil, err
	}

	return &NATSPersister{kv: kv, conn: owned}, nil
}

// NewNATSPersisterFromKeyValue wraps an existing bucket.
func NewNATSPersisterFromKeyValue(kv jetstream.KeyValue) *NATSPersister {
	return &NATSPersister{kv: kv}
}

func createBucket(ctx context.Context, conn *nats.Conn, config *NATSConfig) (jetstream.KeyValue, error) {
	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = constants.TokenCacheBucket
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Clarifai access tokens",
		TTL:         config.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}

	return kv, nil
}

// LoadToken implements clarifai.TokenPersister.
func (p *NATSPersister) LoadToken(ctx context.Context, key string) (*clarifai.Token, error) {
	err := checkKey(key)
	if err != nil {
		return nil, err
	}

	entry, err := p.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting token from NATS: %w", err)
	}

	return decodeToken(entry.Value())
}

// SaveToken implements clarifai.TokenPersister.
func (p *NATSPersister) SaveToken(ctx context.Context, key string, token *clarifai.Token) error {
	err := checkKey(key)
	if err != nil {
		return err
	}

	data, err := encodeToken(token)
	if err != nil {
		return err
	}

	_, err = p.kv.Put(ctx, key, data)
	if err != nil {
		return fmt.Errorf("storing token in NATS: %w", err)
	}

	return nil
}

// DeleteToken removes the token stored under key.
func (p *NATSPersister) DeleteToken(ctx context.Context, key string) error {
	err := p.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting token from NATS: %w", err)
	}

	return nil
}

// Close closes the connection if the persister opened it.
func (p *NATSPersister) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
