// Package tokencache provides clarifai.TokenPersister backends that share
// legacy access tokens between processes: a NATS JetStream key-value bucket,
// the OS keyring, and a lock-guarded YAML file. Backends can be chained so a
// fast local store is consulted before a shared one.
package tokencache
