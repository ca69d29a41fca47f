package auth

import (
	"sync"

	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// TokenStore is the cached token slot of a shared configuration.
// Installed tokens are treated as immutable; Set replaces the pointer.
type TokenStore struct {
	mutex sync.RWMutex
	token *clarifai.Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the cached token or nil.
func (s *TokenStore) Get() *clarifai.Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set replaces the cached token.
func (s *TokenStore) Set(token *clarifai.Token) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token
}

// Clear removes the cached token.
func (s *TokenStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = nil
}
