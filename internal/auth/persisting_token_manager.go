package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// PersistingTokenManager wraps a TokenManager and saves every new token to a
// clarifai.TokenPersister so other processes can reuse it.
//
// Saves run in the background, one at a time, and only the newest pending
// token is written. Each load and save is bounded by constants.PersistTimeout.
type PersistingTokenManager struct {
	manager   TokenManager
	persister clarifai.TokenPersister
	key       string
	logger    clarifai.Logger
	now       func() time.Time
	timeout   time.Duration

	mutex     sync.Mutex
	persisted *clarifai.Token
	pending   *clarifai.Token
	saving    bool
	saves     sync.WaitGroup
}

// NewPersistingTokenManager creates a persisting token manager. A valid token
// already stored under key is installed in manager before it is returned.
func NewPersistingTokenManager(
	ctx context.Context,
	manager TokenManager,
	persister clarifai.TokenPersister,
	key string,
	logger clarifai.Logger,
) *PersistingTokenManager {
	m := &PersistingTokenManager{
		manager:   manager,
		persister: persister,
		key:       key,
		logger:    logger,
		now:       time.Now,
		timeout:   constants.PersistTimeout,
	}

	m.seed(ctx)

	return m
}

// GetToken returns a valid access token and persists it if it was refreshed.
func (m *PersistingTokenManager) GetToken(ctx context.Context) (*clarifai.Token, error) {
	token, err := m.manager.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	m.persistIfChanged(token)

	return token, nil
}

// RefreshToken forces a refresh and persists the result.
func (m *PersistingTokenManager) RefreshToken(ctx context.Context) error {
	err := m.manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.persistIfChanged(m.manager.CachedToken())

	return nil
}

// SetToken installs token and schedules it for persistence. It never waits
// for the persister.
func (m *PersistingTokenManager) SetToken(token *clarifai.Token) bool {
	if !m.manager.SetToken(token) {
		return false
	}

	m.persistIfChanged(m.manager.CachedToken())

	return true
}

// CachedToken returns the cached token without fetching.
func (m *PersistingTokenManager) CachedToken() *clarifai.Token {
	return m.manager.CachedToken()
}

// Wait blocks until scheduled saves have finished.
func (m *PersistingTokenManager) Wait() {
	m.saves.Wait()
}

func (m *PersistingTokenManager) seed(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	token, err := m.persister.LoadToken(ctx, m.key)
	if err != nil {
		m.warn("Failed to load persisted token", err)

		return
	}

	if !token.Valid(m.now()) {
		return
	}

	if m.manager.SetToken(token) {
		m.mutex.Lock()
		m.persisted = m.manager.CachedToken()
		m.mutex.Unlock()
	}
}

// persistIfChanged schedules token for saving unless it is the one saved or
// scheduled last.
func (m *PersistingTokenManager) persistIfChanged(token *clarifai.Token) {
	if token == nil {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.persisted != nil && *m.persisted == *token {
		return
	}

	m.persisted = token
	m.pending = token

	if m.saving {
		return
	}

	m.saving = true
	m.saves.Add(1)

	go m.drain()
}

// drain saves pending tokens until none is left. Failures are logged and the
// token is scheduled again by the next change check.
func (m *PersistingTokenManager) drain() {
	defer m.saves.Done()

	for {
		m.mutex.Lock()
		token := m.pending
		m.pending = nil

		if token == nil {
			m.saving = false
			m.mutex.Unlock()

			return
		}
		m.mutex.Unlock()

		err := m.persistToken(token)
		if err != nil {
			m.warn("Failed to persist refreshed token", err)

			m.mutex.Lock()
			if m.persisted == token {
				m.persisted = nil
			}
			m.mutex.Unlock()
		}
	}
}

func (m *PersistingTokenManager) persistToken(token *clarifai.Token) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := m.persister.SaveToken(ctx, m.key, token)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

func (m *PersistingTokenManager) warn(msg string, err error) {
	if m.logger == nil {
		return
	}

	m.logger.Warn(msg, map[string]interface{}{
		"key":   m.key,
		"error": err.Error(),
	})
}
