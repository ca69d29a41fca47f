package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

func TestTokenStore(t *testing.T) {
	t.Parallel()

	store := NewTokenStore()
	assert.Nil(t, store.Get())

	token := &clarifai.Token{AccessToken: "abc", ExpiresIn: 60, ExpireTime: 1}
	store.Set(token)
	assert.Same(t, token, store.Get())

	store.Clear()
	assert.Nil(t, store.Get())
}

func TestTokenStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewTokenStore()

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(2)

		go func() {
			defer wg.Done()
			store.Set(&clarifai.Token{AccessToken: "abc", ExpiresIn: int64(i + 1)})
		}()

		go func() {
			defer wg.Done()
			_ = store.Get()
		}()
	}

	wg.Wait()
	assert.Equal(t, "abc", store.Get().AccessToken)
}
