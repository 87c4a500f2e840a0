package token

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreTakeIsSingleUse(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "tok-1", "/tmp/letter.txt"))

	path, found, err := s.Take(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/tmp/letter.txt", path)

	_, found, err = s.Take(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	s := NewMemoryStore(time.Minute)

	_, found, err := s.Take(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreConcurrentTakeWinsOnce(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "tok-race", "/tmp/letter.txt"))

	const n = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	hits := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, found, _ := s.Take(ctx, "tok-race"); found {
				mu.Lock()
				hits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, hits)
}
