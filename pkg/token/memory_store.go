package token

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore backs single-instance deployments and tests.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (s *MemoryStore) Put(ctx context.Context, token, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(token, path, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Take(ctx context.Context, token string) (string, bool, error) {
	// go-cache has no atomic get-and-delete, so guard the pair.
	s.mu.Lock()
	defer s.mu.Unlock()
	v, found := s.cache.Get(token)
	if !found {
		return "", false, nil
	}
	s.cache.Delete(token)
	return v.(string), true, nil
}
