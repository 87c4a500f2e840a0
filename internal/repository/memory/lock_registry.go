package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// LockRegistry hands out one mutex per session id so the endpoint can
// serialize turns for a session. Entries expire together with idle
// sessions; Acquire refreshes the expiry so a registry entry always
// outlives any in-flight request holding it.
type LockRegistry struct {
	cache *cache.Cache
}

func NewLockRegistry(sessionTTL time.Duration) *LockRegistry {
	return &LockRegistry{
		cache: cache.New(sessionTTL, 10*time.Minute),
	}
}

func (r *LockRegistry) Acquire(sessionId string) *sync.Mutex {
	for {
		if v, found := r.cache.Get(sessionId); found {
			mu := v.(*sync.Mutex)
			r.cache.Set(sessionId, mu, cache.DefaultExpiration)
			return mu
		}
		mu := &sync.Mutex{}
		if err := r.cache.Add(sessionId, mu, cache.DefaultExpiration); err == nil {
			return mu
		}
		// Lost the insert race, loop and pick up the winner's mutex.
	}
}
