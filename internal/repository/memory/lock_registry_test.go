package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockRegistrySameSessionSameMutex(t *testing.T) {
	r := NewLockRegistry(time.Minute)

	a := r.Acquire("session-1")
	b := r.Acquire("session-1")
	c := r.Acquire("session-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestLockRegistryConcurrentAcquire(t *testing.T) {
	r := NewLockRegistry(time.Minute)

	const n = 64
	var wg sync.WaitGroup
	results := make([]*sync.Mutex, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = r.Acquire("session-race")
		}(i)
	}
	wg.Wait()

	// Everyone must have gotten the same mutex despite the insert race.
	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestLockRegistrySerializesCriticalSection(t *testing.T) {
	r := NewLockRegistry(time.Minute)

	const n = 50
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu := r.Acquire("session-x")
			mu.Lock()
			counter++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, n, counter)
}
