package memory

import (
	"context"
	"sync"
	"time"

	"wayfare/internal/app/locks"
)

// LockManager serializes keyed operations within a single process. Each key
// maps to a mutex; Acquire blocks until the holder releases or ctx is done.
type LockManager struct {
	mu    sync.Mutex
	items map[string]chan struct{}
}

func NewLockManager() *LockManager {
	return &LockManager{items: make(map[string]chan struct{})}
}

func (m *LockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (locks.Release, error) {
	for {
		m.mu.Lock()
		holder, held := m.items[key]
		if !held {
			ch := make(chan struct{})
			m.items[key] = ch
			m.mu.Unlock()
			var once sync.Once
			release := func() {
				once.Do(func() {
					m.mu.Lock()
					delete(m.items, key)
					m.mu.Unlock()
					close(ch)
				})
			}
			return release, nil
		}
		m.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-holder:
			// Holder released; retry the acquire.
		}
	}
}

var _ locks.Manager = (*LockManager)(nil)
