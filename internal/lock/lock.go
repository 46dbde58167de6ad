// Package lock provides short-lived per-key mutual exclusion. The archive
// step takes one lock per video job so concurrent polls do not download and
// store the same asset twice.
package lock

import (
	"context"
	"sync"
	"time"
)

// Unlock releases a held lock. It is safe to call more than once.
type Unlock func()

type Locker interface {
	// TryLock acquires key without waiting. ok is false when another holder
	// has it. The lock expires on its own after ttl.
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock Unlock, ok bool, err error)
}

// MemoryLocker serializes holders within one process.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryLease
	now   func() time.Time
	token uint64
}

type memoryLease struct {
	token   uint64
	expires time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held: make(map[string]memoryLease),
		now:  time.Now,
	}
}

func (m *MemoryLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if lease, ok := m.held[key]; ok && now.Before(lease.expires) {
		return nil, false, nil
	}

	m.token++
	token := m.token
	m.held[key] = memoryLease{token: token, expires: now.Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			// A lease that expired and was re-acquired belongs to someone else.
			if lease, ok := m.held[key]; ok && lease.token == token {
				delete(m.held, key)
			}
		})
	}, true, nil
}
