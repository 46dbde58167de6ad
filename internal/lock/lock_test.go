package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hug-studio-backend/internal/logging"
)

func TestMemoryLocker_Exclusive(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	unlock, ok, err := l.TryLock(ctx, "video-archive:v1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, "video-archive:v1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	_, ok, _ = l.TryLock(ctx, "video-archive:v2", time.Minute)
	assert.True(t, ok, "other keys are independent")

	unlock()
	unlock()

	_, ok, _ = l.TryLock(ctx, "video-archive:v1", time.Minute)
	assert.True(t, ok)
}

func TestMemoryLocker_Expiry(t *testing.T) {
	l := NewMemoryLocker()
	now := time.Now()
	l.now = func() time.Time { return now }

	staleUnlock, ok, _ := l.TryLock(context.Background(), "k", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = l.TryLock(context.Background(), "k", time.Minute)
	require.True(t, ok, "expired lease can be taken over")

	// The stale holder must not release the new lease.
	staleUnlock()
	_, ok, _ = l.TryLock(context.Background(), "k", time.Minute)
	assert.False(t, ok)
}

func TestMemoryLocker_Concurrent(t *testing.T) {
	l := NewMemoryLocker()
	var winners atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := l.TryLock(context.Background(), "same", time.Minute); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestMemoryLocker_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := NewMemoryLocker().TryLock(ctx, "k", time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisLocker(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	rdb, err := Connect(ctx, redisURL)
	require.NoError(t, err)
	defer rdb.Close()

	l := NewRedisLocker(rdb, logging.Nop())
	key := "test:" + uuid.NewString()

	unlock, ok, err := l.TryLock(ctx, key, 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, key, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	unlock()

	unlock2, ok, err := l.TryLock(ctx, key, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	unlock2()
}

func TestRedisLocker_UnlockIsIdempotent(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	rdb, err := Connect(ctx, redisURL)
	require.NoError(t, err)
	defer rdb.Close()

	l := NewRedisLocker(rdb, logging.Nop())
	key := "test:" + uuid.NewString()

	unlock, ok, err := l.TryLock(ctx, key, 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock()
		}()
	}
	wg.Wait()

	next, ok, err := l.TryLock(ctx, key, 10*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	defer next()

	// A repeated release from the first holder leaves the new lease alone.
	unlock()
	_, ok, err = l.TryLock(ctx, key, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}
