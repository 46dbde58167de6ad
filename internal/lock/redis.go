package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "hug-studio:lock:"

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares locks between server instances.
type RedisLocker struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

// Connect parses a redis:// or rediss:// URL and checks the connection.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	opts.DialTimeout = 10 * time.Second
	opts.ReadTimeout = 5 * time.Second
	opts.WriteTimeout = 5 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

func NewRedisLocker(rdb *redis.Client, logger zerolog.Logger) *RedisLocker {
	return &RedisLocker{rdb: rdb, logger: logger}
}

func (r *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, bool, error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	ok, err := r.rdb.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be done; release on a fresh one.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, r.rdb, []string{redisKey}, token).Err(); err != nil {
				r.logger.Warn().Err(err).Str("lock", key).Msg("failed to release lock")
			}
		})
	}, true, nil
}
