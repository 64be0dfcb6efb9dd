package lock

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const retryInterval = 25 * time.Millisecond

// Deletes the lock key only if it still holds the caller's token, so an expired
// lock taken over by another writer is never released by the previous owner.
var releaseLockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end

	return 0
`)

// RedisLocker is a Locker shared by every API instance using the same Redis.
type RedisLocker struct {
	client redis.UniversalClient
	logger *slog.Logger
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisLocker(client redis.UniversalClient, logger *slog.Logger, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		logger: logger,
		ttl:    ttl,
		wait:   wait,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, performanceID int) (func(), error) {
	key := performanceLockKey(performanceID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}

		if acquired {
			return func() { l.release(key, token) }, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	// the request context may already be canceled when the lock is released
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := releaseLockScript.Run(ctx, l.client, []string{key}, token).Err()
	if err != nil {
		l.logger.Error("failed to release performance lock", "key", key, "error", err)
	}
}
