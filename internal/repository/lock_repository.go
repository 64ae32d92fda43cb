package repository

import (
	"context"
	"fmt"
	"time"

	"tkphotos/internal/storage"
	redisapp "tkphotos/internal/storage/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance SET NX lock.
type RedisLocker struct {
	client *redisapp.Client
}

func NewRedisLocker(client *redisapp.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire returns storage.ErrLockHeld when another holder owns key.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	const op = "repository.RedisLocker.Acquire"

	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrLockHeld)
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{lockKey(key)}, token).Err()
	}

	return release, nil
}

func lockKey(key string) string {
	return "lock:" + key
}
