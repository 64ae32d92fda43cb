package repository_test

import (
	"context"
	"testing"
	"time"

	"tkphotos/internal/repository"
	"tkphotos/internal/storage"
	redisapp "tkphotos/internal/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redisapp.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	locker := repository.NewRedisLocker(client)

	release, err := locker.Acquire(ctx, "photo-metadata", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "photo-metadata", time.Minute)
	assert.ErrorIs(t, err, storage.ErrLockHeld)

	require.NoError(t, release(ctx))

	again, err := locker.Acquire(ctx, "photo-metadata", time.Minute)
	require.NoError(t, err)

	// an expired holder must not delete a lock taken after it
	mr.FastForward(2 * time.Minute)
	third, err := locker.Acquire(ctx, "photo-metadata", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))

	_, err = locker.Acquire(ctx, "photo-metadata", time.Minute)
	assert.ErrorIs(t, err, storage.ErrLockHeld)

	require.NoError(t, third(ctx))
}
