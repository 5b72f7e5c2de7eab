package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLockKey = "test:warm:lock"

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisLocker_Acquire(t *testing.T) {
	client := setupTestRedis(t)
	locker := NewRedisLocker(client, zap.NewNop())

	acquired, err := locker.Acquire(context.Background(), testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_Acquire_Contention(t *testing.T) {
	client := setupTestRedis(t)
	first := NewRedisLocker(client, zap.NewNop())
	second := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, _ = second.Acquire(ctx, testLockKey, 5*time.Second)
	assert.False(t, acquired, "a held lock must not be acquired by another instance")
}

func TestRedisLocker_ReleaseAllowsReacquire(t *testing.T) {
	client := setupTestRedis(t)
	locker := NewRedisLocker(client, zap.NewNop())
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, locker.Release(ctx, testLockKey))

	acquired, err = locker.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "a released lock must be acquirable again")
}

func TestRedisLocker_Release_NotOwned(t *testing.T) {
	client := setupTestRedis(t)
	locker := NewRedisLocker(client, zap.NewNop())

	// Releasing a lock this instance never took is a no-op.
	assert.NoError(t, locker.Release(context.Background(), "never-acquired"))
}
