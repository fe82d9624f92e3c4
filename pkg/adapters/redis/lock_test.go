package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/senglish/pkg/adapters/redis"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_Exclusive(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	// 1. First acquire succeeds
	unlock, err := locker.Lock(ctx, "session-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:session-1"))

	// 2. Second acquire times out while held
	tctx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(tctx, "session-1", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// 3. Release and reacquire
	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:session-1"))

	unlock2, err := locker.Lock(ctx, "session-1", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestRedisLocker_StaleUnlockIsNoop(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "s", time.Second)
	require.NoError(t, err)

	// Lock expires and someone else takes it.
	mr.FastForward(2 * time.Second)
	unlockOther, err := locker.Lock(ctx, "s", 5*time.Second)
	require.NoError(t, err)

	// The stale owner must not release the new holder's lock.
	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("test:lock:s"))

	require.NoError(t, unlockOther(ctx))
}
