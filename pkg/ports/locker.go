package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes the chains of one session across processes
// that share a state backend.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx ends. The lock expires after ttl
	// if the holder never calls the returned UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
