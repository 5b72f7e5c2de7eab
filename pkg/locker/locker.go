// Package locker provides distributed locking for coordinating background
// work across service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker provides cross-instance mutual exclusion.
// Implementations must be safe for concurrent use.
type DistributedLocker interface {
	// Acquire attempts to take the lock for key. Returns true on success,
	// false when another instance holds it. The lock expires after ttl if
	// never released; pick the ttl for the job's purpose (operation timeout
	// for mutual exclusion, cooldown period for rate limiting).
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock for key. A no-op when this instance does
	// not own it.
	Release(ctx context.Context, key string) error
}
