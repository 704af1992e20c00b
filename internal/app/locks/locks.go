package locks

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired reports that another operation holds the key.
var ErrNotAcquired = errors.New("locks: key already held")

// Manager serializes operations on a shared resource. The booking core
// locks per booking id (payment vs payment, payment vs cancellation) and
// per package id (capacity check vs concurrent creation).
type Manager interface {
	// Acquire blocks until the key is held or ctx is done. TTL guards
	// against a crashed holder when the backing store supports expiry.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Release frees the key. Safe to call once.
type Release func()

// BookingKey and PackageKey namespace the lock space so booking and
// package serialization never collide.
func BookingKey(id string) string { return "lock:booking:" + id }

func PackageKey(id string) string { return "lock:package:" + id }
