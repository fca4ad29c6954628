// Package cache holds the read-through response cache: a Store abstraction with in-process,
// Redis and database backends, plus the key scheme and JSON helpers used by the query service.
package cache

import (
	"context"
	"time"
)

// Store is the byte-oriented backend behind the response cache and the rate limiter.
type Store interface {
	// Get returns the value for key. A key that was never set and one that has expired
	// both report ok == false.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value and restarting its TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// IncrementWithTTL bumps a fixed-window counter, starting a new window of the given
	// length when none is active, and returns the count and the time left in the window.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}
