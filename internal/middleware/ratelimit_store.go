package middleware

import (
	"context"
	"time"

	"github.com/yogesh616/MediSearchServer/internal/cache"
)

// RateStore coordinates rate limiting counters for a specific key.
type RateStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, ttl time.Duration, err error)
}

// storeRateStore implements RateStore on any cache backend. Counters share the backend with
// cached responses under their own key prefix.
type storeRateStore struct {
	store cache.Store
}

// NewRateStore wraps a cache store (memory, redis or database) in a RateStore.
func NewRateStore(store cache.Store) RateStore {
	if store == nil {
		return nil
	}
	return &storeRateStore{store: store}
}

func (s *storeRateStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}
	count, ttl, err := s.store.IncrementWithTTL(ctx, "ratelimit:"+key, window)
	return int(count), ttl, err
}
