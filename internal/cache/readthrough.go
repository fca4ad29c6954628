package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yogesh616/MediSearchServer/internal/monitoring"
	"github.com/yogesh616/MediSearchServer/pkg/logger"
	"github.com/yogesh616/MediSearchServer/pkg/metrics"
)

// DefaultTTL is how long a populated response stays cached.
const DefaultTTL = 600 * time.Second

// ReadThrough fronts a Store for the query handlers. Backend failures are logged and reported
// as misses so a broken cache degrades to direct store reads instead of failing requests.
type ReadThrough struct {
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

// NewReadThrough wraps store. ttl <= 0 selects DefaultTTL.
func NewReadThrough(store Store, ttl time.Duration) *ReadThrough {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReadThrough{
		store: store,
		ttl:   ttl,
		log:   logger.WithModule("cache"),
	}
}

// TTL returns the expiry applied by Fill.
func (r *ReadThrough) TTL() time.Duration {
	return r.ttl
}

// Lookup returns the cached payload for key.
func (r *ReadThrough) Lookup(ctx context.Context, key Key) ([]byte, bool) {
	if r == nil || r.store == nil {
		return nil, false
	}

	value, ok, err := r.store.Get(ctx, key.String())
	result := "hit"
	switch {
	case err != nil:
		result = "error"
		r.log.Warn("cache lookup failed", zap.String("key", key.String()), zap.Error(err))
	case !ok:
		result = "miss"
	}

	metrics.CacheLookups.WithLabelValues(key.Namespace, result).Inc()
	monitoring.RecordCacheLookup(result)
	if result != "hit" {
		return nil, false
	}
	return value, true
}

// Fill stores payload under key with the configured TTL, overwriting any previous value.
func (r *ReadThrough) Fill(ctx context.Context, key Key, payload []byte) {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Set(ctx, key.String(), payload, r.ttl); err != nil {
		r.log.Warn("cache populate failed", zap.String("key", key.String()), zap.Error(err))
	}
}
