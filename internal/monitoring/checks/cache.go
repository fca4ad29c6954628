package checks

import (
	"context"
	"time"

	"github.com/yogesh616/MediSearchServer/internal/cache"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
)

const cacheProbeKey = "health:probe"

// Pinger is implemented by cache backends with a cheap connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Cache returns a readiness probe for the response cache. Backends implementing Pinger are
// pinged; others get a short-lived write and read of a probe key. Failures report degraded:
// lookups fall back to the document store while the cache is out.
func Cache(backend string, store cache.Store, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("cache", func(ctx context.Context) monitoring.ProbeResult {
		if store == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: "cache unavailable"}
		}

		result := timed(ctx, "cache", timeout, func(ctx context.Context) error {
			if pinger, ok := store.(Pinger); ok {
				return pinger.Ping(ctx)
			}
			if err := store.Set(ctx, cacheProbeKey, []byte("ok"), time.Second); err != nil {
				return err
			}
			_, _, err := store.Get(ctx, cacheProbeKey)
			return err
		})

		if result.Status != monitoring.StatusUp {
			result.Status = monitoring.StatusDegraded
			result.Details = backend + ": " + result.Details
			return result
		}
		result.Details = backend
		return result
	})
}
