package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yogesh616/MediSearchServer/internal/cache"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
	"github.com/yogesh616/MediSearchServer/pkg/logger"
	"github.com/yogesh616/MediSearchServer/pkg/metrics"
)

const (
	defaultSchedule = "@every 2m"

	jobDatabaseCache = "cache_entries_cleanup"
	jobMemoryCache   = "memory_cache_cleanup"
)

// Cleaner purges expired response cache entries on a cron schedule. The in-process store
// also sweeps itself; the cleaner additionally reports its size and covers the database
// backend, which has no sweeper of its own.
type Cleaner struct {
	dbCache  *cache.DatabaseStore
	memCache *cache.MemoryStore
	cron     *cron.Cron
	log      *zap.Logger
	schedule string
	timeout  time.Duration
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithSchedule overrides the cron specification shared by the cleanup jobs.
func WithSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// WithDatabaseCache enables purging of expired cache_entries rows.
func WithDatabaseCache(store *cache.DatabaseStore) Option {
	return func(cleaner *Cleaner) {
		cleaner.dbCache = store
	}
}

// WithMemoryCache enables purging of the in-process store.
func WithMemoryCache(store *cache.MemoryStore) Option {
	return func(cleaner *Cleaner) {
		cleaner.memCache = store
	}
}

// NewCleaner constructs a Cleaner. Without any cache attached Start is a no-op.
func NewCleaner(opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		schedule: defaultSchedule,
		timeout:  30 * time.Second,
		log:      logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

func (c *Cleaner) enabled() bool {
	return c.dbCache != nil || c.memCache != nil
}

// Start registers the cleanup job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if !c.enabled() {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := c.RunOnce(ctx); err != nil {
			c.log.Warn("cache cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every configured cleanup routine and aggregates their errors.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.dbCache != nil {
		errs = multierr.Append(errs, c.run(jobDatabaseCache, func() (int64, error) {
			return c.dbCache.PurgeExpired(ctx)
		}))
	}

	if c.memCache != nil {
		errs = multierr.Append(errs, c.run(jobMemoryCache, func() (int64, error) {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			purged := c.memCache.PurgeExpired()
			metrics.CacheEntries.Set(float64(c.memCache.Len()))
			return int64(purged), nil
		}))
	}

	return errs
}

func (c *Cleaner) run(job string, fn func() (int64, error)) error {
	start := time.Now()
	purged, err := fn()
	duration := time.Since(start)

	if err != nil {
		monitoring.RecordMaintenanceRun(job, "failure", err.Error(), purged, duration)
		return fmt.Errorf("%s: %w", job, err)
	}

	monitoring.RecordMaintenanceRun(job, "success", "", purged, duration)
	if purged > 0 {
		c.log.Debug("purged expired cache entries", zap.String("job", job), zap.Int64("purged", purged))
	}
	return nil
}
