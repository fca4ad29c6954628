package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yogesh616/MediSearchServer/internal/api"
	"github.com/yogesh616/MediSearchServer/internal/app"
	"github.com/yogesh616/MediSearchServer/internal/app/maintenance"
	"github.com/yogesh616/MediSearchServer/internal/cache"
	"github.com/yogesh616/MediSearchServer/internal/database"
	"github.com/yogesh616/MediSearchServer/internal/middleware"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
	"github.com/yogesh616/MediSearchServer/internal/monitoring/checks"
	"github.com/yogesh616/MediSearchServer/internal/services"
	"github.com/yogesh616/MediSearchServer/pkg/logger"
)

const probeTimeout = 2 * time.Second

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB           *gorm.DB
	Cache        cache.Store
	CacheBackend string
	RateCache    cache.Store
	Cleaner      *maintenance.Cleaner
	Monitoring   *monitoring.Module
	Router       *gin.Engine
}

// bootstrapRuntime initialises the database, cache backend, services, and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger, importPath string) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(importPath) != "" {
		if err := importQuestions(ctx, stack.DB, importPath, log); err != nil {
			return nil, err
		}
	}

	stack.Cache, stack.CacheBackend = selectCacheStore(cfg, stack.DB, log)
	stack.RateCache = selectRateStore(cfg, stack.Cache)

	repo, err := services.NewQuestionRepository(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise question repository: %w", err)
	}

	questions, err := services.NewQuestionService(
		repo,
		cache.NewReadThrough(stack.Cache, cfg.Cache.TTL),
		services.WithLegacySuggestionCache(cfg.Features.LegacySuggestionCache),
	)
	if err != nil {
		return nil, fmt.Errorf("initialise question service: %w", err)
	}

	stack.Monitoring, err = monitoring.NewModule(monitoring.Options{})
	if err != nil {
		return nil, fmt.Errorf("initialise monitoring: %w", err)
	}
	monitoring.SetModule(stack.Monitoring)

	health := stack.Monitoring.Health()
	health.RegisterLiveness(checks.Maintenance(0))
	health.RegisterReadiness(checks.Database(stack.DB, probeTimeout))
	health.RegisterReadiness(checks.Cache(stack.CacheBackend, stack.Cache, probeTimeout))

	if cfg.Maintenance.Enabled {
		stack.Cleaner = newCleaner(cfg, stack.Cache)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	stack.Router, err = api.NewRouter(api.Dependencies{
		Config:     cfg,
		Questions:  questions,
		Monitoring: stack.Monitoring,
		RateStore:  middleware.NewRateStore(stack.RateCache),
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		select {
		case <-s.Cleaner.Stop().Done():
		case <-ctx.Done():
		}
	}

	var errs error
	if s.RateCache != s.Cache {
		errs = multierr.Append(errs, closeStore(s.RateCache))
	}
	errs = multierr.Append(errs, closeStore(s.Cache))
	errs = multierr.Append(errs, closeDatabase(s.DB))

	for _, err := range multierr.Errors(errs) {
		log.Warn("shutdown", zap.Error(err))
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		_ = closeDatabase(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", database.Dialect(db)))

	return db, nil
}

func importQuestions(ctx context.Context, db *gorm.DB, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	result, err := database.ImportQuestions(ctx, db, f)
	if err != nil {
		return fmt.Errorf("import questions: %w", err)
	}

	log.Info("questions imported",
		zap.String("file", path),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
	)
	return nil
}

// selectCacheStore builds the configured response cache. A remote backend that cannot be
// reached at startup is replaced by the in-process store.
func selectCacheStore(cfg *app.Config, db *gorm.DB, log *zap.Logger) (cache.Store, string) {
	switch backend := cfg.Cache.Backend(); backend {
	case "redis":
		store, err := cache.NewRedisStore(cfg.Cache.RedisClientConfig())
		if err != nil {
			log.Warn("redis unavailable; falling back to in-memory cache", zap.Error(err))
			break
		}
		log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		return store, backend
	case "database":
		return cache.NewDatabaseStore(db), backend
	}

	return cache.NewMemoryStore(cfg.Cache.MemoryConfig()), "memory"
}

// selectRateStore returns the store holding rate-limit counters. The in-process response
// cache evicts under LRU pressure, so counters get their own unbounded MemoryStore there;
// remote backends only drop keys on expiry and are shared.
func selectRateStore(cfg *app.Config, responses cache.Store) cache.Store {
	if _, ok := responses.(*cache.MemoryStore); !ok {
		return responses
	}
	return cache.NewMemoryStore(cache.MemoryConfig{CleanupInterval: cfg.Cache.CleanupInterval})
}

func closeStore(store cache.Store) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func newCleaner(cfg *app.Config, store cache.Store) *maintenance.Cleaner {
	opts := []maintenance.Option{maintenance.WithSchedule(cfg.Maintenance.Schedule)}
	switch s := store.(type) {
	case *cache.DatabaseStore:
		opts = append(opts, maintenance.WithDatabaseCache(s))
	case *cache.MemoryStore:
		opts = append(opts, maintenance.WithMemoryCache(s))
	}
	return maintenance.NewCleaner(opts...)
}

func closeDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("obtain sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
