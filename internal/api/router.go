package api

import (
	"errors"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yogesh616/MediSearchServer/internal/app"
	"github.com/yogesh616/MediSearchServer/internal/cache"
	"github.com/yogesh616/MediSearchServer/internal/handlers"
	"github.com/yogesh616/MediSearchServer/internal/middleware"
	"github.com/yogesh616/MediSearchServer/internal/monitoring"
	"github.com/yogesh616/MediSearchServer/internal/services"
)

// Dependencies bundles what the router needs from the composition root.
type Dependencies struct {
	Config     *app.Config
	Questions  *services.QuestionService
	Monitoring *monitoring.Module
	// RateStore backs the optional per-client limiter.
	RateStore middleware.RateStore
}

// NewRouter builds the Gin engine, wires middleware and registers the public routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, errors.New("config must be provided")
	}
	if deps.Questions == nil {
		return nil, errors.New("question service must be provided")
	}
	cfg := deps.Config

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(middleware.CacheControl(cacheMaxAge(cfg)))
	if cfg.Server.Compression {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	r.Use(middleware.RateLimit(middleware.RateLimitOptions{
		Store:    deps.RateStore,
		Requests: cfg.Server.RateLimit.Requests,
		Window:   cfg.Server.RateLimit.Window,
	}))

	registerQuestionRoutes(r, handlers.NewQuestionHandler(deps.Questions))
	registerHealthRoutes(r, cfg, deps.Monitoring)
	registerMonitoringRoutes(r, cfg, deps.Monitoring)

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}

func cacheMaxAge(cfg *app.Config) time.Duration {
	if cfg.Cache.TTL > 0 {
		return cfg.Cache.TTL
	}
	return cache.DefaultTTL
}

func registerQuestionRoutes(r gin.IRouter, h *handlers.QuestionHandler) {
	r.GET("/medical-questions", h.List)
	r.GET("/suggestion", h.Suggestion)
	r.GET("/answer", h.Answer)
	r.POST("/submit-question", h.Submit)
}
