package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/yogesh616/MediSearchServer/pkg/errors"
	"github.com/yogesh616/MediSearchServer/pkg/logger"
	"github.com/yogesh616/MediSearchServer/pkg/response"
)

// RateLimitOptions configures the fixed-window limiter.
type RateLimitOptions struct {
	Store    RateStore
	Requests int
	Window   time.Duration
}

// RateLimit limits requests per (clientIP, route) within a fixed window. Limiting is disabled
// when Requests or Window is not positive or no store is configured. Store failures let the
// request through.
func RateLimit(opts RateLimitOptions) gin.HandlerFunc {
	if opts.Store == nil || opts.Requests <= 0 || opts.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := c.ClientIP() + "|" + route

		count, ttl, err := opts.Store.Increment(c.Request.Context(), key, opts.Window)
		if err != nil {
			logger.WithModule("ratelimit").Warn("rate limit store failed", zap.Error(err))
			c.Next()
			return
		}

		remaining := opts.Requests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(opts.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))

		if count > opts.Requests {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
			response.Error(c, appErrors.ErrRateLimit)
			c.Abort()
			return
		}

		c.Next()
	}
}
