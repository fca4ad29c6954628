package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yogesh616/MediSearchServer/internal/monitoring"
	"github.com/yogesh616/MediSearchServer/pkg/metrics"
)

// Metrics records latency per route template and feeds the runtime request summary.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := c.Writer.Status()
		metrics.APILatency.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Observe(duration)
		monitoring.RecordRequest(path, status)
	}
}
