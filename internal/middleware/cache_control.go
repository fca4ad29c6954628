package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheControl marks every response as publicly cacheable for maxAge, matching the
// server-side cache TTL.
func CacheControl(maxAge time.Duration) gin.HandlerFunc {
	if maxAge < 0 {
		maxAge = 0
	}
	value := fmt.Sprintf("public, max-age=%d", int64(maxAge/time.Second))

	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
