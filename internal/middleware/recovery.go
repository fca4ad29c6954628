package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yogesh616/MediSearchServer/pkg/logger"
	"github.com/yogesh616/MediSearchServer/pkg/response"
)

const msgInternalError = "Internal server error"

// Recovery turns a handler panic into a 500 {"message"} body. The panic value and stack
// go to the log only.
func Recovery() gin.HandlerFunc {
	log := logger.WithModule("http")
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Error("handler panic",
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			_ = c.Error(fmt.Errorf("panic: %v", rec))
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.MessageBody{Message: msgInternalError})
		}()
		c.Next()
	}
}

// NotFoundHandler answers unknown routes with a 404 {"message"} body.
func NotFoundHandler(c *gin.Context) {
	response.Message(c, http.StatusNotFound, fmt.Sprintf("route %s not found", c.Request.URL.Path))
}
