package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/yogesh616/MediSearchServer/pkg/errors"
	"github.com/yogesh616/MediSearchServer/pkg/response"
	appValidator "github.com/yogesh616/MediSearchServer/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs its validate tags. Malformed
// payloads and absent or blank required fields are answered with missing; other rule
// failures get a 400 naming the rule. It returns false once a response has been written.
func bindAndValidate[T any](c *gin.Context, dest *T, missing *appErrors.AppError) bool {
	if missing == nil {
		missing = appErrors.NewBadRequest("invalid JSON payload")
	}

	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, missing)
		return false
	}

	err := appValidator.ValidateStruct(dest)
	if err == nil {
		return true
	}

	var ve appValidator.ValidationErrors
	switch {
	case !errors.As(err, &ve):
		response.Error(c, appErrors.NewBadRequest("invalid request payload"))
	case ve.Missing():
		response.Error(c, missing)
	default:
		response.Error(c, appErrors.NewBadRequest(ve.Message()))
	}
	return false
}

// parseIntQuery reads an integer query parameter. Absent or non-numeric values yield fallback.
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// requestContext is the context store queries and probes run under, so a client
// disconnect cancels them.
func requestContext(c *gin.Context) context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}
