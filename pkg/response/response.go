package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/yogesh616/MediSearchServer/pkg/errors"
)

// MessageBody is the payload used for informational, validation and error responses.
type MessageBody struct {
	Message string `json:"message"`
}

// AnswerBody wraps a resolved answer.
type AnswerBody struct {
	Answer string `json:"answer"`
}

// JSON writes data as the bare response body.
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Raw writes a pre-encoded JSON document, typically a cached payload.
func Raw(c *gin.Context, statusCode int, body []byte) {
	c.Data(statusCode, "application/json; charset=utf-8", body)
}

// Message writes a {"message": ...} body with the given status.
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, MessageBody{Message: message})
}

// Answer writes a {"answer": ...} body with status 200.
func Answer(c *gin.Context, answer string) {
	c.JSON(http.StatusOK, AnswerBody{Answer: answer})
}

// Error writes a message response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status(), MessageBody{Message: appErr.Message})
}
