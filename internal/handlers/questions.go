package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yogesh616/MediSearchServer/internal/services"
	appErrors "github.com/yogesh616/MediSearchServer/pkg/errors"
	"github.com/yogesh616/MediSearchServer/pkg/response"
)

// Response messages for the question endpoints.
const (
	msgNoQuery   = "No query provided."
	msgNoAnswer  = "No answer found."
	msgSubmitted = "Question submitted for review."
)

// QuestionHandler serves the listing, search, answer and submission endpoints.
type QuestionHandler struct {
	svc *services.QuestionService
}

// NewQuestionHandler constructs a QuestionHandler.
func NewQuestionHandler(svc *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

type submitQuestionRequest struct {
	Input string `json:"input" validate:"required,notblank,max=700"`
}

// List handles GET /medical-questions.
func (h *QuestionHandler) List(c *gin.Context) {
	page := parseIntQuery(c, "page", services.DefaultPage)
	limit := parseIntQuery(c, "limit", services.DefaultLimit)

	payload, err := h.svc.ListPage(requestContext(c), page, limit)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, payload)
}

// Suggestion handles GET /suggestion.
func (h *QuestionHandler) Suggestion(c *gin.Context) {
	payload, err := h.svc.Suggest(requestContext(c), c.Query("query"))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, payload)
}

// Answer handles GET /answer. Missing queries and unknown questions are reported with a 200
// message body.
func (h *QuestionHandler) Answer(c *gin.Context) {
	answer, found, err := h.svc.Answer(requestContext(c), c.Query("query"))
	switch {
	case errors.Is(err, services.ErrNoQuery):
		response.Message(c, http.StatusOK, msgNoQuery)
	case err != nil:
		_ = c.Error(err)
		response.Error(c, err)
	case !found:
		response.Message(c, http.StatusOK, msgNoAnswer)
	default:
		response.Answer(c, answer)
	}
}

// Submit handles POST /submit-question.
func (h *QuestionHandler) Submit(c *gin.Context) {
	var req submitQuestionRequest
	if !bindAndValidate(c, &req, appErrors.ErrQuestionRequired) {
		return
	}

	err := h.svc.Submit(requestContext(c), req.Input)
	switch {
	case err == nil:
		response.Message(c, http.StatusCreated, msgSubmitted)
	case errors.Is(err, services.ErrInputRequired):
		response.Error(c, appErrors.ErrQuestionRequired)
	case errors.Is(err, services.ErrQuestionExists):
		response.Error(c, appErrors.ErrConflict)
	default:
		_ = c.Error(err)
		response.Error(c, err)
	}
}
