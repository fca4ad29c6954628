// Package errors defines the client-facing error taxonomy. Every AppError renders as a
// {"message"} body with its HTTP status; Code is for logs and metrics only.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error with a client message and an HTTP status.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Internal)
	}
	return e.Code + ": " + e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches AppErrors by code, so copies made by WithInternal still match their sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if e == nil || !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Status returns the HTTP status, defaulting to 500.
func (e *AppError) Status() int {
	if e == nil || e.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}

// WithInternal returns a copy of e carrying err as its cause.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Internal = err
	return &cpy
}

var (
	// ErrBadRequest is the generic validation failure.
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	// ErrQuestionRequired rejects a submission without usable input.
	ErrQuestionRequired = &AppError{
		Code:       "QUESTION_REQUIRED",
		Message:    "Question is required.",
		StatusCode: http.StatusBadRequest,
	}

	// ErrConflict rejects a submission whose input is already answered or queued.
	ErrConflict = &AppError{
		Code:       "QUESTION_EXISTS",
		Message:    "Question already exists in the database or is pending review.",
		StatusCode: http.StatusConflict,
	}

	ErrRateLimit = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, please slow down",
		StatusCode: http.StatusTooManyRequests,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// FromError converts err into an AppError. AppErrors anywhere in the chain are returned
// as-is. Anything else is a store failure: a 500 whose message is the error text.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	out := ErrInternalServer.WithInternal(err)
	out.Message = err.Error()
	return out
}

// NewBadRequest builds a 400 with a specific message.
func NewBadRequest(message string) *AppError {
	out := *ErrBadRequest
	out.Message = message
	return &out
}
