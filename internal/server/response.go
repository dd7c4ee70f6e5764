package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/worksheetgen/internal/llm"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

// APIError is the body of every error response.
type APIError struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Fields  []worksheet.FieldError `json:"fields,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	apiErr := APIError{Message: msg, Code: code}

	var verr *worksheet.ValidationError
	if errors.As(err, &verr) {
		apiErr.Fields = verr.Fields
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: apiErr})
}

// statusFor maps domain errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	var (
		verr *worksheet.ValidationError
		inv  *llm.ErrInvalidResponse
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "invalid_request"
	case errors.As(err, &inv):
		return http.StatusUnprocessableEntity, "invalid_questions"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
