package handler

import (
	"net/http"
	"time"

	"github.com/windward-game/windward/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeUnauthenticated    = apierr.CodeUnauthenticated
	CodeInvalidArgument    = apierr.CodeInvalidArgument
	CodeFailedPrecondition = apierr.CodeFailedPrecondition
	CodeNotFound           = apierr.CodeNotFound
	CodeResourceExhausted  = apierr.CodeResourceExhausted
	CodeInternal           = apierr.CodeInternal
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}

// NewResourceExhaustedError creates a rate-limiting error with a retry hint
func NewResourceExhaustedError(wait time.Duration) error {
	return apierr.NewResourceExhaustedError(wait)
}
