package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/auth"
)

// APIError represents an API error response. WaitMS is populated only on
// resource-exhausted responses, as a retry hint in milliseconds.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	WaitMS  int64  `json:"wait_ms,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Wire error codes
const (
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidArgument    = "invalid-argument"
	CodeFailedPrecondition = "failed-precondition"
	CodeNotFound           = "not-found"
	CodeResourceExhausted  = "resource-exhausted"
	CodeInternal           = "internal"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Cooldown and rate limit rejections carry a wait hint.
	var cooldown *model.CooldownError
	if errors.As(err, &cooldown) {
		return &httpError{http.StatusTooManyRequests, APIError{
			Code:    CodeResourceExhausted,
			Message: "Cannon is on cooldown",
			WaitMS:  cooldown.Wait.Milliseconds(),
		}}
	}
	var rateLimited *model.RateLimitError
	if errors.As(err, &rateLimited) {
		return &httpError{http.StatusTooManyRequests, APIError{
			Code:    CodeResourceExhausted,
			Message: "Rate limit exceeded",
			WaitMS:  rateLimited.Wait.Milliseconds(),
		}}
	}

	switch {
	// Missing records
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Player not found"}}
	case errors.Is(err, model.ErrTargetNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Target not found"}}
	case errors.Is(err, model.ErrShipwreckNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Shipwreck not found"}}
	case errors.Is(err, model.ErrEnemyShipNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Enemy ship not found"}}

	// Malformed arguments
	case errors.Is(err, model.ErrInvalidDamage):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidArgument, Message: "Damage out of range"}}
	case errors.Is(err, model.ErrUnknownShip):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidArgument, Message: "Unknown ship class"}}

	// State preconditions
	case errors.Is(err, model.ErrPlayerOffline):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Player is offline"}}
	case errors.Is(err, model.ErrPlayerSunk):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Your ship is sunk"}}
	case errors.Is(err, model.ErrPlayerNotSunk):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Your ship is not sunk"}}
	case errors.Is(err, model.ErrTargetSunk):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Target is already sunk"}}
	case errors.Is(err, model.ErrTargetOffline):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Target is offline"}}
	case errors.Is(err, model.ErrOutOfRange):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Target out of combat range"}}
	case errors.Is(err, model.ErrAlreadyLooted):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Shipwreck already looted"}}
	case errors.Is(err, model.ErrLootOutOfRange):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Shipwreck out of loot range"}}
	case errors.Is(err, model.ErrShipLocked):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Ship class not unlocked"}}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthenticated, Message: "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthenticated, Message: "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeFailedPrecondition, Message: "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternal, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidArgument, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthenticated, Message: "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternal, Message: "Internal server error"}}
}

// NewResourceExhaustedError creates a rate-limiting error with a retry hint.
func NewResourceExhaustedError(wait time.Duration) error {
	return &httpError{http.StatusTooManyRequests, APIError{
		Code:    CodeResourceExhausted,
		Message: "Rate limit exceeded",
		WaitMS:  wait.Milliseconds(),
	}}
}
