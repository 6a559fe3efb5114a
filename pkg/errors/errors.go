package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrRateLimited    = errors.New("rate limited")
	ErrServiceUnavail = errors.New("service unavailable")

	// ErrNoSession means no authenticated customer is attached to the request.
	ErrNoSession = errors.New("no session")
	// ErrWriteFailure means a persistence write was rejected or timed out.
	ErrWriteFailure = errors.New("write failure")
	// ErrUnknownStatus means a stored status is not a recognised lifecycle step.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrStatusRegression means a status history would move backwards.
	ErrStatusRegression = errors.New("status regression")
	// ErrMissingConfiguration means required credentials or reference data are absent.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrInvalidRecord means a stored row failed validation at the persistence edge.
	ErrInvalidRecord = errors.New("invalid record")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	Status    int    `json:"-"`
	Err       error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// RateLimited creates a 429 error.
func RateLimited() *AppError {
	return &AppError{
		Code:      "RATE_LIMITED",
		Message:   "too many requests, slow down",
		Retryable: true,
		Status:    http.StatusTooManyRequests,
		Err:       ErrRateLimited,
	}
}

// NoSession creates a 401 error for requests without an authenticated customer.
func NoSession() *AppError {
	return &AppError{
		Code:    "NO_SESSION",
		Message: "no authenticated customer",
		Status:  http.StatusUnauthorized,
		Err:     ErrNoSession,
	}
}

// WriteFailure creates a retryable 503 error for a rejected persistence write.
// The cause is kept for logging but never shown to the caller.
func WriteFailure(operation string, cause error) *AppError {
	return &AppError{
		Code:      "WRITE_FAILED",
		Message:   fmt.Sprintf("could not save %s, please try again", operation),
		Retryable: true,
		Status:    http.StatusServiceUnavailable,
		Err:       fmt.Errorf("%w: %s: %w", ErrWriteFailure, operation, cause),
	}
}

// UnknownStatus creates a 422 error for a status outside the lifecycle.
func UnknownStatus(status string) *AppError {
	return &AppError{
		Code:    "UNKNOWN_STATUS",
		Message: fmt.Sprintf("status %q is not a known lifecycle step", status),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrUnknownStatus,
	}
}

// StatusRegression creates a 409 error for a backwards status transition.
func StatusRegression(from, to string) *AppError {
	return &AppError{
		Code:    "STATUS_REGRESSION",
		Message: fmt.Sprintf("status cannot move from %q back to %q", from, to),
		Status:  http.StatusConflict,
		Err:     ErrStatusRegression,
	}
}

// MissingConfiguration creates a non-retryable error for absent configuration.
func MissingConfiguration(what string) *AppError {
	return &AppError{
		Code:    "MISSING_CONFIGURATION",
		Message: fmt.Sprintf("%s is not configured", what),
		Status:  http.StatusInternalServerError,
		Err:     ErrMissingConfiguration,
	}
}

// InvalidRecord creates a 500 error for a stored row that failed to parse.
// The cause stays matchable with errors.Is but never reaches the caller.
func InvalidRecord(record string, cause error) *AppError {
	return &AppError{
		Code:    "INVALID_RECORD",
		Message: "stored data could not be read",
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %s: %w", ErrInvalidRecord, record, cause),
	}
}

// Unavailable creates a retryable 503 error for a dependency that did not
// answer in time.
func Unavailable(what string, cause error) *AppError {
	return &AppError{
		Code:      "UNAVAILABLE",
		Message:   fmt.Sprintf("%s is temporarily unavailable, please try again", what),
		Retryable: true,
		Status:    http.StatusServiceUnavailable,
		Err:       fmt.Errorf("%w: %s: %w", ErrServiceUnavail, what, cause),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// IsRetryable reports whether the caller may retry the failed operation.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return errors.Is(err, ErrWriteFailure) || errors.Is(err, ErrRateLimited)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrStatusRegression):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnknownStatus):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrWriteFailure), errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
