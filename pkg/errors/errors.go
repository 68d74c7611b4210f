// Package errors defines custom error types and error handling utilities for the LoginPage service.
// Errors carry a stable code and the HTTP status they map to, so handlers can render them uniformly.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeInternal          = "internal_error"
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeForbidden         = "forbidden"
	ErrCodeNotFound          = "not_found"
	ErrCodeConflict          = "conflict"
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeUnavailable       = "service_unavailable"
)

// ================================================================================
// AppError
// ================================================================================

// AppError represents a structured application error
type AppError struct {
	Code     string
	Status   int
	Message  string
	Metadata map[string]interface{}
	cause    error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause returns a copy of the error wrapping cause
func (e *AppError) WithCause(cause error) *AppError {
	clone := e.clone()
	clone.cause = cause
	return clone
}

// WithMetadata returns a copy of the error with an additional metadata entry
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	clone := e.clone()
	clone.Metadata[key] = value
	return clone
}

func (e *AppError) clone() *AppError {
	metadata := make(map[string]interface{}, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		metadata[k] = v
	}
	return &AppError{
		Code:     e.Code,
		Status:   e.Status,
		Message:  e.Message,
		Metadata: metadata,
		cause:    e.cause,
	}
}

// New creates a new AppError with the specified parameters
func New(code string, status int, message string) *AppError {
	return &AppError{
		Code:     code,
		Status:   status,
		Message:  message,
		Metadata: make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) *AppError {
	return New(ErrCodeInvalidRequest, http.StatusBadRequest, message)
}

// ErrUnauthorized creates an unauthorized error
func ErrUnauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, http.StatusUnauthorized, message)
}

// ErrForbidden creates a forbidden error
func ErrForbidden(message string) *AppError {
	return New(ErrCodeForbidden, http.StatusForbidden, message)
}

// ErrNotFound creates a not_found error
func ErrNotFound(message string) *AppError {
	return New(ErrCodeNotFound, http.StatusNotFound, message)
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return New(ErrCodeConflict, http.StatusConflict, message)
}

// ErrInternal creates an internal_error error
func ErrInternal(message string) *AppError {
	return New(ErrCodeInternal, http.StatusInternalServerError, message)
}

// ErrUnavailable creates a service_unavailable error
func ErrUnavailable(message string) *AppError {
	return New(ErrCodeUnavailable, http.StatusServiceUnavailable, message)
}

// ErrRateLimited creates a rate limit exceeded error for an action.
// retryAfter is the number of seconds until the block lapses, or nil when unknown.
func ErrRateLimited(action string, retryAfter *int, message string) *AppError {
	err := New(ErrCodeRateLimitExceeded, http.StatusTooManyRequests, message).
		WithMetadata("action", action)
	if retryAfter != nil {
		err = err.WithMetadata("retry_after", *retryAfter)
	}
	return err
}

// ================================================================================
// Error Inspection Utilities
// ================================================================================

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus returns the HTTP status for err, defaulting to 500
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool {
	return hasCode(err, ErrCodeUnauthorized)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

// IsRateLimitError checks if an error is related to rate limiting
func IsRateLimitError(err error) bool {
	return hasCode(err, ErrCodeRateLimitExceeded)
}

// ShouldLogError determines if an error should be logged based on severity
func ShouldLogError(err error) bool {
	status := HTTPStatus(err)
	return status >= 500 || status == http.StatusTooManyRequests
}
