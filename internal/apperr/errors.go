// Package apperr defines the status-carrying error values that propagate
// unchanged from the failure site to the HTTP boundary, where the error
// handler middleware maps them to a response.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status alongside the message. It is plain data:
// constructed once where the failure is detected, never mutated or retried
// on the way out.
type AppError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Builder produces entity-scoped errors. One builder is created per entity
// kind at facade construction time and reused across requests.
type Builder struct {
	entity string
}

// NewBuilder returns a builder scoped to the named entity.
func NewBuilder(entity string) Builder {
	return Builder{entity: entity}
}

// NotFound reports that no entity matched the given field/value pair.
func (b Builder) NotFound(field string, value any) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s with %s %v not found", b.entity, field, value),
	}
}

// InvalidEntity reports input that failed schema validation for the given
// operation ("create" or "update"). Details carry the field-level
// violations from the validator.
func (b Builder) InvalidEntity(operation, details string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("invalid %s data for %s", b.entity, operation),
		Details: details,
	}
}

// General reports a store-level failure with no input-validation cause,
// tagged with the entity and the attempted operation.
func (b Builder) General(operation, details string) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("%s %s failed", b.entity, operation),
		Details: details,
	}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *AppError {
	return &AppError{
		Status:  http.StatusUnauthorized,
		Message: message,
	}
}

// TooManyRequests reports rate-limit exhaustion.
func TooManyRequests() *AppError {
	return &AppError{
		Status:  http.StatusTooManyRequests,
		Message: "rate limit exceeded",
	}
}

// From returns err as an *AppError, wrapping anything else into a 500 so
// that raw internals never leak to the boundary.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
	}
}
