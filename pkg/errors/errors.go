package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNothingToUpdate is returned when a partial update carries no fields
// after absent values are filtered out. It must be detected before any
// storage call is made.
var ErrNothingToUpdate = errors.New("no fields provided to update")

// FieldError describes a single per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field violation found in one request.
// Violations are collected, not short-circuited, so callers get the complete
// picture in a single response.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a validation error from the collected field
// violations.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// HTTPStatus returns the HTTP status for this error.
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error.
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// AlreadyExistsError represents a uniqueness constraint violation surfaced
// from the store's duplicate-key signal.
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error.
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status for this error. Duplicate keys map to
// 400 rather than 409: the API treats them as a distinguished validation
// failure.
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusBadRequest
}

// InternalError represents an unexpected storage or infrastructure fault.
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error.
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser is implemented by errors that know their HTTP status code.
type HTTPStatuser interface {
	HTTPStatus() int
}
