package store

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("log record not found")

	// ErrValidation is matched by every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports caller-supplied content that violates a field constraint.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is or wraps a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
