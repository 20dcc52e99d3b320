// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrRequiredField marks a validation failure caused by a missing value.
	ErrRequiredField = fmt.Errorf("%w: required field missing", ErrValidation)

	// ErrInvalidValue marks a validation failure caused by a malformed or
	// out-of-range value.
	ErrInvalidValue = fmt.Errorf("%w: invalid value", ErrValidation)
)

// ValidationError describes a single field that failed validation.
// Message is safe to show to API callers.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError. err should be
// ErrRequiredField or ErrInvalidValue.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
