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

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidUpdates is returned when an update payload names a field
	// outside the entity's allowlist. Nothing is written in that case.
	ErrInvalidUpdates = errors.New("invalid updates")

	// ErrInvalidCredentials is returned for every failed login, whether the
	// email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a request cannot be authenticated.
	// Malformed, expired, revoked and unknown-user tokens all collapse to it.
	ErrUnauthorized = errors.New("authentication failed")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError. A nil err wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether err is, or wraps, a validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrValidation)
}
