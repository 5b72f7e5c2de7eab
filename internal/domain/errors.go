package domain

import (
	"errors"
	"fmt"
)

// ValidationError is a locally detected inconsistency in a facet mutation.
// The mutation is rejected and the prior committed state kept.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransportError is a failed call to an external collaborator. Results from
// before the failure stay visible; only the error surface changes.
type TransportError struct {
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
