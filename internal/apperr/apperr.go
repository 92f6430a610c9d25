// Package apperr defines the domain errors services return and handlers
// translate to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing users and missing updates.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateDay means a live update already covers this (user, day).
	ErrDuplicateDay = errors.New("an update for this day already exists")

	// ErrConcurrentModification means a conditional streak update lost the
	// race against another writer. The operation made no change; the caller
	// may retry with fresh state.
	ErrConcurrentModification = errors.New("record was modified concurrently")

	// ErrForbidden means the caller is authenticated but not allowed to
	// perform the operation.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError rejects malformed input at the boundary before it reaches
// any state transition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
