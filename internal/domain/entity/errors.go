package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrConflict indicates that the operation conflicts with existing state,
	// e.g. a duplicate source URL or an already-running crawl
	ErrConflict = errors.New("conflict with existing state")

	// ErrInvalidState indicates the entity is in a state that forbids the
	// operation, e.g. starting a crawl on a paused source
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
