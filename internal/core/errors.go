package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation targets a record by id and no
	// such record exists in the caller's tenant scope.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a settlement loses an optimistic
	// concurrency check against last_paid_date.
	ErrConflict = errors.New("record was modified concurrently")
)

// ValidationError reports missing or malformed caller input. It always names
// the offending field so the caller can fix the request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps a persistence-layer failure. The engine treats these as
// opaque and transient; state is left unchanged (aborted write groups roll
// back before this error is surfaced).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
