package note

import (
	"errors"
	"fmt"
)

// ValidationError represents a structurally invalid input
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var validationErr ValidationError
	return errors.As(err, &validationErr)
}

// ConflictError represents a unique constraint or duplicate resource error
type ConflictError struct {
	Field   string
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

// NewConflictError constructs ConflictError
func NewConflictError(field, message string) ConflictError {
	return ConflictError{Field: field, Message: message}
}

// IsConflictError checks if error is ConflictError
func IsConflictError(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// NotFoundError covers both a missing record and a record owned by someone
// else. The two are deliberately indistinguishable so callers cannot probe
// for record existence.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found or access denied", e.Resource)
}

// NewNotFoundError constructs NotFoundError
func NewNotFoundError(resource string) NotFoundError {
	return NotFoundError{Resource: resource}
}

// IsNotFoundError checks if error is NotFoundError
func IsNotFoundError(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// StorageError wraps an unclassified persistence failure. The message names
// the operation and the record id only; content payloads never appear here.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

// NewStorageError constructs StorageError
func NewStorageError(op string, err error) StorageError {
	return StorageError{Op: op, Err: err}
}

// IsStorageError checks if error is StorageError
func IsStorageError(err error) bool {
	var se StorageError
	return errors.As(err, &se)
}
