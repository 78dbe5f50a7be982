package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested record was not found.
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates that a statement could not be executed or its
	// results could not be mapped.
	ErrStorage = errors.New("storage error")

	// ErrConstraintViolation indicates that an insert collided with an existing
	// row on the table's natural key.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// StorageError is returned by every repository operation that fails because of
// connectivity loss, a malformed statement, or a type-mapping failure.
// It matches ErrStorage with errors.Is and unwraps to the underlying cause.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// ConstraintViolationError reports a natural-key uniqueness violation on insert.
type ConstraintViolationError struct {
	Table      string
	Constraint string
	Err        error
}

// Error implements the error interface.
func (e *ConstraintViolationError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("constraint violation on %s", e.Table)
	}
	return fmt.Sprintf("constraint violation on %s: %s", e.Table, e.Constraint)
}

// Unwrap returns the driver error.
func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConstraintViolation.
func (e *ConstraintViolationError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a record that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, table string, err error) *StorageError {
	return &StorageError{
		Op:    op,
		Table: table,
		Err:   err,
	}
}

// NewConstraintViolationError creates a new ConstraintViolationError.
func NewConstraintViolationError(table, constraint string, err error) *ConstraintViolationError {
	return &ConstraintViolationError{
		Table:      table,
		Constraint: constraint,
		Err:        err,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}
