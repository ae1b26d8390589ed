package app

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyField is matched by every ValidationError.
	ErrEmptyField = errors.New("required field is empty")

	// ErrNoMatch means the existence pre-check found no rows; nothing was changed.
	ErrNoMatch = errors.New("no matching contact")

	// ErrNothingToUpdate means every change field was blank.
	ErrNothingToUpdate = errors.New("nothing to update")

	// ErrNoMorePages is returned by Pager.Next on the last page.
	ErrNoMorePages = errors.New("no more records")

	ErrInvalidPageSize = fmt.Errorf("page size must be between 1 and %d", MaxPageSize)
	ErrInvalidSort     = errors.New("unknown sort column")
	ErrInvalidID       = errors.New("contact id must be a positive number")
)

// ErrConnection represents a database connection error.
type ErrConnection struct {
	Cause error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ErrConnection) Unwrap() error {
	return e.Cause
}

// ErrSchema represents a failure to prepare the phone_book table or its routines.
type ErrSchema struct {
	Cause error
}

func (e *ErrSchema) Error() string {
	return fmt.Sprintf("schema error: %v", e.Cause)
}

func (e *ErrSchema) Unwrap() error {
	return e.Cause
}

// ErrQuery represents a statement execution error.
type ErrQuery struct {
	Op    string
	Cause error
}

func (e *ErrQuery) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *ErrQuery) Unwrap() error {
	return e.Cause
}

// ErrConfig represents a configuration error.
type ErrConfig struct {
	Cause error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config error: %v", e.Cause)
}

func (e *ErrConfig) Unwrap() error {
	return e.Cause
}

// ValidationError reports a required field left empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrEmptyField
}

// FileNotFoundError reports an import path that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// BatchError reports where a batch insert stopped. Entries before Index were
// committed and stay in the table.
type BatchError struct {
	Index    int
	Inserted int
	Cause    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("entry %d: %v (%d inserted before the failure)", e.Index+1, e.Cause, e.Inserted)
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}
