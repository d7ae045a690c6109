// Package errors provides custom error types for the importsync system.
// These errors enable programmatic error checking and keep failure
// reporting uniform across detection, planning, and commit.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the importsync system
var (
	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a record already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange indicates a date range whose end precedes its start
	ErrInvalidRange = errors.New("invalid date range")

	// ErrAmbiguousName indicates a user-supplied rename that collides after normalization
	ErrAmbiguousName = errors.New("ambiguous custom name")

	// ErrCommitFailed indicates the storage layer rejected an atomic apply
	ErrCommitFailed = errors.New("commit failed")

	// ErrCanceled indicates that an operation was canceled before commit
	ErrCanceled = errors.New("operation canceled")

	// ErrReadOnly indicates an attempt to modify a read-only store
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// InvalidRangeError reports a malformed interval that reached range arithmetic.
// The offending comparison is skipped and logged by callers, never silently
// treated as "no overlap".
type InvalidRangeError struct {
	Entity string
	ID     string
	Start  string
	End    string
}

// Error implements the error interface
func (e *InvalidRangeError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("invalid date range on %s %s: end %s precedes start %s", e.Entity, e.ID, e.End, e.Start)
	}
	return fmt.Sprintf("invalid date range: end %s precedes start %s", e.End, e.Start)
}

// Is implements errors.Is support
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// NewInvalidRangeError creates a new InvalidRangeError
func NewInvalidRangeError(entity, id, start, end string) *InvalidRangeError {
	return &InvalidRangeError{Entity: entity, ID: id, Start: start, End: end}
}

// AmbiguousNameError reports a user-supplied rename rejected because its
// normalized form is already claimed, or because it was empty after trimming.
// Recoverable: the planner substitutes the deterministic default.
type AmbiguousNameError struct {
	ConflictID string
	Name       string
	Reason     string
}

// Error implements the error interface
func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("custom name %q for conflict %s rejected: %s", e.Name, e.ConflictID, e.Reason)
}

// Is implements errors.Is support
func (e *AmbiguousNameError) Is(target error) bool {
	return target == ErrAmbiguousName
}

// NewAmbiguousNameError creates a new AmbiguousNameError
func NewAmbiguousNameError(conflictID, name, reason string) *AmbiguousNameError {
	return &AmbiguousNameError{ConflictID: conflictID, Name: name, Reason: reason}
}

// CommitError represents a failed atomic apply. It is fatal to the import
// attempt; the pre-commit project state remains authoritative.
type CommitError struct {
	Operation string // "delete", "insert", "rename", "swap"
	Entity    string
	ID        string
	Err       error
}

// Error implements the error interface
func (e *CommitError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("commit failed during %s of %s %s: %v", e.Operation, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("commit failed during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CommitError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CommitError) Is(target error) bool {
	return target == ErrCommitFailed
}

// NewCommitError creates a new CommitError
func NewCommitError(operation, entity, id string, err error) *CommitError {
	return &CommitError{
		Operation: operation,
		Entity:    entity,
		ID:        id,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "json", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidRange checks if an error is an invalid range error
func IsInvalidRange(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

// IsAmbiguousName checks if an error is an ambiguous custom name error
func IsAmbiguousName(err error) bool {
	return errors.Is(err, ErrAmbiguousName)
}

// IsCommitFailed checks if an error is a commit failure
func IsCommitFailed(err error) bool {
	return errors.Is(err, ErrCommitFailed)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapCommit wraps an error as a CommitError
func WrapCommit(operation, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewCommitError(operation, entity, id, err)
}
