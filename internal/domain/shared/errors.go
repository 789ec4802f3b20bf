// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState = errors.New("invalid state")
	ErrNoChange     = errors.New("no change")

	// Persistence errors
	ErrCorruptDocument = errors.New("corrupt document")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "admin", "exam"
	Op      string // Operation that failed, e.g., "Add", "Delete"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrStudentNotFound = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrInvalidMarks    = NewDomainError("student", "RecordMarks", ErrValueOutOfRange, "marks must be between 0 and 100")
)

// Teacher domain errors
var (
	ErrTeacherNotFound = NewDomainError("teacher", "Find", ErrNotFound, "teacher not found")
	ErrSubjectNotFound = NewDomainError("teacher", "Subject", ErrNotFound, "subject not assigned to teacher")
)

// Admin domain errors
var (
	ErrAdminNotFound     = NewDomainError("admin", "Find", ErrNotFound, "admin not found")
	ErrDuplicateUsername = NewDomainError("admin", "Add", ErrAlreadyExists, "admin username already exists")
	ErrLastSuperadmin    = NewDomainError("admin", "Mutate", ErrInvalidState, "cannot remove or demote the last superadmin")
	ErrInvalidRole       = NewDomainError("admin", "ChangeRole", ErrInvalidInput, "role must be admin or superadmin")
	ErrRoleUnchanged     = NewDomainError("admin", "ChangeRole", ErrNoChange, "admin already has this role")
)

// Exam domain errors
var (
	ErrExamNotFound    = NewDomainError("exam", "Find", ErrNotFound, "exam not found")
	ErrMarksOutOfRange = NewDomainError("exam", "RecordResult", ErrValueOutOfRange, "marks must be between 0 and max marks")
	ErrNegativeBonus   = NewDomainError("exam", "RecordResult", ErrNegativeValue, "bonus cannot be negative")
)

// Attendance domain errors
var (
	ErrInvalidDate   = NewDomainError("attendance", "Mark", ErrInvalidFormat, "date must be YYYY-MM-DD")
	ErrInvalidStatus = NewDomainError("attendance", "Mark", ErrInvalidInput, "status must be Present or Absent")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}
