// Package shared contains common domain types and errors that are used across
// all domain packages. This package has zero external dependencies.
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
	ErrValidation   = errors.New("validation error")
	ErrEmptyValue   = errors.New("value cannot be empty")
	ErrInvalidInput = errors.New("invalid input")

	// Rubric errors
	ErrInvalidLevel   = errors.New("invalid rubric level")
	ErrMissingElement = errors.New("missing element score")

	// Storage errors
	ErrStorageFailure = errors.New("storage failure")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "evidence", "rubric"
	Op      string // Operation that failed, e.g., "Register", "Upsert"
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
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Register", ErrAlreadyExists, "student already registered")
	ErrGroupNotFound        = NewDomainError("student", "FindGroup", ErrNotFound, "group not found")
	ErrEmptyStudentName     = NewDomainError("student", "Validate", ErrEmptyValue, "student name is required")
	ErrEmptyGroupName       = NewDomainError("student", "Validate", ErrEmptyValue, "group name is required")
)

// Evidence domain errors
var (
	ErrRecordNotFound     = NewDomainError("evidence", "Find", ErrNotFound, "evidence record not found")
	ErrUnknownActivity    = NewDomainError("evidence", "Validate", ErrInvalidInput, "unknown activity")
	ErrUnknownCompetency  = NewDomainError("evidence", "Validate", ErrInvalidInput, "unknown competency")
	ErrIncompleteEvidence = NewDomainError("evidence", "Validate", ErrMissingElement, "evidence is missing element scores")
)

// Rubric domain errors
var (
	ErrUnknownLevel = NewDomainError("rubric", "Weight", ErrInvalidLevel, "level outside the fixed scale")
)

// Lifecycle errors
var (
	ErrBadPassphrase = NewDomainError("lifecycle", "Authorize", ErrUnauthorized, "admin passphrase does not match")
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
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrInvalidInput)
}

// IsInvalidLevel checks if the error concerns a rubric level or element score
// outside the fixed configuration.
func IsInvalidLevel(err error) bool {
	return errors.Is(err, ErrInvalidLevel) || errors.Is(err, ErrMissingElement)
}

// IsUnauthorized checks if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
