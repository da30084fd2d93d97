package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a DomainError for handling at the HTTP boundary.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryInternal   ErrorCategory = "internal"
)

// DomainError is a typed error carrying a category and an optional cause.
type DomainError struct {
	Category ErrorCategory
	Message  string
	Cause    error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error for invalid input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Category: CategoryValidation, Message: message}
}

// NewNotFoundError creates a not found error for missing resources.
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{Category: CategoryNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewInternalError creates an internal error for unexpected failures.
func NewInternalError(message string, cause error) *DomainError {
	return &DomainError{Category: CategoryInternal, Message: message, Cause: cause}
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Category == CategoryValidation
}

// IsNotFoundError checks if the error is a not found error.
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Category == CategoryNotFound
}
