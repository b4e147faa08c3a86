package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrValidation        = errors.New("validation error")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrStore             = errors.New("store error")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// OperationError reports a root-graph change that would break a graph invariant.
type OperationError struct {
	Key    string
	Reason string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("invalid operation on %q: %s", e.Key, e.Reason)
}

func (e *OperationError) Unwrap() error { return ErrInvalidOperation }

// NewOperationError creates an OperationError for the given document key.
func NewOperationError(key, reason string) *OperationError {
	return &OperationError{Key: key, Reason: reason}
}
