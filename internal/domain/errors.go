package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	// File level: the file is skipped, the run continues with the next dataset.
	ErrSourceNotFound = errors.New("source file not found")
	ErrSourceTooSmall = errors.New("source has fewer than 2 rows")

	// Row level: the row is dropped and recorded, the file continues.
	ErrMissingRequiredField = errors.New("missing required field")
	ErrStoreWrite           = errors.New("store write failure")

	// ErrRowSkipped marks rows that are not data (too short, repeated header).
	// They are counted but never reported as failures.
	ErrRowSkipped = errors.New("row skipped")

	// Run level: aborts every remaining dataset.
	ErrTableUnreachable = errors.New("table unreachable")
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
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("validation: %d errors (%s)", len(e.Errors), strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrMissingRequiredField }

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

// RowError is one recorded failure of a source row. Row is 1-based and counts
// the header, so it matches the row number a spreadsheet shows.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}
