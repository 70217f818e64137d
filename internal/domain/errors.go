package domain

import (
	"errors"
	"fmt"
)

var (
	// Validation errors
	ErrEmptyBudget        = errors.New("budget lines are required")
	ErrMissingAccountID   = errors.New("line is missing an account id")
	ErrInvalidPeriod      = errors.New("period must be formatted as YYYY-MM")
	ErrInvalidAccountType = errors.New("unknown account type")
	ErrInvalidThresholds  = errors.New("invalid severity thresholds")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")
)

// ValidationError marks structurally invalid caller input. It is
// surfaced immediately and never retried.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %v", e.Err)
	}
	return fmt.Sprintf("validation failed on %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError wraps err as a ValidationError for field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// AnalysisError wraps an unexpected internal failure during analysis,
// preserving the original cause for diagnostics.
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed during %s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
