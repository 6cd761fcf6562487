package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during ranking and voting.
var (
	// ErrInvalidConfiguration indicates that a ranker, voter, or tally
	// received a value outside its documented domain.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrScoringFailure indicates that a scorer could not produce a usable
	// score for a candidate.
	ErrScoringFailure = errors.New("scoring failure")
)

// ScoringError describes a scorer failure for a single candidate.
// It always unwraps to ErrScoringFailure in addition to the underlying cause.
type ScoringError struct {
	// Algorithm is the name of the scorer that failed.
	Algorithm string

	// Candidate is the catalog entry being scored when the failure happened.
	Candidate string

	// Err is the underlying cause reported by the scorer.
	Err error
}

// Error implements the error interface for ScoringError.
func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failure: algorithm=%s, candidate=%q, err=%v", e.Algorithm, e.Candidate, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause so errors.Is
// matches either.
func (e *ScoringError) Unwrap() []error { return []error{ErrScoringFailure, e.Err} }

// NewScoringError creates a new ScoringError with the given details.
func NewScoringError(algorithm, candidate string, err error) *ScoringError {
	return &ScoringError{
		Algorithm: algorithm,
		Candidate: candidate,
		Err:       err,
	}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Unwrap lets callers match validation failures against ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
