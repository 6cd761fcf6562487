package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoringError(t *testing.T) {
	cause := errors.New("unexpected rune")
	err := NewScoringError("jaro standard", "sales manager", cause)

	assert.Equal(t,
		`scoring failure: algorithm=jaro standard, candidate="sales manager", err=unexpected rune`,
		err.Error())
	assert.True(t, errors.Is(err, ErrScoringFailure), "Should match the sentinel")
	assert.True(t, errors.Is(err, cause), "Should unwrap to underlying error")

	var target *ScoringError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "sales manager", target.Candidate)
}

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("EnsembleConfig")
		err.AddError("missing algorithms")

		assert.Equal(t, "validation error for EnsembleConfig: missing algorithms", err.Error())
		assert.True(t, err.HasErrors(), "Should have errors")
		assert.Len(t, err.Errors, 1, "Should have one error")
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("EnsembleConfig")
		err.AddError("missing algorithms")
		err.AddError("duplicate id")

		assert.Equal(t, "validation errors for EnsembleConfig: [missing algorithms duplicate id]", err.Error())
		assert.Len(t, err.Errors, 2, "Should have two errors")
	})

	t.Run("no errors", func(t *testing.T) {
		err := NewValidationError("EnsembleConfig")
		assert.False(t, err.HasErrors(), "Should not have errors")
	})

	t.Run("matches invalid configuration", func(t *testing.T) {
		err := NewValidationError("EnsembleConfig")
		err.AddError("bad")
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	})
}
