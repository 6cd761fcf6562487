package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConfigError tests the functionality of the ConfigError error type.
// It verifies that the error message is formatted correctly and contains the relevant configuration key.
func TestConfigError(t *testing.T) {
	err := NewConfigError("algorithms[0].type", ErrUnknownScorer)

	assert.Equal(t, "config error: key=algorithms[0].type, err=unknown scorer type", err.Error())
	assert.Equal(t, "algorithms[0].type", err.ConfigKey)
	assert.True(t, errors.Is(err, ErrUnknownScorer))
}

// TestCommonInfrastructureErrors tests that the common infrastructure errors are defined.
func TestCommonInfrastructureErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrTimeout, "operation timed out"},
		{ErrConfigNotFound, "configuration not found"},
		{ErrUnknownScorer, "unknown scorer type"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}
