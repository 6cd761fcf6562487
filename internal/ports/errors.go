package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors that can occur outside the ranking core.
var (
	// ErrTimeout indicates that an ensemble run exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrUnknownScorer indicates that no scorer factory is registered for
	// the requested algorithm type.
	ErrUnknownScorer = errors.New("unknown scorer type")
)

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
