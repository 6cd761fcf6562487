// Package application wires configuration, scorer construction, and the
// ranking units into ready-to-run ensembles.
package application

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in scorer types accepted in AlgorithmConfig.Type.
const (
	ScorerJaro         = "jaro"
	ScorerJaroWinkler  = "jaro_winkler"
	ScorerJaroOriginal = "jaro_original"
	ScorerJaroCustom   = "jaro_custom"
	ScorerLevenshtein  = "levenshtein"
)

// DefaultAlgorithmThreshold is applied when an algorithm omits its threshold.
const DefaultAlgorithmThreshold = 0.8

// EnsembleConfig defines the complete specification for a voting ensemble
// and serves as the primary configuration entry point for the system.
type EnsembleConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across system updates.
	Version string `yaml:"version" validate:"required,semver"`
	// Metadata contains descriptive information about the ensemble.
	Metadata Metadata `yaml:"metadata"`
	// TopN selects the slice of ranked tallies to return: N > 0 keeps the
	// first N, N < 0 keeps the last |N|, and 0 keeps all of them.
	TopN int `yaml:"top_n"`
	// MaxConcurrency limits how many algorithms score at once; 0 uses the
	// default.
	MaxConcurrency int `yaml:"max_concurrency" validate:"min=0,max=1024"`
	// TimeoutSeconds bounds a whole vote; 0 disables the deadline.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"min=0,max=3600"`
	// CaseSensitive keeps the catalog and query as given when true or
	// omitted. When false both are case-folded before scoring.
	CaseSensitive *bool `yaml:"case_sensitive"`
	// Algorithms lists the scorers that vote, each with its own threshold.
	Algorithms []AlgorithmConfig `yaml:"algorithms" validate:"required,min=1,max=64,dive"`
}

// Metadata provides descriptive information about an ensemble.
type Metadata struct {
	// Name is the human-readable identifier for this ensemble; it labels
	// logs, traces, and metrics.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description explains what catalog the ensemble is tuned for.
	Description string `yaml:"description" validate:"max=1000"`
	// Tags are categorical labels for grouping ensembles.
	Tags []string `yaml:"tags" validate:"max=20,dive,min=1,max=50"`
}

// Timeout returns the configured deadline as a duration.
func (c *EnsembleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IsCaseSensitive reports whether inputs are matched with their case intact.
func (c *EnsembleConfig) IsCaseSensitive() bool {
	return c.CaseSensitive == nil || *c.CaseSensitive
}

// AlgorithmConfig defines one voting scorer.
type AlgorithmConfig struct {
	// ID names the algorithm on every prediction and must be unique within
	// the ensemble.
	ID string `yaml:"id" validate:"required,min=1,max=100"`
	// Type selects the scorer implementation from the registry.
	Type string `yaml:"type" validate:"required,scorertype"`
	// Threshold is the exclusive lower bound a score must exceed. Omitted
	// thresholds default to DefaultAlgorithmThreshold.
	Threshold *float64 `yaml:"threshold" validate:"omitempty,min=0"`
	// TopN is used when the algorithm ranks on its own; inside an ensemble
	// every algorithm contributes only its best prediction.
	TopN int `yaml:"top_n"`
	// Parameters contains type-specific configuration as flexible YAML
	// that is validated according to the scorer type.
	Parameters yaml.Node `yaml:"parameters"`
}

// ThresholdOrDefault returns the configured threshold or the default.
func (a AlgorithmConfig) ThresholdOrDefault() float64 {
	if a.Threshold == nil {
		return DefaultAlgorithmThreshold
	}
	return *a.Threshold
}
