package scorers

import (
	"fmt"

	"github.com/hbollon/go-edlib"
	"github.com/xrash/smetrics"

	"github.com/ahrav/go-votematch/internal/ports"
)

var (
	_ ports.Scorer = (*JaroScorer)(nil)
	_ ports.Scorer = (*JaroWinklerScorer)(nil)
	_ ports.Scorer = (*JaroOriginalScorer)(nil)
	_ ports.Scorer = (*JaroCustomScorer)(nil)
)

// JaroScorer computes the standard Jaro similarity.
type JaroScorer struct{ name string }

// NewJaroScorer creates a JaroScorer reporting predictions under name.
func NewJaroScorer(name string) (*JaroScorer, error) {
	if name == "" {
		return nil, ErrEmptyScorerName
	}
	return &JaroScorer{name: name}, nil
}

// Name returns the algorithm identifier.
func (s *JaroScorer) Name() string { return s.name }

// Score returns the Jaro similarity of candidate and query.
func (s *JaroScorer) Score(candidate, query string) (float64, error) {
	return clamp(float64(edlib.JaroSimilarity(candidate, query))), nil
}

// JaroWinklerScorer computes Jaro similarity with the Winkler common-prefix
// boost.
type JaroWinklerScorer struct{ name string }

// NewJaroWinklerScorer creates a JaroWinklerScorer reporting predictions under name.
func NewJaroWinklerScorer(name string) (*JaroWinklerScorer, error) {
	if name == "" {
		return nil, ErrEmptyScorerName
	}
	return &JaroWinklerScorer{name: name}, nil
}

// Name returns the algorithm identifier.
func (s *JaroWinklerScorer) Name() string { return s.name }

// Score returns the Jaro-Winkler similarity of candidate and query.
func (s *JaroWinklerScorer) Score(candidate, query string) (float64, error) {
	return clamp(float64(edlib.JaroWinklerSimilarity(candidate, query))), nil
}

// JaroOriginalScorer computes Jaro similarity with the byte-oriented
// matching window of the original formulation.
type JaroOriginalScorer struct{ name string }

// NewJaroOriginalScorer creates a JaroOriginalScorer reporting predictions under name.
func NewJaroOriginalScorer(name string) (*JaroOriginalScorer, error) {
	if name == "" {
		return nil, ErrEmptyScorerName
	}
	return &JaroOriginalScorer{name: name}, nil
}

// Name returns the algorithm identifier.
func (s *JaroOriginalScorer) Name() string { return s.name }

// Score returns the original Jaro similarity of candidate and query.
func (s *JaroOriginalScorer) Score(candidate, query string) (float64, error) {
	return clamp(smetrics.Jaro(candidate, query)), nil
}

// JaroCustomConfig tunes the Winkler adjustment applied by JaroCustomScorer.
type JaroCustomConfig struct {
	// BoostThreshold is the Jaro score above which the prefix boost applies.
	BoostThreshold float64 `yaml:"boost_threshold" json:"boost_threshold" validate:"min=0,max=1"`

	// PrefixSize is the maximum common-prefix length that earns a boost.
	PrefixSize int `yaml:"prefix_size" json:"prefix_size" validate:"min=0,max=16"`
}

// DefaultJaroCustomConfig returns the classic Winkler settings.
func DefaultJaroCustomConfig() JaroCustomConfig {
	return JaroCustomConfig{
		BoostThreshold: 0.7,
		PrefixSize:     4,
	}
}

// JaroCustomScorer computes Jaro-Winkler similarity with a configurable
// boost threshold and prefix length.
type JaroCustomScorer struct {
	name   string
	config JaroCustomConfig
}

// NewJaroCustomScorer creates a JaroCustomScorer with the specified configuration.
// Returns an error if configuration validation fails.
func NewJaroCustomScorer(name string, config JaroCustomConfig) (*JaroCustomScorer, error) {
	if name == "" {
		return nil, ErrEmptyScorerName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &JaroCustomScorer{name: name, config: config}, nil
}

// Name returns the algorithm identifier.
func (s *JaroCustomScorer) Name() string { return s.name }

// Config returns the scorer's configuration.
func (s *JaroCustomScorer) Config() JaroCustomConfig { return s.config }

// Score returns the tuned Jaro-Winkler similarity of candidate and query.
func (s *JaroCustomScorer) Score(candidate, query string) (float64, error) {
	return clamp(smetrics.JaroWinkler(candidate, query, s.config.BoostThreshold, s.config.PrefixSize)), nil
}

// CreateJaroScorer is a factory function that creates a JaroScorer,
// following the ScorerFactory pattern. The jaro variants take no parameters.
func CreateJaroScorer(id string, _ map[string]any) (ports.Scorer, error) {
	return NewJaroScorer(id)
}

// CreateJaroWinklerScorer is a factory function that creates a JaroWinklerScorer.
func CreateJaroWinklerScorer(id string, _ map[string]any) (ports.Scorer, error) {
	return NewJaroWinklerScorer(id)
}

// CreateJaroOriginalScorer is a factory function that creates a JaroOriginalScorer.
func CreateJaroOriginalScorer(id string, _ map[string]any) (ports.Scorer, error) {
	return NewJaroOriginalScorer(id)
}

// CreateJaroCustomScorer is a factory function that creates a JaroCustomScorer
// from a configuration map, starting from DefaultJaroCustomConfig.
func CreateJaroCustomScorer(id string, params map[string]any) (ports.Scorer, error) {
	config := DefaultJaroCustomConfig()

	if v, ok := floatParam(params, "boost_threshold"); ok {
		config.BoostThreshold = v
	}
	if v, ok := intParam(params, "prefix_size"); ok {
		config.PrefixSize = v
	}

	return NewJaroCustomScorer(id, config)
}
