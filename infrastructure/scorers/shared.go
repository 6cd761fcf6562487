// Package scorers provides string-similarity implementations of the
// ports.Scorer interface used by rankers and ensembles.
package scorers

import (
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
)

// Default algorithm names recorded on predictions when a scorer is created
// without an explicit identifier.
const (
	NameJaro         = "jaro standard"
	NameJaroWinkler  = "jaro winkler"
	NameJaroOriginal = "jaro original"
	NameJaroCustom   = "jaro custom"
	NameLevenshtein  = "levenshtein"
)

// Common errors returned by scorer constructors.
var (
	// ErrEmptyScorerName is returned when attempting to create a scorer with an empty name.
	ErrEmptyScorerName = errors.New("scorer name cannot be empty")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// clamp keeps library output inside [0, 1]. NaN is passed through so the
// ranker can report it as a scoring failure.
func clamp(score float64) float64 {
	if math.IsNaN(score) {
		return score
	}
	return math.Max(0, math.Min(1, score))
}

// floatParam reads a numeric parameter decoded from YAML or JSON, where
// integers and floats arrive as different types.
func floatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// intParam reads an integer parameter decoded from YAML or JSON.
func intParam(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}
	return 0, false
}
