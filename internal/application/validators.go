package application

import (
	"fmt"
	"math"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DecodeParameters turns a parameters node into a map. An absent node
// yields an empty map.
func DecodeParameters(params yaml.Node) (map[string]any, error) {
	paramMap := make(map[string]any)
	if params.Kind == 0 {
		return paramMap, nil
	}
	if err := params.Decode(&paramMap); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	if paramMap == nil {
		paramMap = make(map[string]any)
	}
	return paramMap, nil
}

// ValidateScorerParameters validates the parameters for a built-in scorer
// type. Types registered at runtime are validated by their own factories.
func ValidateScorerParameters(scorerType string, params yaml.Node) error {
	paramMap, err := DecodeParameters(params)
	if err != nil {
		return err
	}

	switch scorerType {
	case ScorerJaro, ScorerJaroWinkler, ScorerJaroOriginal, ScorerLevenshtein:
		return validateNoParams(scorerType, paramMap)
	case ScorerJaroCustom:
		return validateJaroCustomParams(paramMap)
	default:
		return nil
	}
}

func validateNoParams(scorerType string, params map[string]any) error {
	for key := range params {
		return fmt.Errorf("%s takes no parameters, got %q", scorerType, key)
	}
	return nil
}

// validateJaroCustomParams checks boost_threshold is a number in [0, 1]
// and prefix_size an integer in [0, 16].
func validateJaroCustomParams(params map[string]any) error {
	for key, value := range params {
		switch key {
		case "boost_threshold":
			v, ok := asFloat(value)
			if !ok {
				return fmt.Errorf("boost_threshold must be a number")
			}
			if v < 0 || v > 1 {
				return fmt.Errorf("boost_threshold must be between 0 and 1")
			}
		case "prefix_size":
			v, ok := asFloat(value)
			if !ok || v != math.Trunc(v) {
				return fmt.Errorf("prefix_size must be an integer")
			}
			if v < 0 || v > 16 {
				return fmt.Errorf("prefix_size must be between 0 and 16")
			}
		default:
			return fmt.Errorf("unknown jaro_custom parameter %q", key)
		}
	}
	return nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// registerCustomValidators registers domain-specific validation functions
// with the validator instance.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("scorertype", validateScorerType); err != nil {
		return fmt.Errorf("failed to register scorertype validator: %w", err)
	}
	return nil
}

var scorerTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,99}$`)

// validateScorerType checks that a scorer type is a lowercase snake_case
// identifier. Whether the type is registered is checked separately.
func validateScorerType(fl validator.FieldLevel) bool {
	return scorerTypePattern.MatchString(fl.Field().String())
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}
