package domain

import (
	"fmt"
	"math"
)

// RankingConfig controls which predictions a ranker keeps and how many it
// returns.
type RankingConfig struct {
	// Threshold is the exclusive lower bound a score must exceed to survive.
	// A threshold that rounds to 0.0 at one decimal place accepts every
	// candidate regardless of score.
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"min=0"`

	// TopN selects the slice of sorted survivors to return: N > 0 keeps the
	// first N, N < 0 keeps the last |N|, and 0 keeps all of them.
	TopN int `yaml:"top_n" json:"top_n"`
}

// DefaultRankingConfig returns a RankingConfig with sensible defaults.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		Threshold: 0.8,
		TopN:      0,
	}
}

// Validate reports whether the threshold is a usable, non-negative number.
func (c RankingConfig) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		return fmt.Errorf("%w: threshold must be a non-negative number, got %f", ErrInvalidConfiguration, c.Threshold)
	}
	return nil
}

// AcceptsAll reports whether the threshold disables filtering.
func (c RankingConfig) AcceptsAll() bool { return Round(c.Threshold, 1) == 0.0 }

// Accepts reports whether score survives the threshold.
func (c RankingConfig) Accepts(score float64) bool {
	return c.AcceptsAll() || score > c.Threshold
}

// SliceTopN applies top-N selection to items that are already sorted.
// Positive n keeps the first n, negative n keeps the last |n|, zero keeps
// everything. Asking for more items than exist returns all of them.
// The returned slice shares its backing array with items.
func SliceTopN[T any](items []T, n int) []T {
	switch {
	case n > 0:
		return items[:min(n, len(items))]
	case n < 0:
		return items[max(0, len(items)+n):]
	default:
		return items
	}
}
