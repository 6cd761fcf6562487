package scorers

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ahrav/go-votematch/internal/ports"
)

var _ ports.Scorer = (*LevenshteinScorer)(nil)

// LevenshteinScorer scores candidates by normalized edit distance:
// 1 - distance/maxLen, where lengths are counted in runes.
// The scorer is stateless and thread-safe for concurrent execution.
type LevenshteinScorer struct{ name string }

// NewLevenshteinScorer creates a LevenshteinScorer reporting predictions under name.
func NewLevenshteinScorer(name string) (*LevenshteinScorer, error) {
	if name == "" {
		return nil, ErrEmptyScorerName
	}
	return &LevenshteinScorer{name: name}, nil
}

// Name returns the algorithm identifier.
func (s *LevenshteinScorer) Name() string { return s.name }

// Score returns a value between 0.0 and 1.0 where 1.0 indicates identical
// strings.
func (s *LevenshteinScorer) Score(candidate, query string) (float64, error) {
	if candidate == query {
		return 1.0, nil
	}

	// The levenshtein library operates on runes, so the normalizing length
	// must too: "café" is 4 runes but 5 bytes.
	distance := levenshtein.ComputeDistance(candidate, query)

	maxLen := utf8.RuneCountInString(candidate)
	if n := utf8.RuneCountInString(query); n > maxLen {
		maxLen = n
	}

	if maxLen == 0 {
		return 1.0, nil
	}

	return clamp(1.0 - float64(distance)/float64(maxLen)), nil
}

// CreateLevenshteinScorer is a factory function that creates a
// LevenshteinScorer, following the ScorerFactory pattern.
func CreateLevenshteinScorer(id string, _ map[string]any) (ports.Scorer, error) {
	return NewLevenshteinScorer(id)
}
