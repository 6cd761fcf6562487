// Package domain contains pure, dependency-light domain models for ranking
// catalog candidates against a query and voting across scoring algorithms.
package domain

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// ScorePrecision is the number of decimal places used whenever two scores
// or counts are compared. Rounding keeps floating-point noise from flipping
// the order of near-equal entries.
const ScorePrecision = 3

// foldCaser is a package-level Unicode case folder for word normalization.
var foldCaser = cases.Fold()

// Round rounds value to the given number of decimal places.
func Round(value float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(value*pow) / pow
}

// NormalizeWord trims surrounding whitespace and case-folds s so that
// "Manager" and "manager " collapse into the same vote.
func NormalizeWord(s string) string {
	return foldCaser.String(strings.TrimSpace(s))
}

// Prediction is a single scorer's opinion about one catalog candidate.
// It is immutable once created.
type Prediction struct {
	algorithm string
	candidate string
	score     float64
}

// NewPrediction creates a Prediction for the candidate produced by algorithm.
func NewPrediction(algorithm, candidate string, score float64) Prediction {
	return Prediction{algorithm: algorithm, candidate: candidate, score: score}
}

// Algorithm returns the name of the scorer that produced the prediction.
func (p Prediction) Algorithm() string { return p.algorithm }

// Candidate returns the catalog entry that was scored.
func (p Prediction) Candidate() string { return p.candidate }

// Score returns the similarity score in [0, 1].
func (p Prediction) Score() float64 { return p.score }

// Equal reports whether both predictions carry the same rounded score.
func (p Prediction) Equal(other Prediction) bool {
	return Round(p.score, ScorePrecision) == Round(other.score, ScorePrecision)
}

// String renders the prediction for reports.
func (p Prediction) String() string {
	return fmt.Sprintf("algorithm: '%s' | predict: '%s' | score: %0.3f", p.algorithm, p.candidate, p.score)
}

// MarshalJSON exposes the unexported fields for reporting.
func (p Prediction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Algorithm string  `json:"algorithm"`
		Candidate string  `json:"candidate"`
		Score     float64 `json:"score"`
	}{p.algorithm, p.candidate, p.score})
}

// ComparePredictions orders predictions by rounded score, highest first.
// It is intended for slices.SortStableFunc; equal rounded scores compare as 0
// so that the caller's stable sort keeps their original order.
func ComparePredictions(a, b Prediction) int {
	return cmp.Compare(Round(b.score, ScorePrecision), Round(a.score, ScorePrecision))
}
