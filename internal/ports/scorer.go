// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-votematch/internal/domain"
)

// Scorer measures how similar a catalog candidate is to a query.
// Implementations must be pure and deterministic, and must return a score
// in [0, 1]. Scorers never change the case of their inputs; callers that
// want case-insensitive matching normalize before scoring.
type Scorer interface {
	// Name returns the algorithm identifier recorded on every prediction.
	Name() string

	// Score returns the similarity between candidate and query.
	// An error means the scorer could not evaluate this pair; it must not
	// be replaced by a default score.
	Score(candidate, query string) (float64, error)
}

// ScorerFunc adapts a plain similarity function into a Scorer.
type ScorerFunc struct {
	// ID is returned by Name.
	ID string

	// Fn computes the similarity.
	Fn func(candidate, query string) float64
}

// Name returns the configured identifier.
func (f ScorerFunc) Name() string { return f.ID }

// Score calls Fn and never fails.
func (f ScorerFunc) Score(candidate, query string) (float64, error) { return f.Fn(candidate, query), nil }

// Ranker produces thresholded, sorted predictions for one scorer.
// Rankers must be safe to call concurrently with each other; an ensemble
// runs all of its rankers in parallel.
type Ranker interface {
	// Name returns the algorithm identifier of the wrapped scorer.
	Name() string

	// Rank scores every candidate and returns the survivors sorted by
	// score, highest first, and sliced by the configured top-N.
	Rank(ctx context.Context) ([]domain.Prediction, error)

	// Best returns the single highest-scoring survivor regardless of the
	// configured top-N. The boolean is false when nothing survived.
	Best(ctx context.Context) (domain.Prediction, bool, error)

	// Validate checks if the ranker is properly configured.
	Validate() error
}

// ScorerFactory creates a Scorer from its identifier and a loosely typed
// parameter map, as decoded from configuration.
type ScorerFactory func(id string, params map[string]any) (Scorer, error)

// ScorerRegistry resolves algorithm type names to scorer factories.
type ScorerRegistry interface {
	// CreateScorer builds a scorer of the given type.
	CreateScorer(scorerType, id string, params map[string]any) (Scorer, error)

	// RegisterScorerFactory adds or replaces the factory for a type.
	RegisterScorerFactory(scorerType string, factory ScorerFactory) error

	// GetSupportedTypes lists every registered type.
	GetSupportedTypes() []string
}
