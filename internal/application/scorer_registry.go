package application

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ahrav/go-votematch/infrastructure/scorers"
	"github.com/ahrav/go-votematch/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.ScorerRegistry = (*DefaultScorerRegistry)(nil)

// DefaultScorerRegistry implements the ScorerRegistry interface providing
// a factory for creating scorers based on type and parameters.
// It supports dynamic registration of scorer factories.
type DefaultScorerRegistry struct {
	// factories maps scorer type strings to their factory functions.
	factories map[string]ports.ScorerFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultScorerRegistry creates a new scorer registry with the built-in
// string-similarity algorithms pre-registered.
func NewDefaultScorerRegistry() *DefaultScorerRegistry {
	registry := &DefaultScorerRegistry{
		factories: make(map[string]ports.ScorerFactory),
	}
	registry.registerBuiltinFactories()
	return registry
}

// registerBuiltinFactories registers jaro, jaro_winkler, jaro_original,
// jaro_custom, and levenshtein.
func (r *DefaultScorerRegistry) registerBuiltinFactories() {
	r.factories[ScorerJaro] = scorers.CreateJaroScorer
	r.factories[ScorerJaroWinkler] = scorers.CreateJaroWinklerScorer
	r.factories[ScorerJaroOriginal] = scorers.CreateJaroOriginalScorer
	r.factories[ScorerJaroCustom] = scorers.CreateJaroCustomScorer
	r.factories[ScorerLevenshtein] = scorers.CreateLevenshteinScorer
}

// CreateScorer creates a new scorer of the given type.
// An unregistered type yields an error wrapping ports.ErrUnknownScorer.
func (r *DefaultScorerRegistry) CreateScorer(
	scorerType string,
	id string,
	params map[string]any,
) (ports.Scorer, error) {
	r.mu.RLock()
	factory, exists := r.factories[scorerType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnknownScorer, scorerType)
	}

	if id == "" {
		return nil, fmt.Errorf("scorer ID cannot be empty")
	}

	if params == nil {
		params = make(map[string]any)
	}

	scorer, err := factory(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create scorer %s of type %s: %w", id, scorerType, err)
	}

	return scorer, nil
}

// RegisterScorerFactory registers a factory for a scorer type, replacing
// any existing registration. This allows extending the registry with
// custom algorithms at runtime.
func (r *DefaultScorerRegistry) RegisterScorerFactory(
	scorerType string,
	factory ports.ScorerFactory,
) error {
	if scorerType == "" {
		return fmt.Errorf("scorer type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[scorerType] = factory
	return nil
}

// GetSupportedTypes returns the registered scorer types in sorted order.
func (r *DefaultScorerRegistry) GetSupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for scorerType := range r.factories {
		types = append(types, scorerType)
	}
	slices.Sort(types)
	return types
}

// IsSupported reports whether a factory is registered for scorerType.
func (r *DefaultScorerRegistry) IsSupported(scorerType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[scorerType]
	return ok
}
