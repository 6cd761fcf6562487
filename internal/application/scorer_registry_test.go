package application

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-votematch/infrastructure/scorers"
	"github.com/ahrav/go-votematch/internal/ports"
)

func TestNewDefaultScorerRegistry(t *testing.T) {
	registry := NewDefaultScorerRegistry()

	assert.Equal(t,
		[]string{ScorerJaro, ScorerJaroCustom, ScorerJaroOriginal, ScorerJaroWinkler, ScorerLevenshtein},
		registry.GetSupportedTypes())
	assert.True(t, registry.IsSupported(ScorerLevenshtein))
	assert.False(t, registry.IsSupported("soundex"))
}

func TestDefaultScorerRegistry_CreateScorer(t *testing.T) {
	tests := []struct {
		name       string
		scorerType string
		id         string
		params     map[string]any
		wantErr    error
		errText    string
	}{
		{name: "jaro", scorerType: ScorerJaro, id: "j"},
		{name: "jaro winkler", scorerType: ScorerJaroWinkler, id: "jw"},
		{name: "jaro original", scorerType: ScorerJaroOriginal, id: "jo"},
		{name: "levenshtein", scorerType: ScorerLevenshtein, id: "lev"},
		{
			name:       "jaro custom with parameters",
			scorerType: ScorerJaroCustom,
			id:         "jc",
			params:     map[string]any{"boost_threshold": 0.5, "prefix_size": 2},
		},
		{
			name:       "jaro custom rejects out of range prefix",
			scorerType: ScorerJaroCustom,
			id:         "jc",
			params:     map[string]any{"prefix_size": 40},
			errText:    "failed to create scorer jc",
		},
		{
			name:       "unknown type",
			scorerType: "soundex",
			id:         "s",
			wantErr:    ports.ErrUnknownScorer,
		},
		{
			name:       "empty id",
			scorerType: ScorerJaro,
			id:         "",
			errText:    "scorer ID cannot be empty",
		},
	}

	registry := NewDefaultScorerRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer, err := registry.CreateScorer(tt.scorerType, tt.id, tt.params)
			if tt.wantErr != nil || tt.errText != "" {
				require.Error(t, err)
				assert.Nil(t, scorer)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				if tt.errText != "" {
					assert.Contains(t, err.Error(), tt.errText)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, scorer.Name())

			score, err := scorer.Score("sales manager", "sales manager")
			require.NoError(t, err)
			assert.InDelta(t, 1.0, score, 1e-9)
		})
	}

	t.Run("jaro custom parameters reach the scorer", func(t *testing.T) {
		scorer, err := registry.CreateScorer(ScorerJaroCustom, "jc", map[string]any{"boost_threshold": 0.5, "prefix_size": 2})
		require.NoError(t, err)
		custom, ok := scorer.(*scorers.JaroCustomScorer)
		require.True(t, ok)
		assert.Equal(t, scorers.JaroCustomConfig{BoostThreshold: 0.5, PrefixSize: 2}, custom.Config())
	})
}

func TestDefaultScorerRegistry_RegisterScorerFactory(t *testing.T) {
	registry := NewDefaultScorerRegistry()
	constant := func(id string, _ map[string]any) (ports.Scorer, error) {
		return ports.ScorerFunc{ID: id, Fn: func(string, string) float64 { return 0.5 }}, nil
	}

	t.Run("registers new type", func(t *testing.T) {
		require.NoError(t, registry.RegisterScorerFactory("constant", constant))
		assert.Contains(t, registry.GetSupportedTypes(), "constant")

		scorer, err := registry.CreateScorer("constant", "c", nil)
		require.NoError(t, err)
		score, err := scorer.Score("a", "b")
		require.NoError(t, err)
		assert.Equal(t, 0.5, score)
	})

	t.Run("rejects empty type", func(t *testing.T) {
		assert.Error(t, registry.RegisterScorerFactory("", constant))
	})

	t.Run("rejects nil factory", func(t *testing.T) {
		assert.Error(t, registry.RegisterScorerFactory("nil", nil))
	})

	t.Run("factory errors are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		require.NoError(t, registry.RegisterScorerFactory("broken", func(string, map[string]any) (ports.Scorer, error) {
			return nil, boom
		}))
		_, err := registry.CreateScorer("broken", "b", nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestDefaultScorerRegistry_Concurrency(t *testing.T) {
	registry := NewDefaultScorerRegistry()
	factory := func(id string, _ map[string]any) (ports.Scorer, error) {
		return ports.ScorerFunc{ID: id, Fn: func(string, string) float64 { return 1 }}, nil
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, registry.RegisterScorerFactory("constant", factory))
		}()
		go func() {
			defer wg.Done()
			_, err := registry.CreateScorer(ScorerJaro, "j", nil)
			assert.NoError(t, err)
			_ = registry.GetSupportedTypes()
		}()
	}
	wg.Wait()
}
