package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-votematch/internal/domain"
	"github.com/ahrav/go-votematch/internal/ports"
)

const validConfigYAML = `version: "1.0.0"
metadata:
  name: job-titles
  description: Match free-text job titles against the role catalog.
  tags: [hr, titles]
top_n: 1
max_concurrency: 4
timeout_seconds: 5
algorithms:
  - id: jaro standard
    type: jaro
    threshold: 0.5
  - id: jaro winkler
    type: jaro_winkler
    threshold: 0.5
  - id: jaro original
    type: jaro_original
  - id: jaro custom
    type: jaro_custom
    threshold: 0.6
    parameters:
      boost_threshold: 0.6
      prefix_size: 3
  - id: edit distance
    type: levenshtein
    threshold: 0.4
    top_n: 3
`

func newTestLoader(t *testing.T) *EnsembleLoader {
	t.Helper()
	loader, err := NewEnsembleLoader(nil)
	require.NoError(t, err)
	return loader
}

func TestEnsembleLoader_LoadFromBytes(t *testing.T) {
	loader := newTestLoader(t)

	ensemble, err := loader.LoadFromBytes(context.Background(), []byte(validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "job-titles", ensemble.Name())
	assert.Equal(t,
		[]string{"jaro standard", "jaro winkler", "jaro original", "jaro custom", "edit distance"},
		ensemble.Algorithms())
	assert.True(t, ensemble.CaseSensitive())

	voting := ensemble.VotingConfig()
	assert.Equal(t, 1, voting.TopN)
	assert.Equal(t, 4, voting.MaxConcurrency)
	assert.Equal(t, "5s", voting.Timeout.String())

	thresholds := make(map[string]float64)
	for _, m := range ensemble.members {
		thresholds[m.scorer.Name()] = m.ranking.Threshold
	}
	assert.Equal(t, DefaultAlgorithmThreshold, thresholds["jaro original"])
	assert.Equal(t, 0.6, thresholds["jaro custom"])
	assert.Equal(t, 3, ensemble.members[4].ranking.TopN)
}

func TestEnsembleLoader_Cache(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	first, err := loader.LoadFromBytes(ctx, []byte(validConfigYAML))
	require.NoError(t, err)

	// Comments and whitespace do not change the normalized configuration.
	second, err := loader.LoadFromBytes(ctx, []byte("# job titles\n"+validConfigYAML+"\n\n"))
	require.NoError(t, err)
	assert.Same(t, first, second)

	loader.ClearCache()
	third, err := loader.LoadFromBytes(ctx, []byte(validConfigYAML))
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestEnsembleLoader_ConcurrentLoads(t *testing.T) {
	loader := newTestLoader(t)

	const workers = 16
	results := make([]*Ensemble, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := loader.LoadFromBytes(context.Background(), []byte(validConfigYAML))
			assert.NoError(t, err)
			results[i] = e
		}()
	}
	wg.Wait()

	for _, e := range results[1:] {
		assert.Same(t, results[0], e)
	}
}

func TestEnsembleLoader_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		errText string
	}{
		{
			name:    "empty document",
			yaml:    "",
			wantErr: domain.ErrInvalidConfiguration,
		},
		{
			name: "unknown field",
			yaml: `version: "1.0.0"
metadata:
  name: x
thresholds: 0.5
algorithms:
  - id: a
    type: jaro`,
			errText: "thresholds",
		},
		{
			name: "bad version",
			yaml: `version: "1.0"
metadata:
  name: x
algorithms:
  - id: a
    type: jaro`,
			wantErr: domain.ErrInvalidConfiguration,
			errText: "semver",
		},
		{
			name: "no algorithms",
			yaml: `version: "1.0.0"
metadata:
  name: x
algorithms: []`,
			wantErr: domain.ErrInvalidConfiguration,
		},
		{
			name: "negative threshold",
			yaml: `version: "1.0.0"
metadata:
  name: x
algorithms:
  - id: a
    type: jaro
    threshold: -0.1`,
			wantErr: domain.ErrInvalidConfiguration,
		},
		{
			name: "malformed scorer type",
			yaml: `version: "1.0.0"
metadata:
  name: x
algorithms:
  - id: a
    type: Jaro-Winkler`,
			wantErr: domain.ErrInvalidConfiguration,
			errText: "scorertype",
		},
		{
			name: "unregistered scorer type",
			yaml: `version: "1.0.0"
metadata:
  name: x
algorithms:
  - id: a
    type: soundex`,
			wantErr: ports.ErrUnknownScorer,
			errText: "soundex",
		},
		{
			name: "duplicate ids",
			yaml: `version: "1.0.0"
metadata:
  name: x
algorithms:
  - id: a
    type: jaro
  - id: a
    type: levenshtein`,
			wantErr: domain.ErrInvalidConfiguration,
			errText: "duplicate algorithm ID",
		},
		{
			name: "parameters on a parameterless scorer",
			yaml: `version: "1.0.0"
metadata:
  name: x
algorithms:
  - id: a
    type: jaro
    parameters:
      prefix_size: 2`,
			wantErr: domain.ErrInvalidConfiguration,
			errText: "takes no parameters",
		},
		{
			name: "jaro custom boost out of range",
			yaml: `version: "1.0.0"
metadata:
  name: x
algorithms:
  - id: a
    type: jaro_custom
    parameters:
      boost_threshold: 1.5`,
			wantErr: domain.ErrInvalidConfiguration,
			errText: "boost_threshold",
		},
		{
			name: "negative timeout",
			yaml: `version: "1.0.0"
metadata:
  name: x
timeout_seconds: -1
algorithms:
  - id: a
    type: jaro`,
			wantErr: domain.ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newTestLoader(t)
			ensemble, err := loader.LoadFromBytes(context.Background(), []byte(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, ensemble)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}

func TestEnsembleLoader_CollectsEverySemanticFailure(t *testing.T) {
	loader := newTestLoader(t)
	_, err := loader.LoadFromBytes(context.Background(), []byte(`version: "1.0.0"
metadata:
  name: x
algorithms:
  - id: a
    type: jaro
  - id: a
    type: soundex
  - id: b
    type: jaro_custom
    parameters:
      prefix_size: 2.5`))
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)

	var cerr *ports.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "algorithms.a.type", cerr.ConfigKey)
}

func TestEnsembleLoader_LoadFromFile(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ensemble.yaml")
		require.NoError(t, os.WriteFile(path, []byte(validConfigYAML), 0o600))

		ensemble, err := loader.LoadFromFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "job-titles", ensemble.Name())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadFromFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ports.ErrConfigNotFound)

		var cerr *ports.ConfigError
		assert.ErrorAs(t, err, &cerr)
	})

	t.Run("reader", func(t *testing.T) {
		ensemble, err := loader.LoadFromReader(ctx, strings.NewReader(validConfigYAML))
		require.NoError(t, err)
		assert.Len(t, ensemble.Algorithms(), 5)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.LoadFromBytes(cctx, []byte(validConfigYAML))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEnsembleLoader_CustomScorerType(t *testing.T) {
	registry := NewDefaultScorerRegistry()
	require.NoError(t, registry.RegisterScorerFactory("exact", func(id string, params map[string]any) (ports.Scorer, error) {
		return ports.ScorerFunc{ID: id, Fn: func(c, q string) float64 {
			if c == q {
				return 1
			}
			return 0
		}}, nil
	}))

	loader, err := NewEnsembleLoader(registry)
	require.NoError(t, err)

	ensemble, err := loader.LoadFromBytes(context.Background(), []byte(`version: "1.0.0"
metadata:
  name: exact
algorithms:
  - id: exact match
    type: exact
    threshold: 0.5
    parameters:
      anything: goes`))
	require.NoError(t, err)

	tallies, err := ensemble.Vote(context.Background(), []string{"manager", "sales manager"}, "manager")
	require.NoError(t, err)
	require.Len(t, tallies, 1)
	assert.Equal(t, "manager", tallies[0].Word())
}
