package application

import (
	"context"
	"fmt"

	"github.com/ahrav/go-votematch/infrastructure/scorers"
	"github.com/ahrav/go-votematch/infrastructure/units"
	"github.com/ahrav/go-votematch/internal/domain"
	"github.com/ahrav/go-votematch/internal/ports"
)

// Match runs a one-off ensemble vote: every scorer ranks candidates against
// query with the same threshold, each contributes its best prediction, and
// the resulting tallies are sliced by topN.
//
// An empty result means no scorer found a candidate above the threshold.
func Match(
	ctx context.Context,
	candidates []string,
	query string,
	threshold float64,
	topN int,
	scorers []ports.Scorer,
	opts ...units.Option,
) ([]*domain.VoteTally, error) {
	ranking := domain.RankingConfig{Threshold: threshold, TopN: 1}

	rankers := make([]ports.Ranker, 0, len(scorers))
	for i, s := range scorers {
		r, err := units.NewRanker(s, candidates, query, ranking, opts...)
		if err != nil {
			return nil, fmt.Errorf("scorer %d: %w", i, err)
		}
		rankers = append(rankers, r)
	}

	config := units.DefaultEnsembleConfig()
	config.TopN = topN
	voter, err := units.NewEnsembleVoter("match", rankers, config, opts...)
	if err != nil {
		return nil, err
	}
	return voter.Vote(ctx)
}

// DefaultScorers returns the standard three-way jaro ensemble: jaro,
// jaro-winkler, and the original jaro formulation.
func DefaultScorers() ([]ports.Scorer, error) {
	registry := NewDefaultScorerRegistry()
	defaults := []struct{ scorerType, name string }{
		{ScorerJaro, scorers.NameJaro},
		{ScorerJaroWinkler, scorers.NameJaroWinkler},
		{ScorerJaroOriginal, scorers.NameJaroOriginal},
	}

	out := make([]ports.Scorer, 0, len(defaults))
	for _, d := range defaults {
		s, err := registry.CreateScorer(d.scorerType, d.name, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
