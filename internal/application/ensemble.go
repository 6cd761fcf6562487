package application

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/text/cases"

	"github.com/ahrav/go-votematch/infrastructure/units"
	"github.com/ahrav/go-votematch/internal/domain"
	"github.com/ahrav/go-votematch/internal/ports"
)

// member pairs a compiled scorer with its ranking settings.
type member struct {
	scorer  ports.Scorer
	ranking domain.RankingConfig
}

// Ensemble is a compiled configuration: one scorer per algorithm plus the
// voting settings. It holds no catalog or query, so a single Ensemble can
// serve any number of concurrent matches.
type Ensemble struct {
	name          string
	members       []member
	voting        units.EnsembleConfig
	caseSensitive bool
}

func newEnsemble(config *EnsembleConfig, members []member) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, units.ErrNoRankers)
	}
	return &Ensemble{
		name:    config.Metadata.Name,
		members: members,
		voting: units.EnsembleConfig{
			TopN:           config.TopN,
			MaxConcurrency: config.MaxConcurrency,
			Timeout:        config.Timeout(),
		},
		caseSensitive: config.IsCaseSensitive(),
	}, nil
}

// Name returns the ensemble name from the configuration metadata.
func (e *Ensemble) Name() string { return e.name }

// Algorithms returns the algorithm IDs in configuration order.
func (e *Ensemble) Algorithms() []string {
	ids := make([]string, len(e.members))
	for i, m := range e.members {
		ids[i] = m.scorer.Name()
	}
	return ids
}

// VotingConfig returns the settings passed to the EnsembleVoter.
func (e *Ensemble) VotingConfig() units.EnsembleConfig { return e.voting }

// CaseSensitive reports whether inputs keep their case.
func (e *Ensemble) CaseSensitive() bool { return e.caseSensitive }

// NewVoter binds the ensemble to a catalog and query.
func (e *Ensemble) NewVoter(candidates []string, query string, opts ...units.Option) (*units.EnsembleVoter, error) {
	candidates, query = e.prepare(candidates, query)

	rankers := make([]ports.Ranker, 0, len(e.members))
	for _, m := range e.members {
		r, err := units.NewRanker(m.scorer, candidates, query, m.ranking, opts...)
		if err != nil {
			return nil, fmt.Errorf("algorithm %s: %w", m.scorer.Name(), err)
		}
		rankers = append(rankers, r)
	}
	return units.NewEnsembleVoter(e.name, rankers, e.voting, opts...)
}

// NewRanker binds a single algorithm to a catalog and query, using the
// algorithm's own threshold and top-N.
func (e *Ensemble) NewRanker(algorithmID string, candidates []string, query string, opts ...units.Option) (*units.Ranker, error) {
	idx := slices.IndexFunc(e.members, func(m member) bool { return m.scorer.Name() == algorithmID })
	if idx < 0 {
		return nil, fmt.Errorf("%w: no algorithm %q in ensemble %s", domain.ErrInvalidConfiguration, algorithmID, e.name)
	}
	candidates, query = e.prepare(candidates, query)
	m := e.members[idx]
	return units.NewRanker(m.scorer, candidates, query, m.ranking, opts...)
}

// Vote runs the ensemble over candidates and returns the ranked tallies.
func (e *Ensemble) Vote(ctx context.Context, candidates []string, query string, opts ...units.Option) ([]*domain.VoteTally, error) {
	voter, err := e.NewVoter(candidates, query, opts...)
	if err != nil {
		return nil, err
	}
	return voter.Vote(ctx)
}

// Ballot runs the ensemble and returns winners and tallies.
func (e *Ensemble) Ballot(ctx context.Context, candidates []string, query string, opts ...units.Option) (domain.Ballot, error) {
	voter, err := e.NewVoter(candidates, query, opts...)
	if err != nil {
		return domain.Ballot{}, err
	}
	return voter.Ballot(ctx)
}

// prepare folds case when the ensemble is case-insensitive. The caller's
// slice is never modified.
func (e *Ensemble) prepare(candidates []string, query string) ([]string, string) {
	if e.caseSensitive {
		return candidates, query
	}
	caser := cases.Fold()
	folded := make([]string, len(candidates))
	for i, c := range candidates {
		folded[i] = caser.String(c)
	}
	return folded, caser.String(query)
}

// WithTopN returns a copy of the ensemble that returns topN tallies.
func (e *Ensemble) WithTopN(topN int) *Ensemble {
	clone := *e
	clone.voting.TopN = topN
	return &clone
}
