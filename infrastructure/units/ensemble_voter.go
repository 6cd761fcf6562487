package units

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-votematch/internal/domain"
	"github.com/ahrav/go-votematch/internal/ports"
)

// EnsembleConfig defines the configuration parameters for the EnsembleVoter.
// All fields are validated during voter creation.
type EnsembleConfig struct {
	// TopN selects the slice of ranked tallies to return: N > 0 keeps the
	// first N, N < 0 keeps the last |N|, and 0 keeps all of them.
	TopN int `yaml:"top_n" json:"top_n"`

	// MaxConcurrency limits how many rankers run at once.
	// Zero falls back to DefaultMaxConcurrency.
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency" validate:"min=0,max=1024"`

	// Timeout bounds a whole vote across every ranker. Zero disables it.
	Timeout time.Duration `yaml:"timeout" json:"timeout" validate:"min=0"`
}

// DefaultEnsembleConfig returns an EnsembleConfig with sensible defaults.
func DefaultEnsembleConfig() EnsembleConfig {
	return EnsembleConfig{
		TopN:           1,
		MaxConcurrency: 0,
		Timeout:        0,
	}
}

// EnsembleVoter merges the opinions of several rankers by majority vote.
// Each ranker contributes only its single best prediction; predictions are
// tallied per normalized word and the tallies are ranked by vote count.
//
// Rankers run concurrently and share no mutable state; tallies are built by
// a single goroutine after every ranker has finished.
type EnsembleVoter struct {
	name    string
	rankers []ports.Ranker
	config  EnsembleConfig
	tracer  trace.Tracer
	opts    options
}

// NewEnsembleVoter creates an EnsembleVoter over rankers.
// Rankers configured with any top-N still contribute only their best
// prediction. Returns an error wrapping domain.ErrInvalidConfiguration if
// the name is empty, no rankers are given, a ranker is nil, or the
// configuration fails validation.
func NewEnsembleVoter(
	name string,
	rankers []ports.Ranker,
	config EnsembleConfig,
	opts ...Option,
) (*EnsembleVoter, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, ErrEmptyUnitName)
	}
	if len(rankers) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, ErrNoRankers)
	}
	for i, r := range rankers {
		if r == nil {
			return nil, fmt.Errorf("%w: ranker %d is nil", domain.ErrInvalidConfiguration, i)
		}
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("%w: configuration validation failed: %w", domain.ErrInvalidConfiguration, err)
	}

	return &EnsembleVoter{
		name:    name,
		rankers: slices.Clone(rankers),
		config:  config,
		tracer:  otel.Tracer("ensemble-voter-unit"),
		opts:    newOptions(opts),
	}, nil
}

// Name returns the unique identifier for this ensemble.
func (v *EnsembleVoter) Name() string { return v.name }

// Config returns the ensemble configuration.
func (v *EnsembleVoter) Config() EnsembleConfig { return v.config }

// Rankers returns a copy of the ensemble's rankers in configuration order.
func (v *EnsembleVoter) Rankers() []ports.Ranker { return slices.Clone(v.rankers) }

// Validate checks the ensemble and every ranker it holds.
func (v *EnsembleVoter) Validate() error {
	if err := validate.Struct(v.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	var errs []error
	for _, r := range v.rankers {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("ranker %s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Vote runs the ensemble and returns the consensus tallies, most votes
// first. An empty result means no algorithm found a match above its
// threshold; it is not an error.
func (v *EnsembleVoter) Vote(ctx context.Context) ([]*domain.VoteTally, error) {
	ballot, err := v.Ballot(ctx)
	if err != nil {
		return nil, err
	}
	return ballot.Tallies, nil
}

// Ballot runs the ensemble and returns both the per-algorithm winners and
// the consensus tallies.
//
// Tallies are ordered by vote count, then by mean score (both compared at
// three decimals), then by the order in which the word first appeared among
// the score-sorted winners.
func (v *EnsembleVoter) Ballot(ctx context.Context) (domain.Ballot, error) {
	if v.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.config.Timeout)
		defer cancel()
	}

	ctx, span := v.tracer.Start(ctx, "EnsembleVoter.Ballot",
		trace.WithAttributes(
			attribute.String("unit.type", "ensemble_voter"),
			attribute.String("unit.id", v.name),
			attribute.Int("config.top_n", v.config.TopN),
			attribute.Int("ensemble.rankers_count", len(v.rankers)),
		),
	)
	defer span.End()

	start := time.Now()
	labels := map[string]string{LabelComponent: v.name}

	winners, err := v.collectWinners(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Ballot{}, err
	}

	slices.SortStableFunc(winners, domain.ComparePredictions)
	for _, w := range winners {
		v.opts.logger.Debug("algorithm winner",
			slog.String("ensemble", v.name),
			slog.String("algorithm", w.Algorithm()),
			slog.String("candidate", w.Candidate()),
			slog.Float64("score", w.Score()),
		)
		v.opts.metrics.RecordHistogram(MetricWinningScore, w.Score(), labels)
	}

	tallies := tallyVotes(winners)
	for _, t := range tallies {
		v.opts.logger.Debug("vote tally",
			slog.String("ensemble", v.name),
			slog.String("word", t.Word()),
			slog.Int("count", t.Count()),
			slog.Float64("mean_score", t.MeanScore()),
		)
	}
	result := domain.SliceTopN(tallies, v.config.TopN)

	latency := time.Since(start)
	v.opts.metrics.RecordLatency(MetricVote, latency, labels)
	v.opts.metrics.RecordCounter(MetricVotes, float64(len(winners)), labels)
	v.opts.metrics.RecordCounter(MetricAbstentions, float64(len(v.rankers)-len(winners)), labels)
	v.opts.metrics.RecordGauge(MetricTallies, float64(len(tallies)), labels)
	if len(tallies) > 0 {
		v.opts.metrics.RecordGauge(MetricConsensusCount, float64(tallies[0].Count()), labels)
	}

	span.SetAttributes(
		attribute.Int("ensemble.winners_count", len(winners)),
		attribute.Int("ensemble.tallies_count", len(tallies)),
		attribute.Int64("ensemble.latency_ms", latency.Milliseconds()),
	)

	return domain.Ballot{Winners: winners, Tallies: result}, nil
}

// collectWinners fans out to every ranker and gathers their best
// predictions in ranker order. Rankers with no survivor abstain.
func (v *EnsembleVoter) collectWinners(ctx context.Context) ([]domain.Prediction, error) {
	limit := v.config.MaxConcurrency
	if limit <= 0 {
		limit = DefaultMaxConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	// Each goroutine owns exactly one slot, so no lock is needed.
	slots := make([]*domain.Prediction, len(v.rankers))
	for i, r := range v.rankers {
		g.Go(func() error {
			best, ok, err := r.Best(gctx)
			if err != nil {
				return fmt.Errorf("ranker %s: %w", r.Name(), err)
			}
			if ok {
				slots[i] = &best
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: ensemble %s: %w", ports.ErrTimeout, v.name, err)
		}
		return nil, fmt.Errorf("ensemble %s: %w", v.name, err)
	}

	winners := make([]domain.Prediction, 0, len(slots))
	for _, p := range slots {
		if p != nil {
			winners = append(winners, *p)
		}
	}
	return winners, nil
}

// tallyVotes merges winners into one tally per normalized word and ranks
// the tallies. The map is only an index; output order comes from the
// first-seen slice and the explicit sort.
func tallyVotes(winners []domain.Prediction) []*domain.VoteTally {
	index := make(map[string]*domain.VoteTally, len(winners))
	ordered := make([]*domain.VoteTally, 0, len(winners))

	for _, w := range winners {
		word := domain.NormalizeWord(w.Candidate())
		if t, ok := index[word]; ok {
			t.AddVote(w.Score())
			continue
		}
		t := domain.NewVoteTally(word, w.Score())
		index[word] = t
		ordered = append(ordered, t)
	}

	slices.SortStableFunc(ordered, domain.CompareTallies)
	return ordered
}
