package units

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-votematch/internal/domain"
	"github.com/ahrav/go-votematch/internal/ports"
)

var _ ports.Ranker = (*Ranker)(nil)

// Ranker scores a candidate catalog against a query with a single scorer
// and returns the thresholded, sorted, top-N-sliced predictions.
//
// Every call recomputes from scratch; nothing is cached between calls, so
// setter changes are always reflected in the next Rank. Rank may be called
// concurrently with itself and with the setters.
type Ranker struct {
	scorer ports.Scorer
	tracer trace.Tracer
	opts   options

	// mu guards candidates, query, and config.
	mu         sync.RWMutex
	candidates []string
	query      string
	config     domain.RankingConfig
}

// NewRanker creates a Ranker bound to scorer.
// Candidates are copied; duplicates are kept and scored independently.
// Returns an error wrapping domain.ErrInvalidConfiguration if the scorer
// is missing or the configuration is invalid.
func NewRanker(
	scorer ports.Scorer,
	candidates []string,
	query string,
	config domain.RankingConfig,
	opts ...Option,
) (*Ranker, error) {
	if scorer == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, ErrNilScorer)
	}
	if scorer.Name() == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, ErrEmptyUnitName)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Ranker{
		scorer:     scorer,
		tracer:     otel.Tracer("ranker-unit"),
		opts:       newOptions(opts),
		candidates: slices.Clone(candidates),
		query:      query,
		config:     config,
	}, nil
}

// Name returns the algorithm identifier of the wrapped scorer.
func (r *Ranker) Name() string { return r.scorer.Name() }

// Candidates returns a copy of the catalog being ranked.
func (r *Ranker) Candidates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.candidates)
}

// Query returns the text candidates are compared against.
func (r *Ranker) Query() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.query
}

// Config returns the current ranking configuration.
func (r *Ranker) Config() domain.RankingConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// SetCandidates replaces the catalog. The slice is copied.
func (r *Ranker) SetCandidates(candidates []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates = slices.Clone(candidates)
}

// SetQuery replaces the query.
func (r *Ranker) SetQuery(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query = query
}

// SetThreshold replaces the threshold. A negative, NaN, or infinite value
// is rejected with an error wrapping domain.ErrInvalidConfiguration and the
// previous threshold is kept.
func (r *Ranker) SetThreshold(threshold float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.config
	next.Threshold = threshold
	if err := next.Validate(); err != nil {
		return err
	}
	r.config = next
	return nil
}

// SetTopN replaces the top-N selector. Any integer is valid.
func (r *Ranker) SetTopN(topN int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config.TopN = topN
}

// Validate checks if the ranker is properly configured.
func (r *Ranker) Validate() error {
	if r.scorer == nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, ErrNilScorer)
	}
	return r.Config().Validate()
}

// Rank scores every candidate and returns the survivors sorted by score,
// highest first, sliced by the configured top-N. An empty catalog yields an
// empty slice. A scorer error or an out-of-range score aborts the whole call
// with a *domain.ScoringError.
func (r *Ranker) Rank(ctx context.Context) ([]domain.Prediction, error) {
	return r.rank(ctx, r.Config().TopN)
}

// Best returns the highest-scoring survivor regardless of the configured
// top-N. The boolean is false when no candidate survived the threshold.
func (r *Ranker) Best(ctx context.Context) (domain.Prediction, bool, error) {
	preds, err := r.rank(ctx, 1)
	if err != nil {
		return domain.Prediction{}, false, err
	}
	if len(preds) == 0 {
		return domain.Prediction{}, false, nil
	}
	return preds[0], true, nil
}

func (r *Ranker) rank(ctx context.Context, topN int) ([]domain.Prediction, error) {
	r.mu.RLock()
	candidates := r.candidates
	query := r.query
	config := r.config
	r.mu.RUnlock()

	name := r.scorer.Name()
	ctx, span := r.tracer.Start(ctx, "Ranker.Rank",
		trace.WithAttributes(
			attribute.String("unit.type", "ranker"),
			attribute.String("unit.id", name),
			attribute.Float64("config.threshold", config.Threshold),
			attribute.Int("config.top_n", topN),
			attribute.Int("rank.candidates_count", len(candidates)),
		),
	)
	defer span.End()

	start := time.Now()
	labels := map[string]string{LabelComponent: name}

	preds := make([]domain.Prediction, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return nil, err
		}

		score, err := r.scorer.Score(candidate, query)
		if err != nil {
			serr := domain.NewScoringError(name, candidate, err)
			span.RecordError(serr)
			return nil, serr
		}
		if math.IsNaN(score) || score < 0 || score > 1 {
			serr := domain.NewScoringError(name, candidate, fmt.Errorf("score %f outside [0, 1]", score))
			span.RecordError(serr)
			return nil, serr
		}

		if config.Accepts(score) {
			preds = append(preds, domain.NewPrediction(name, candidate, score))
		}
	}

	// Stable: candidates whose rounded scores tie keep catalog order.
	slices.SortStableFunc(preds, domain.ComparePredictions)
	result := domain.SliceTopN(preds, topN)

	latency := time.Since(start)
	r.opts.metrics.RecordLatency(MetricRank, latency, labels)
	r.opts.metrics.RecordCounter(MetricScorerCalls, float64(len(candidates)), labels)
	r.opts.metrics.RecordCounter(MetricPredictions, float64(len(result)), labels)

	span.SetAttributes(
		attribute.Int("rank.survivors_count", len(preds)),
		attribute.Int("rank.returned_count", len(result)),
		attribute.Int64("rank.latency_ms", latency.Milliseconds()),
	)

	r.opts.logger.Debug("ranked candidates",
		slog.String("algorithm", name),
		slog.Int("candidates", len(candidates)),
		slog.Int("survivors", len(preds)),
		slog.Int("returned", len(result)),
	)

	return result, nil
}
