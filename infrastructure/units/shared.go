// Package units provides the ranking and voting units of the matcher: a
// Ranker per scoring algorithm, and an EnsembleVoter that merges their best
// predictions into a consensus.
package units

import (
	"errors"
	"log/slog"
	"runtime"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-votematch/internal/ports"
)

// DefaultMaxConcurrency bounds how many rankers an ensemble runs at once
// when no limit is configured.
var DefaultMaxConcurrency = runtime.NumCPU() * 2

// Common errors returned by units.
var (
	// ErrEmptyUnitName is returned when attempting to create a unit with an empty name.
	ErrEmptyUnitName = errors.New("unit name cannot be empty")

	// ErrNilScorer is returned when a ranker is created without a scorer.
	ErrNilScorer = errors.New("scorer cannot be nil")

	// ErrNoRankers is returned when an ensemble is created without rankers.
	ErrNoRankers = errors.New("ensemble requires at least one ranker")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// Metric names emitted through ports.MetricsCollector.
const (
	MetricRank           = "rank"
	MetricVote           = "vote"
	MetricScorerCalls    = "scorer_evaluations_total"
	MetricPredictions    = "predictions_total"
	MetricVotes          = "votes_total"
	MetricAbstentions    = "abstentions_total"
	MetricTallies        = "tallies"
	MetricWinningScore   = "winning_score"
	MetricConsensusCount = "consensus_count"
	LabelComponent       = "component"
)

// options holds the cross-cutting dependencies shared by every unit.
type options struct {
	metrics ports.MetricsCollector
	logger  *slog.Logger
}

// Option configures optional unit dependencies.
type Option func(*options)

// WithMetrics sets the collector used to record latency and vote metrics.
func WithMetrics(m ports.MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithLogger sets the structured logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		metrics: ports.NoopMetrics{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
