// Package testutils provides utilities for testing, including mock objects and
// test data generators. These components are intended for internal use within
// the project's test suites and are not part of the public API.
package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/ahrav/go-votematch/internal/domain"
	"github.com/ahrav/go-votematch/internal/ports"
)

var (
	_ ports.Ranker           = (*BlockingRanker)(nil)
	_ ports.Scorer           = (*FailingScorer)(nil)
	_ ports.MetricsCollector = (*RecordingMetrics)(nil)
)

// TableScorer returns a scorer with a fixed score per candidate. Candidates
// missing from scores get 0.
func TableScorer(name string, scores map[string]float64) ports.Scorer {
	return ports.ScorerFunc{
		ID: name,
		Fn: func(candidate, _ string) float64 { return scores[candidate] },
	}
}

// ErrMockScoring is the cause reported by FailingScorer.
var ErrMockScoring = errors.New("unexpected input")

// FailingScorer scores every candidate with a constant and fails on one.
// It records the candidates it was asked to score.
type FailingScorer struct {
	name   string
	failOn string
	score  float64

	mu    sync.Mutex
	calls []string
}

// NewFailingScorer creates a scorer that fails for failOn.
func NewFailingScorer(name, failOn string, score float64) *FailingScorer {
	return &FailingScorer{name: name, failOn: failOn, score: score}
}

// Name returns the configured name.
func (f *FailingScorer) Name() string { return f.name }

// Score returns ErrMockScoring for the failing candidate.
func (f *FailingScorer) Score(candidate, _ string) (float64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, candidate)
	f.mu.Unlock()

	if candidate == f.failOn {
		return 0, ErrMockScoring
	}
	return f.score, nil
}

// Calls returns the candidates scored so far, in call order.
func (f *FailingScorer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// BlockingRanker never produces a result; it waits for its context to end.
type BlockingRanker struct {
	name string
}

// NewBlockingRanker creates a ranker that only returns on cancellation.
func NewBlockingRanker(name string) *BlockingRanker { return &BlockingRanker{name: name} }

// Name returns the configured name.
func (b *BlockingRanker) Name() string { return b.name }

// Rank blocks until ctx is done.
func (b *BlockingRanker) Rank(ctx context.Context) ([]domain.Prediction, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// Best blocks until ctx is done.
func (b *BlockingRanker) Best(ctx context.Context) (domain.Prediction, bool, error) {
	<-ctx.Done()
	return domain.Prediction{}, false, ctx.Err()
}

// Validate always succeeds.
func (b *BlockingRanker) Validate() error { return nil }
