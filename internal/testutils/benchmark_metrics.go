package testutils

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// MatchMetrics captures accuracy and latency for a benchmark run.
// It is safe for concurrent use.
type MatchMetrics struct {
	mu sync.Mutex

	total   int
	correct int
	wrong   int
	noMatch int
	failed  int

	// byNoise holds [correct, total] per noise kind.
	byNoise   map[string][2]int
	latencies []time.Duration
}

// NewMatchMetrics creates an empty collector.
func NewMatchMetrics() *MatchMetrics {
	return &MatchMetrics{byNoise: make(map[string][2]int)}
}

// RecordMatch records one case. predicted is ignored when matched is false
// or err is non-nil.
func (m *MatchMetrics) RecordMatch(c MatchCase, predicted string, matched bool, latency time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.latencies = append(m.latencies, latency)

	counts := m.byNoise[c.Noise]
	counts[1]++

	switch {
	case err != nil:
		m.failed++
	case !matched:
		m.noMatch++
	case predicted == c.Expected:
		m.correct++
		counts[0]++
	default:
		m.wrong++
	}
	m.byNoise[c.Noise] = counts
}

// Total returns the number of recorded cases.
func (m *MatchMetrics) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// Accuracy returns the share of cases matched to their expected entry.
func (m *MatchMetrics) Accuracy() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ratio(m.correct, m.total)
}

// NoMatchRate returns the share of cases where no algorithm voted.
func (m *MatchMetrics) NoMatchRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ratio(m.noMatch, m.total)
}

// ErrorRate returns the share of cases that failed.
func (m *MatchMetrics) ErrorRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ratio(m.failed, m.total)
}

// AccuracyByNoise returns accuracy per noise kind.
func (m *MatchMetrics) AccuracyByNoise() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]float64, len(m.byNoise))
	for noise, counts := range m.byNoise {
		out[noise] = ratio(counts[0], counts[1])
	}
	return out
}

// LatencyPercentile returns the pth percentile latency, 0 < p <= 100.
func (m *MatchMetrics) LatencyPercentile(p float64) time.Duration {
	m.mu.Lock()
	sorted := slices.Clone(m.latencies)
	m.mu.Unlock()

	if len(sorted) == 0 {
		return 0
	}
	slices.Sort(sorted)

	index := int(float64(len(sorted)) * p / 100)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

// GenerateReport creates a human-readable report of the metrics.
func (m *MatchMetrics) GenerateReport() string {
	byNoise := m.AccuracyByNoise()
	p50, p95 := m.LatencyPercentile(50), m.LatencyPercentile(95)

	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder
	b.WriteString("=== Match Benchmark Report ===\n\n")
	fmt.Fprintf(&b, "Cases: %d\n", m.total)
	fmt.Fprintf(&b, "  Correct:  %.2f%%\n", ratio(m.correct, m.total)*100)
	fmt.Fprintf(&b, "  Wrong:    %.2f%%\n", ratio(m.wrong, m.total)*100)
	fmt.Fprintf(&b, "  No match: %.2f%%\n", ratio(m.noMatch, m.total)*100)
	fmt.Fprintf(&b, "  Errors:   %.2f%%\n", ratio(m.failed, m.total)*100)

	b.WriteString("\nAccuracy by noise:\n")
	for _, noise := range NoiseKinds {
		if acc, ok := byNoise[noise]; ok {
			fmt.Fprintf(&b, "  %-10s %.2f%%\n", noise, acc*100)
		}
	}

	fmt.Fprintf(&b, "\nLatency: p50=%v p95=%v\n", p50, p95)
	return b.String()
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
