package testutils

import (
	"sync"
	"time"
)

// RecordingMetrics implements ports.MetricsCollector and keeps every value
// in memory for assertions. It is safe for concurrent use.
type RecordingMetrics struct {
	mu         sync.Mutex
	counters   map[string]float64
	gauges     map[string]float64
	latencies  map[string]int
	histograms map[string][]float64
}

// NewRecordingMetrics creates an empty RecordingMetrics.
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		latencies:  make(map[string]int),
		histograms: make(map[string][]float64),
	}
}

// RecordLatency counts latency observations per operation.
func (m *RecordingMetrics) RecordLatency(operation string, _ time.Duration, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies[operation]++
}

// RecordCounter accumulates counter increments.
func (m *RecordingMetrics) RecordCounter(metric string, value float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[metric] += value
}

// RecordGauge keeps the last gauge value.
func (m *RecordingMetrics) RecordGauge(metric string, value float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[metric] = value
}

// RecordHistogram keeps every observation.
func (m *RecordingMetrics) RecordHistogram(metric string, value float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms[metric] = append(m.histograms[metric], value)
}

// Counter returns the accumulated value of a counter.
func (m *RecordingMetrics) Counter(metric string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[metric]
}

// Gauge returns the last value of a gauge.
func (m *RecordingMetrics) Gauge(metric string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[metric]
}

// LatencyCount returns how many latencies were recorded for operation.
func (m *RecordingMetrics) LatencyCount(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latencies[operation]
}

// Histogram returns a copy of the observations for metric.
func (m *RecordingMetrics) Histogram(metric string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.histograms[metric]...)
}
