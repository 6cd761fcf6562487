// Package middleware provides cross-cutting concerns for the matcher.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-votematch/internal/ports"
)

const (
	namespace        = "votematch"
	componentLabel   = "component"
	unknownComponent = "unknown"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It provides real-time monitoring of ranking latency, scorer load, and
// voting outcomes.
type PrometheusMetrics struct {
	executionLatency *prometheus.HistogramVec
	eventCounter     *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
	scoreHistogram   *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all metrics with reg. Passing nil registers with the global default
// registry; a registry may only be used by one instance.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		executionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Execution time of ranking and voting operations.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"operation", componentLabel},
		),
		eventCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Scorer evaluations, predictions, votes, and abstentions.",
			},
			[]string{"metric", componentLabel},
		),
		systemGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "state",
				Help:      "Latest per-run values such as tally count and consensus size.",
			},
			[]string{"metric", componentLabel},
		),
		scoreHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "score",
				Help:      "Distribution of similarity scores such as per-algorithm winners.",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"metric", componentLabel},
		),
	}
}

func component(labels map[string]string) string {
	if c, ok := labels[componentLabel]; ok && c != "" {
		return c
	}
	return unknownComponent
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.executionLatency.WithLabelValues(operation, component(labels)).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters. Negative values are ignored since counters only grow.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	if value < 0 {
		return
	}
	pm.eventCounter.WithLabelValues(metric, component(labels)).Add(value)
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric, component(labels)).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in the score histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	pm.scoreHistogram.WithLabelValues(metric, component(labels)).Observe(value)
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
