// SPDX-License-Identifier: MIT

package calc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "lvgst"
	metricsSubsystem = "calc"
)

// Metrics holds the Prometheus instruments of bulk evaluation.
//
// Labels: op (product, dproduct, hproduct, probs, dprobs, hprobs).
type Metrics struct {
	// BulkCalls counts bulk calls by operation.
	BulkCalls *prometheus.CounterVec

	// BulkDuration measures wall time of bulk calls by operation.
	BulkDuration *prometheus.HistogramVec

	// NodesEvaluated counts tree nodes evaluated across all tasks.
	NodesEvaluated prometheus.Counter

	// Rescales counts running-product renormalizations.
	Rescales prometheus.Counter
}

// NewMetrics creates and registers the calculator metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		BulkCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "bulk_calls_total",
			Help:      "Bulk calculator calls by operation",
		}, []string{"op"}),
		BulkDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "bulk_duration_seconds",
			Help:      "Wall time of bulk calculator calls",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
		}, []string{"op"}),
		NodesEvaluated: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "nodes_evaluated_total",
			Help:      "Evaluation-tree nodes evaluated",
		}),
		Rescales: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "rescales_total",
			Help:      "Running-product renormalizations",
		}),
	}
}

func (m *Metrics) observe(op string, start time.Time) {
	if m == nil {
		return
	}
	m.BulkCalls.WithLabelValues(op).Inc()
	m.BulkDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) nodes(n, rescales int) {
	if m == nil {
		return
	}
	m.NodesEvaluated.Add(float64(n))
	m.Rescales.Add(float64(rescales))
}
