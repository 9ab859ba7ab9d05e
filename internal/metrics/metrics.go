// Package metrics exposes Prometheus instrumentation for flowforge.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for flowforge
type Metrics struct {
	// Workflow transition metrics
	Transitions       *prometheus.CounterVec
	TransitionsDenied *prometheus.CounterVec

	// Dependency graph metrics
	GraphEdges   prometheus.Gauge
	CycleRejects prometheus.Counter
	EdgesAdded   prometheus.Counter
	EdgesRemoved prometheus.Counter

	// Critical-path analysis metrics
	PathComputations prometheus.Counter
	PathDuration     prometheus.Histogram
	PathLength       prometheus.Histogram

	// Queue metrics
	QueueOrderings     prometheus.Counter
	QueueDuration      prometheus.Histogram
	UrgentEscalations  prometheus.Counter
	CapacitySelections prometheus.Counter

	// Item lifecycle metrics
	ItemsCreated *prometheus.CounterVec
	ItemsTotal   prometheus.Gauge

	// HTTP API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Error metrics (by code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowforge_transitions_total",
				Help: "Total number of workflow transitions applied",
			},
			[]string{"from", "to"},
		),
		TransitionsDenied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowforge_transitions_denied_total",
				Help: "Total number of rejected workflow transitions",
			},
			[]string{"from", "to"},
		),

		GraphEdges: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "flowforge_graph_edges",
				Help: "Current number of dependency edges",
			},
		),
		CycleRejects: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowforge_graph_cycle_rejects_total",
				Help: "Total number of dependency edges rejected for closing a cycle",
			},
		),
		EdgesAdded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowforge_graph_edges_added_total",
				Help: "Total number of dependency edges added",
			},
		),
		EdgesRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowforge_graph_edges_removed_total",
				Help: "Total number of dependency edges removed",
			},
		),

		PathComputations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowforge_path_computations_total",
				Help: "Total number of critical-path computations",
			},
		),
		PathDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flowforge_path_duration_seconds",
				Help:    "Critical-path computation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		PathLength: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flowforge_path_length_items",
				Help:    "Number of items on computed critical paths",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
			},
		),

		QueueOrderings: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowforge_queue_orderings_total",
				Help: "Total number of queue ordering runs",
			},
		),
		QueueDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flowforge_queue_duration_seconds",
				Help:    "Queue ordering duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		UrgentEscalations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowforge_queue_urgent_escalations_total",
				Help: "Total number of items hoisted to the front of the queue",
			},
		),
		CapacitySelections: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flowforge_queue_capacity_selections_total",
				Help: "Total number of capacity-aware selections",
			},
		),

		ItemsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowforge_items_created_total",
				Help: "Total number of work items created",
			},
			[]string{"type", "priority"},
		),
		ItemsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "flowforge_items",
				Help: "Current number of work items",
			},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowforge_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowforge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowforge_errors_total",
				Help: "Total number of errors by code",
			},
			[]string{"code"},
		),
	}
}

// RecordTransition records an applied workflow transition
func (m *Metrics) RecordTransition(from, to string) {
	m.Transitions.WithLabelValues(from, to).Inc()
}

// RecordTransitionDenied records a rejected workflow transition
func (m *Metrics) RecordTransitionDenied(from, to string) {
	m.TransitionsDenied.WithLabelValues(from, to).Inc()
}

// RecordPathComputation records one critical-path computation
func (m *Metrics) RecordPathComputation(duration time.Duration, length int) {
	m.PathComputations.Inc()
	m.PathDuration.Observe(duration.Seconds())
	m.PathLength.Observe(float64(length))
}

// RecordQueueOrdering records one queue ordering run
func (m *Metrics) RecordQueueOrdering(duration time.Duration, urgent int) {
	m.QueueOrderings.Inc()
	m.QueueDuration.Observe(duration.Seconds())
	m.UrgentEscalations.Add(float64(urgent))
}

// RecordError records an error by its structured code
func (m *Metrics) RecordError(code string) {
	m.Errors.WithLabelValues(code).Inc()
}
