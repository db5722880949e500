package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for meeting operations.
type Metrics struct {
	OperationsTotal  *prometheus.CounterVec
	OperationSeconds *prometheus.HistogramVec
	SegmentsTotal    prometheus.Counter
	ExportsTotal     *prometheus.CounterVec
	ExportBytes      *prometheus.HistogramVec
	MinutesPreviews  prometheus.Counter

	gatherer prometheus.Gatherer
}

var (
	registry     = prometheus.NewRegistry()
	defaultOnce  sync.Once
	defaultStore *Metrics
)

// Default returns the process-wide metrics, registered on Registry().
func Default() *Metrics {
	defaultOnce.Do(func() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		defaultStore = NewMetrics(registry)
	})
	return defaultStore
}

// Registry returns the registry backing Default().
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return Default().Handler()
}

// Handler serves the registry m was created on. Metrics created on a
// Registerer that cannot be gathered fall back to the default registry.
func (m *Metrics) Handler() http.Handler {
	g := m.gatherer
	if g == nil {
		Default()
		g = registry
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// NewMetrics creates a new set of metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callsnap_operations_total",
				Help: "Total meeting operations by outcome",
			},
			[]string{"operation", "status"},
		),
		OperationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "callsnap_operation_seconds",
				Help:    "Meeting operation latency",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"operation"},
		),
		SegmentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "callsnap_segments_generated_total",
				Help: "Transcript segments produced by processing runs",
			},
		),
		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callsnap_exports_total",
				Help: "Rendered exports by format",
			},
			[]string{"format"},
		),
		ExportBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "callsnap_export_bytes",
				Help:    "Size of rendered export payloads",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"format"},
		),
		MinutesPreviews: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "callsnap_minutes_previews_total",
				Help: "Minutes previews built, one per participant",
			},
		),
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// RecordOperation records the outcome and latency of an operation.
func (m *Metrics) RecordOperation(operation, status string, seconds float64) {
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationSeconds.WithLabelValues(operation).Observe(seconds)
}

// RecordSegments adds n generated segments.
func (m *Metrics) RecordSegments(n int) {
	m.SegmentsTotal.Add(float64(n))
}

// RecordExport records one rendered export.
func (m *Metrics) RecordExport(format string, size int) {
	m.ExportsTotal.WithLabelValues(format).Inc()
	m.ExportBytes.WithLabelValues(format).Observe(float64(size))
}

// RecordMinutes records n built previews.
func (m *Metrics) RecordMinutes(n int) {
	m.MinutesPreviews.Add(float64(n))
}
