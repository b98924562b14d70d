// Package metrics provides Prometheus metrics for the PALATE sensory
// analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingest pipeline
	batchesIngested  prometheus.Counter
	samplesProcessed prometheus.Counter
	samplesSkipped   prometheus.Counter
	parseErrors      prometheus.Counter
	batchLatency     prometheus.Histogram

	// Store and derived views
	storeSamples           prometheus.Gauge
	uniqueConsumers        prometheus.Gauge
	derivedRebuildDuration prometheus.Histogram
	derivedRebuildCount    prometheus.Counter
	derivedRebuildLastUnix prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// Process health
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "palate",
		subsystem:        "sensory",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.batchesIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_ingested_total",
		Help:      "Total number of successfully ingested score file batches",
	})

	m.samplesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_processed_total",
		Help:      "Total number of sample groups processed and stored",
	})

	m.samplesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_skipped_total",
		Help:      "Total number of sample groups skipped due to processing errors",
	})

	m.parseErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_errors_total",
		Help:      "Total number of uploaded files that failed to parse",
	})

	m.batchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_latency_milliseconds",
		Help:      "Histogram of end-to-end ingest batch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeSamples = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_samples",
		Help:      "Current number of samples held in the aggregate store",
	})

	m.uniqueConsumers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unique_consumers",
		Help:      "Unique consumer ids seen across all stored samples",
	})

	m.derivedRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "derived_rebuild_duration_milliseconds",
		Help:      "Histogram of derived-view rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.derivedRebuildCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "derived_rebuild_total",
		Help:      "Total number of derived-view rebuilds",
	})

	m.derivedRebuildLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "derived_rebuild_last_unix",
		Help:      "Unix timestamp of the last derived-view rebuild",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Total errors by component and error type",
	}, []string{"component", "error_type"})

	m.systemMemoryBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation of the process in bytes",
	})

	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Package-level helpers record against the global manager.

// RecordBatchIngested increments the ingested batch counter.
func RecordBatchIngested() {
	globalManager.batchesIngested.Inc()
}

// RecordSampleProcessed increments the processed sample counter.
func RecordSampleProcessed() {
	globalManager.samplesProcessed.Inc()
}

// RecordSampleSkipped increments the skipped sample counter.
func RecordSampleSkipped() {
	globalManager.samplesSkipped.Inc()
}

// RecordParseError increments the file parse error counter.
func RecordParseError() {
	globalManager.parseErrors.Inc()
}

// RecordBatchLatency records one ingest batch duration.
func RecordBatchLatency(latencyMs float64) {
	globalManager.batchLatency.Observe(latencyMs)
}

// UpdateStoreSamples sets the stored sample gauge.
func UpdateStoreSamples(count int) {
	globalManager.storeSamples.Set(float64(count))
}

// UpdateUniqueConsumers sets the unique consumer gauge.
func UpdateUniqueConsumers(count int) {
	globalManager.uniqueConsumers.Set(float64(count))
}

// RecordDerivedRebuild records one derived-view rebuild.
func RecordDerivedRebuild(durationMs float64) {
	globalManager.derivedRebuildDuration.Observe(durationMs)
	globalManager.derivedRebuildCount.Inc()
	globalManager.derivedRebuildLastUnix.SetToCurrentTime()
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent counts one component error.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryBytes.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutines.Set(float64(count))
}

// GetRegistry returns the custom registry backing the global manager,
// for exposition handlers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
