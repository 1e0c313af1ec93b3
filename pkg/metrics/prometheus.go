// Package metrics provides Prometheus metrics for the insight pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the pipeline and its HTTP surface.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	recordsLoaded     *prometheus.CounterVec
	sourcesSkipped    *prometheus.CounterVec
	recordsNormalized prometheus.Counter
	recordsScored     prometheus.Counter
	duplicateIDs      prometheus.Counter
	pipelineRuns      prometheus.Counter
	pipelineFailures  *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec

	// Result cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// State gauges
	recordCount prometheus.Gauge
	lastRunUnix prometheus.Gauge
	sourceCount prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "insight",
		subsystem:        "pipeline",
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

	m.recordsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_loaded_total",
		Help:      "Records loaded per source",
	}, []string{"source"})

	m.sourcesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sources_skipped_total",
		Help:      "Sources skipped due to missing files or schema violations",
	}, []string{"source", "reason"})

	m.recordsNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_normalized_total",
		Help:      "Records produced by schema normalization",
	})

	m.recordsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_scored_total",
		Help:      "Records that received an impact score",
	})

	m.duplicateIDs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_customer_ids_total",
		Help:      "Duplicate customer ids observed across sources (kept, not deduplicated)",
	})

	m.pipelineRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Completed pipeline runs",
	})

	m.pipelineFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "failures_total",
		Help:      "Fatal pipeline failures by stage",
	}, []string{"stage"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Pipeline result cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Pipeline result cache misses",
	})

	m.recordCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_count",
		Help:      "Records in the most recent unified table",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the most recent successful run",
	})

	m.sourceCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_count",
		Help:      "Sources that loaded successfully in the most recent run",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration by endpoint and method",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})
}

// GetRegistry returns the registry backing the global manager, for serving
// metrics over HTTP.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

// RecordSourceLoaded counts records loaded from a source.
func RecordSourceLoaded(source string, n int) {
	globalManager.recordsLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordSourceSkipped counts a skipped source with a reason label.
func RecordSourceSkipped(source, reason string) {
	globalManager.sourcesSkipped.WithLabelValues(source, reason).Inc()
}

// RecordNormalized counts records produced by normalization.
func RecordNormalized(n int) {
	globalManager.recordsNormalized.Add(float64(n))
}

// RecordScored counts records that received an impact score.
func RecordScored(n int) {
	globalManager.recordsScored.Add(float64(n))
}

// RecordDuplicateID counts one duplicate customer id observation.
func RecordDuplicateID() {
	globalManager.duplicateIDs.Inc()
}

// RecordPipelineRun counts one completed run and stamps its time.
func RecordPipelineRun() {
	globalManager.pipelineRuns.Inc()
	globalManager.lastRunUnix.Set(float64(time.Now().Unix()))
}

// RecordPipelineFailure counts a fatal failure attributed to a stage.
func RecordPipelineFailure(stage string) {
	globalManager.pipelineFailures.WithLabelValues(stage).Inc()
}

// ObserveStageDuration records how long a pipeline stage took.
func ObserveStageDuration(stage string, d time.Duration) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordCacheHit counts a result cache hit.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss counts a result cache miss.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateRecordCount sets the size of the most recent unified table.
func UpdateRecordCount(n int) {
	globalManager.recordCount.Set(float64(n))
}

// UpdateSourceCount sets how many sources loaded in the most recent run.
func UpdateSourceCount(n int) {
	globalManager.sourceCount.Set(float64(n))
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// ObserveHTTPRequestDuration records an HTTP request duration.
func ObserveHTTPRequestDuration(endpoint, method string, d time.Duration) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}
