// Package metrics provides Prometheus metrics for the scouting ingestion service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultSampleInterval = 10 * time.Second
	batchBucketStart      = 1
	batchBucketFactor     = 2
	batchBucketCount      = 10
)

// Manager manages all Prometheus metrics for the ingestion service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	batchBuckets   []float64
	systemSampling bool
	sampleInterval time.Duration
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Ingestion metrics
	submissionsApplied *prometheus.CounterVec
	submissionsFailed  *prometheus.CounterVec
	aggregatesCreated  *prometheus.CounterVec
	imageUpserts       prometheus.Counter
	unitLatency        *prometheus.HistogramVec
	lockWaitLatency    prometheus.Histogram
	acquireTimeouts    prometheus.Counter
	teamsTracked       prometheus.Gauge
	massBatchSize      prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Store bootstrap
	storeRecoveries *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "specialscout",
		subsystem:      "ingest",
		latencyBuckets: DefaultLatencyBuckets,
		batchBuckets:   prometheus.ExponentialBuckets(batchBucketStart, batchBucketFactor, batchBucketCount),
		systemSampling: true,
		sampleInterval: defaultSampleInterval,
		constLabels:    make(map[string]string),
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.constLabels)

	m.submissionsApplied = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_applied_total",
		Help:        "Total number of submissions committed, by record kind",
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.submissionsFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_failed_total",
		Help:        "Total number of submissions rejected, by failure kind",
		ConstLabels: constLabels,
	}, []string{"reason"})

	m.aggregatesCreated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "aggregates_created_total",
		Help:        "Total number of team aggregates seeded, by the record kind that seeded them",
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.imageUpserts = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "image_upserts_total",
		Help:        "Total number of team images written",
		ConstLabels: constLabels,
	})

	m.unitLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unit_duration_milliseconds",
		Help:        "Duration of one unit of work from lock to commit, in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	}, []string{"kind"})

	m.lockWaitLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_lock_wait_milliseconds",
		Help:        "Time spent waiting for the per-team lock, in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	})

	m.acquireTimeouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "acquire_timeouts_total",
		Help:        "Total number of submissions that could not obtain a lock or connection in time",
		ConstLabels: constLabels,
	})

	m.teamsTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "teams_tracked",
		Help:        "Number of teams with an aggregate row",
		ConstLabels: constLabels,
	})

	m.massBatchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "mass_batch_size",
		Help:        "Number of records per mass submission",
		Buckets:     m.batchBuckets,
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.latencyBuckets,
			ConstLabels: constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP error responses by endpoint and error type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "type"})

	m.storeRecoveries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        "recoveries_total",
		Help:        "Database files replaced at startup, by outcome",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap memory in use, in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutine_count",
		Help:        "Current number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Most recent GC pause, in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	})
}

// RecordSubmissionApplied counts a committed submission of the given kind.
func RecordSubmissionApplied(kind string) {
	globalManager.submissionsApplied.WithLabelValues(kind).Inc()
}

// RecordSubmissionFailed counts a rejected submission by failure reason.
func RecordSubmissionFailed(reason string) {
	globalManager.submissionsFailed.WithLabelValues(reason).Inc()
}

// RecordAggregateCreated counts a newly seeded aggregate.
func RecordAggregateCreated(kind string) {
	globalManager.aggregatesCreated.WithLabelValues(kind).Inc()
}

// RecordImageUpsert counts a team image write.
func RecordImageUpsert() {
	globalManager.imageUpserts.Inc()
}

// RecordUnitLatency records unit-of-work latency in milliseconds.
func RecordUnitLatency(kind string, latencyMs float64) {
	globalManager.unitLatency.WithLabelValues(kind).Observe(latencyMs)
}

// RecordLockWait records per-team lock wait time in milliseconds.
func RecordLockWait(latencyMs float64) {
	globalManager.lockWaitLatency.Observe(latencyMs)
}

// RecordAcquireTimeout counts a lock or connection acquisition timeout.
func RecordAcquireTimeout() {
	globalManager.acquireTimeouts.Inc()
}

// UpdateTeamsTracked sets the number of aggregate rows.
func UpdateTeamsTracked(count int) {
	globalManager.teamsTracked.Set(float64(count))
}

// RecordMassBatchSize records the size of a mass submission.
func RecordMassBatchSize(n int) {
	globalManager.massBatchSize.Observe(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordStoreRecovery counts a startup recovery of the database file.
func RecordStoreRecovery(outcome string) {
	globalManager.storeRecoveries.WithLabelValues(outcome).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
