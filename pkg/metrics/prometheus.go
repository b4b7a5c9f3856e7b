// Package metrics provides Prometheus metrics for the wordscore service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	pointsBuckets    []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Scoring
	scoresComputed     prometheus.Counter
	scoresCreated      prometheus.Counter
	scoresDeleted      prometheus.Counter
	unsupportedLetters prometheus.Counter
	scorePoints        prometheus.Histogram
	idempotentReplays  prometheus.Counter

	// Leaderboard
	leaderboardQueries  prometheus.Counter
	leaderboardRejected *prometheus.CounterVec

	// Repository
	repositoryRecordsTotal  prometheus.Gauge
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram
	repositoryErrors        *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// The package-level recorders write to the current global manager, which
// Configure may swap at startup.
var (
	globalManager  atomic.Pointer[Manager]             //nolint:gochecknoglobals // singleton used by package-level recorders
	customRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // served by /healthz
)

func init() { //nolint:gochecknoinits // global metrics setup
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// registry, so it can be called again without duplicate registrations.
// Handlers built from GetRegistry before the call keep the old registry;
// call it before wiring HTTP routes.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(reg))...)
	customRegistry.Store(reg)
	globalManager.Store(m)
}

func current() *Manager { return globalManager.Load() }

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wordscore",
		subsystem:        "scores",
		histogramBuckets: prometheus.DefBuckets,
		pointsBuckets:    []float64{1, 2, 4, 6, 8, 10, 15, 20, 30, 50, 100},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.scoresComputed = auto.NewCounter(m.counterOpts("computed_total",
		"Total number of successful score computations"))
	m.scoresCreated = auto.NewCounter(m.counterOpts("created_total",
		"Total number of persisted score records"))
	m.scoresDeleted = auto.NewCounter(m.counterOpts("deleted_total",
		"Total number of score records removed"))
	m.unsupportedLetters = auto.NewCounter(m.counterOpts("unsupported_letters_total",
		"Total number of submissions rejected for an unsupported letter"))
	m.scorePoints = auto.NewHistogram(m.histogramOpts("points",
		"Distribution of computed points per submission", m.pointsBuckets))
	m.idempotentReplays = auto.NewCounter(m.counterOpts("idempotent_replays_total",
		"Total number of submissions answered from an earlier idempotency key"))

	m.leaderboardQueries = auto.NewCounter(m.counterOpts("leaderboard_queries_total",
		"Total number of leaderboard pages served"))
	m.leaderboardRejected = auto.NewCounterVec(m.counterOpts("leaderboard_rejected_total",
		"Total number of leaderboard queries rejected by validation"), []string{"reason"})

	m.repositoryRecordsTotal = auto.NewGauge(m.gaugeOpts("repository_records_total",
		"Total number of stored score records"))
	m.repositoryUpdateLatency = auto.NewHistogram(m.histogramOpts("repository_update_latency_milliseconds",
		"Repository write latency in milliseconds", m.histogramBuckets))
	m.repositoryQueryLatency = auto.NewHistogram(m.histogramOpts("repository_query_latency_milliseconds",
		"Repository read latency in milliseconds", m.histogramBuckets))
	m.repositoryErrors = auto.NewCounterVec(m.counterOpts("repository_errors_total",
		"Total number of repository failures by operation"), []string{"operation"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.rateLimited = auto.NewCounterVec(m.counterOpts("rate_limited_total",
		"Total number of requests rejected by the rate limiter"), []string{"method"})

	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.histogramBuckets), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordScoreComputed counts a successful computation and observes its points.
func (m *Manager) RecordScoreComputed(points int) {
	if !m.enabled {
		return
	}
	m.scoresComputed.Inc()
	m.scorePoints.Observe(float64(points))
}

// RecordScoreCreated counts a persisted record.
func (m *Manager) RecordScoreCreated() {
	if m.enabled {
		m.scoresCreated.Inc()
	}
}

// RecordScoresDeleted adds n removed records.
func (m *Manager) RecordScoresDeleted(n int) {
	if m.enabled && n > 0 {
		m.scoresDeleted.Add(float64(n))
	}
}

// RecordUnsupportedLetter counts a rejected submission.
func (m *Manager) RecordUnsupportedLetter() {
	if m.enabled {
		m.unsupportedLetters.Inc()
	}
}

// RecordIdempotentReplay counts a replayed submission.
func (m *Manager) RecordIdempotentReplay() {
	if m.enabled {
		m.idempotentReplays.Inc()
	}
}

// RecordLeaderboardQuery counts a served page.
func (m *Manager) RecordLeaderboardQuery() {
	if m.enabled {
		m.leaderboardQueries.Inc()
	}
}

// RecordLeaderboardRejected counts a query failing validation.
func (m *Manager) RecordLeaderboardRejected(reason string) {
	if m.enabled {
		m.leaderboardRejected.WithLabelValues(reason).Inc()
	}
}

// UpdateRepositoryRecordsTotal sets the number of stored records.
func (m *Manager) UpdateRepositoryRecordsTotal(count int) {
	if m.enabled {
		m.repositoryRecordsTotal.Set(float64(count))
	}
}

// RecordRepositoryUpdateLatency records a write latency.
func (m *Manager) RecordRepositoryUpdateLatency(latencyMs float64) {
	if m.enabled {
		m.repositoryUpdateLatency.Observe(latencyMs)
	}
}

// RecordRepositoryQueryLatency records a read latency.
func (m *Manager) RecordRepositoryQueryLatency(latencyMs float64) {
	if m.enabled {
		m.repositoryQueryLatency.Observe(latencyMs)
	}
}

// RecordRepositoryError counts a failed repository operation.
func (m *Manager) RecordRepositoryError(operation string) {
	if m.enabled {
		m.repositoryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordHTTPRequest records an HTTP request with its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts a throttled request.
func (m *Manager) RecordRateLimited(method string) {
	if m.enabled {
		m.rateLimited.WithLabelValues(method).Inc()
	}
}

// RecordHTTPError records a failed request by endpoint, type and severity.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorLatency.WithLabelValues("http", errorType).Observe(durationMs)
}

// UpdateSystem sets process gauges and observes the average GC pause.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Package-level recorders delegate to the global manager.

// RecordScoreComputed counts a successful computation and observes its points.
func RecordScoreComputed(points int) { current().RecordScoreComputed(points) }

// RecordScoreCreated counts a persisted record.
func RecordScoreCreated() { current().RecordScoreCreated() }

// RecordScoresDeleted adds n removed records.
func RecordScoresDeleted(n int) { current().RecordScoresDeleted(n) }

// RecordUnsupportedLetter counts a rejected submission.
func RecordUnsupportedLetter() { current().RecordUnsupportedLetter() }

// RecordIdempotentReplay counts a replayed submission.
func RecordIdempotentReplay() { current().RecordIdempotentReplay() }

// RecordLeaderboardQuery counts a served page.
func RecordLeaderboardQuery() { current().RecordLeaderboardQuery() }

// RecordLeaderboardRejected counts a query failing validation.
func RecordLeaderboardRejected(reason string) { current().RecordLeaderboardRejected(reason) }

// UpdateRepositoryRecordsTotal sets the number of stored records.
func UpdateRepositoryRecordsTotal(count int) { current().UpdateRepositoryRecordsTotal(count) }

// RecordRepositoryUpdateLatency records a write latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	current().RecordRepositoryUpdateLatency(latencyMs)
}

// RecordRepositoryQueryLatency records a read latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	current().RecordRepositoryQueryLatency(latencyMs)
}

// RecordRepositoryError counts a failed repository operation.
func RecordRepositoryError(operation string) { current().RecordRepositoryError(operation) }

// RecordHTTPRequest records an HTTP request with its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	current().RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordRateLimited counts a throttled request.
func RecordRateLimited(method string) { current().RecordRateLimited(method) }

// RecordHTTPError records a failed request.
func RecordHTTPError(endpoint, method, errorType, severity string, durationMs float64) {
	current().RecordHTTPError(endpoint, method, errorType, severity, durationMs)
}

// UpdateSystem sets process gauges.
func UpdateSystem(memBytes uint64, goroutines int, avgGCPauseMs float64) {
	current().UpdateSystem(memBytes, goroutines, avgGCPauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry.Load()
}
