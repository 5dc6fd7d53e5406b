// Package metrics provides Prometheus metrics for the pizzarank service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Ratings
	ratingsSubmitted prometheus.Counter
	ratingsRejected  *prometheus.CounterVec

	// Identity codes
	codesIssued     prometheus.Counter
	codeAttempts    prometheus.Histogram
	codeValidations *prometheus.CounterVec
	displayNamesSet prometheus.Counter

	// Leaderboard
	leaderboardComputations prometheus.Counter
	leaderboardLatency      prometheus.Histogram
	leaderboardCache        *prometheus.CounterVec
	userStatsComputations   prometheus.Counter

	// Totals
	identitiesTotal  prometheus.Gauge
	ratingsTotal     prometheus.Gauge
	spotsTotal       prometheus.Gauge
	rankedSpotsTotal prometheus.Gauge

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
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
		namespace:        "pizzarank",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often gauges should be refreshed by the caller.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.ratingsSubmitted = auto.NewCounter(m.counterOpts("ratings_submitted_total", "Total number of ratings stored (new or replaced)"))
	m.ratingsRejected = auto.NewCounterVec(m.counterOpts("ratings_rejected_total", "Total number of rejected rating submissions by reason"), []string{"reason"})

	m.codesIssued = auto.NewCounter(m.counterOpts("codes_issued_total", "Total number of identity codes issued"))
	m.codeAttempts = auto.NewHistogram(m.histogramOpts("code_generation_attempts", "Candidates generated per issued code", []float64{1, 2, 3, 4, 8, 16, 32}))
	m.codeValidations = auto.NewCounterVec(m.counterOpts("code_validations_total", "Code validations by outcome"), []string{"outcome"})
	m.displayNamesSet = auto.NewCounter(m.counterOpts("display_names_set_total", "Total number of display name updates"))

	m.leaderboardComputations = auto.NewCounter(m.counterOpts("leaderboard_computations_total", "Total number of leaderboard recomputations"))
	m.leaderboardLatency = auto.NewHistogram(m.histogramOpts("leaderboard_compute_milliseconds", "Leaderboard recomputation latency in milliseconds", m.histogramBuckets))
	m.leaderboardCache = auto.NewCounterVec(m.counterOpts("leaderboard_cache_total", "Leaderboard cache lookups by result"), []string{"result"})
	m.userStatsComputations = auto.NewCounter(m.counterOpts("user_stats_computations_total", "Total number of user stats computations"))

	m.identitiesTotal = auto.NewGauge(m.gaugeOpts("identities", "Number of known identity codes"))
	m.ratingsTotal = auto.NewGauge(m.gaugeOpts("ratings", "Number of live ratings"))
	m.spotsTotal = auto.NewGauge(m.gaugeOpts("spots", "Number of spots in the catalog"))
	m.rankedSpotsTotal = auto.NewGauge(m.gaugeOpts("ranked_spots", "Number of spots with at least one rating"))

	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_latency_milliseconds", "Store operation latency in milliseconds", m.histogramBuckets), []string{"driver", "op"})
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total", "Store operation failures"), []string{"driver", "op"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Total number of errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds", "Latency of failed operations in milliseconds", m.histogramBuckets), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Current memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Current number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordRatingSubmitted increments the stored ratings counter.
func RecordRatingSubmitted() {
	if globalManager.enabled {
		globalManager.ratingsSubmitted.Inc()
	}
}

// RecordRatingRejected counts a rejected submission by reason.
func RecordRatingRejected(reason string) {
	if globalManager.enabled {
		globalManager.ratingsRejected.WithLabelValues(reason).Inc()
	}
}

// RecordCodeIssued counts an issued code and how many candidates it took.
func RecordCodeIssued(attempts int) {
	if globalManager.enabled {
		globalManager.codesIssued.Inc()
		globalManager.codeAttempts.Observe(float64(attempts))
	}
}

// RecordCodeValidation counts a validation by outcome (valid, invalid, noop, error).
func RecordCodeValidation(outcome string) {
	if globalManager.enabled {
		globalManager.codeValidations.WithLabelValues(outcome).Inc()
	}
}

// RecordDisplayNameSet counts a display name update.
func RecordDisplayNameSet() {
	if globalManager.enabled {
		globalManager.displayNamesSet.Inc()
	}
}

// RecordLeaderboardComputation records one recomputation and its latency.
func RecordLeaderboardComputation(latencyMs float64) {
	if globalManager.enabled {
		globalManager.leaderboardComputations.Inc()
		globalManager.leaderboardLatency.Observe(latencyMs)
	}
}

// RecordLeaderboardCache counts a cache lookup result (hit, miss, error).
func RecordLeaderboardCache(result string) {
	if globalManager.enabled {
		globalManager.leaderboardCache.WithLabelValues(result).Inc()
	}
}

// RecordUserStatsComputation counts one user stats computation.
func RecordUserStatsComputation() {
	if globalManager.enabled {
		globalManager.userStatsComputations.Inc()
	}
}

// UpdateIdentitiesTotal sets the known identities gauge.
func UpdateIdentitiesTotal(count int) {
	globalManager.identitiesTotal.Set(float64(count))
}

// UpdateRatingsTotal sets the live ratings gauge.
func UpdateRatingsTotal(count int) {
	globalManager.ratingsTotal.Set(float64(count))
}

// UpdateSpotsTotal sets the catalog size gauge.
func UpdateSpotsTotal(count int) {
	globalManager.spotsTotal.Set(float64(count))
}

// UpdateRankedSpotsTotal sets the ranked spots gauge.
func UpdateRankedSpotsTotal(count int) {
	globalManager.rankedSpotsTotal.Set(float64(count))
}

// RecordStoreLatency records one store operation.
func RecordStoreLatency(driver, op string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.storeLatency.WithLabelValues(driver, op).Observe(latencyMs)
	}
}

// RecordStoreError counts one failed store operation.
func RecordStoreError(driver, op string) {
	if globalManager.enabled {
		globalManager.storeErrors.WithLabelValues(driver, op).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorLatency records error latency.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
	}
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
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

// Global returns the process-wide manager.
func Global() *Manager {
	return globalManager
}
