// Package metrics provides Prometheus metrics for the courtvision session service.
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
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Session lifecycle
	sessionsStarted  prometheus.Counter
	sessionsRejected *prometheus.CounterVec
	sessionsArchived prometheus.Counter
	sessionsEmpty    prometheus.Counter
	sessionActive    prometheus.Gauge
	historySize      prometheus.Gauge

	// Shot ingestion
	shotsIngested *prometheus.CounterVec
	shotsDropped  *prometheus.CounterVec

	// Producer marshalling queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueDequeued    prometheus.Counter
	queueRejected    *prometheus.CounterVec
	ingestLatency    prometheus.Histogram
	collaboratorErrs *prometheus.CounterVec

	// Frame source
	framesProduced prometheus.Counter
	framesDropped  prometheus.Counter

	// Insights collaborator
	insightsLatency prometheus.Histogram
	insightsErrors  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "courtvision",
		subsystem:        "session",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often callers should refresh gauge metrics.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.sessionsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "started_total",
		Help: "Total number of sessions started",
	})
	m.sessionsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "rejected_total",
		Help: "Session start attempts refused, by reason",
	}, []string{"reason"})
	m.sessionsArchived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "archived_total",
		Help: "Sessions ended with at least one attempt and archived to history",
	})
	m.sessionsEmpty = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "empty_total",
		Help: "Sessions ended without any attempts (not archived)",
	})
	m.sessionActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "active",
		Help: "1 while a session is active, 0 otherwise",
	})
	m.historySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_size",
		Help: "Number of archived session records",
	})

	m.shotsIngested = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "shots_ingested_total",
		Help: "Shot events aggregated into an active session",
	}, []string{"result", "distance"})
	m.shotsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "shots_dropped_total",
		Help: "Shot events dropped before aggregation, by reason",
	}, []string{"reason"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of shot submissions waiting for the session owner",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured capacity of the shot submission queue",
	})
	m.queueEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueued_total",
		Help: "Shot submissions accepted by the queue",
	})
	m.queueDequeued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeued_total",
		Help: "Shot submissions handed to the session owner",
	})
	m.queueRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_rejected_total",
		Help: "Shot submissions refused by the queue, by reason",
	}, []string{"reason"})
	m.ingestLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "ingest_latency_milliseconds",
		Help:    "Time from enqueue to aggregation of a detected shot",
		Buckets: m.histogramBuckets,
	})
	m.collaboratorErrs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "collaborator_errors_total",
		Help: "Failures reported by external collaborators, by collaborator",
	}, []string{"collaborator"})

	m.framesProduced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "frames_produced_total",
		Help: "Frames produced by the frame source",
	})
	m.framesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "frames_dropped_total",
		Help: "Frames dropped because the detector was still busy",
	})

	m.insightsLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "insights_latency_milliseconds",
		Help:    "Latency of insights fetches in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 400, 500, 1000, 2500, 5000},
	})
	m.insightsErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "insights_errors_total",
		Help: "Insights fetches that failed",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordSessionStarted increments the started sessions counter.
func RecordSessionStarted() {
	globalManager.sessionsStarted.Inc()
	globalManager.sessionActive.Set(1)
}

// RecordSessionRejected counts a refused session start.
func RecordSessionRejected(reason string) {
	globalManager.sessionsRejected.WithLabelValues(reason).Inc()
}

// RecordSessionEnded records the end of a session; archived is false for
// sessions that had no attempts.
func RecordSessionEnded(archived bool) {
	globalManager.sessionActive.Set(0)
	if archived {
		globalManager.sessionsArchived.Inc()
		return
	}
	globalManager.sessionsEmpty.Inc()
}

// UpdateHistorySize sets the number of archived records.
func UpdateHistorySize(n int) {
	globalManager.historySize.Set(float64(n))
}

// RecordShotIngested counts a shot aggregated into the active session.
func RecordShotIngested(result, distance string) {
	globalManager.shotsIngested.WithLabelValues(result, distance).Inc()
}

// RecordShotDropped counts a shot dropped before aggregation.
func RecordShotDropped(reason string) {
	globalManager.shotsDropped.WithLabelValues(reason).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueRejected counts a refused enqueue.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordIngestLatency observes enqueue-to-aggregation latency.
func RecordIngestLatency(latencyMs float64) {
	globalManager.ingestLatency.Observe(latencyMs)
}

// RecordCollaboratorError counts a failure from an external collaborator.
func RecordCollaboratorError(collaborator string) {
	globalManager.collaboratorErrs.WithLabelValues(collaborator).Inc()
}

// RecordFrameProduced counts a frame produced by the frame source.
func RecordFrameProduced() {
	globalManager.framesProduced.Inc()
}

// RecordFrameDropped counts a frame the detector could not take.
func RecordFrameDropped() {
	globalManager.framesDropped.Inc()
}

// RecordInsightsLatency observes the latency of an insights fetch.
func RecordInsightsLatency(latencyMs float64) {
	globalManager.insightsLatency.Observe(latencyMs)
}

// RecordInsightsError counts a failed insights fetch.
func RecordInsightsError() {
	globalManager.insightsErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RefreshInterval is how often polled gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// SetRefreshInterval changes the polling interval; non-positive values are
// ignored. Call it before starting any refresher.
func SetRefreshInterval(d time.Duration) {
	WithRefreshInterval(d)(globalManager)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
