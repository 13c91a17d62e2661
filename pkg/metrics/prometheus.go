// Package metrics provides Prometheus metrics for the weekplan service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets are milliseconds; store calls are remote round-trips.
var latencyBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// Manager owns every metric the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Mutation orchestration
	mutations          *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	submissionsBlocked prometheus.Counter

	// Invalidation
	invalidations      *prometheus.CounterVec
	projectionRebuilds *prometheus.CounterVec
	staleServes        *prometheus.CounterVec
	rollovers          prometheus.Counter

	// Signal fan-out
	signalQueueSize     prometheus.Gauge
	signalQueueCapacity prometheus.Gauge
	signalsEnqueued     prometheus.Counter
	signalsDropped      *prometheus.CounterVec
	signalsDelivered    *prometheus.CounterVec
	dispatchWorkers     prometheus.Gauge

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	recordsTotal *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

// customRegistry keeps Go runtime collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared registry

func init() { //nolint:gochecknoinits // package-level helpers need a manager from the start
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "weekplan",
		subsystem:        "planner",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)

	m.mutations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mutations_total",
		Help:      "Store mutations by collection, operation and outcome",
	}, []string{"collection", "op", "outcome"})

	m.validationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Submissions rejected before reaching the store",
	}, []string{"collection", "reason"})

	m.submissionsBlocked = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_blocked_total",
		Help:      "Submits refused because the form session already had one pending",
	})

	m.invalidations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "invalidations_total",
		Help:      "Views declared stale",
	}, []string{"view"})

	m.projectionRebuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projection_rebuilds_total",
		Help:      "Projections recomputed from the store on read",
	}, []string{"view"})

	m.staleServes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_serves_total",
		Help:      "Reads answered from the last loaded value after a failed reload",
	}, []string{"view"})

	m.rollovers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "day_rollovers_total",
		Help:      "Midnight rollovers of the today views",
	})

	m.signalQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signal_queue_size",
		Help:      "Invalidation signals waiting for dispatch",
	})

	m.signalQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signal_queue_capacity",
		Help:      "Maximum queued invalidation signals",
	})

	m.signalsEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signals_enqueued_total",
		Help:      "Invalidation signals accepted by the queue",
	})

	m.signalsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signals_dropped_total",
		Help:      "Invalidation signals dropped before dispatch",
	}, []string{"reason"})

	m.signalsDelivered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signals_delivered_total",
		Help:      "Invalidation signals handed to a sink",
	}, []string{"sink", "outcome"})

	m.dispatchWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_workers",
		Help:      "Running signal dispatch workers",
	})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_ms",
		Help:      "Record store call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"collection", "op"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Record store calls that failed",
	}, []string{"collection", "op"})

	m.recordsTotal = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_total",
		Help:      "Records held per collection",
	}, []string{"collection"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP responses with status >= 400",
	}, []string{"endpoint", "method", "error_type"})
}

// Mutations.

// RecordMutation counts a store mutation outcome ("ok" or "error").
func RecordMutation(collection, op, outcome string) {
	globalManager.mutations.WithLabelValues(collection, op, outcome).Inc()
}

// RecordValidationFailure counts a rejected draft.
func RecordValidationFailure(collection, reason string) {
	globalManager.validationFailures.WithLabelValues(collection, reason).Inc()
}

// RecordSubmissionBlocked counts a refused double submit.
func RecordSubmissionBlocked() {
	globalManager.submissionsBlocked.Inc()
}

// Invalidation.

// RecordInvalidation counts one stale view.
func RecordInvalidation(view string) {
	globalManager.invalidations.WithLabelValues(view).Inc()
}

// RecordProjectionRebuild counts a recomputed projection.
func RecordProjectionRebuild(view string) {
	globalManager.projectionRebuilds.WithLabelValues(view).Inc()
}

// RecordStaleServe counts a read answered from the previous value.
func RecordStaleServe(view string) {
	globalManager.staleServes.WithLabelValues(view).Inc()
}

// RecordRollover counts a midnight rollover.
func RecordRollover() {
	globalManager.rollovers.Inc()
}

// Signal fan-out.

// UpdateSignalQueueSize sets the queued signal count.
func UpdateSignalQueueSize(size int) {
	globalManager.signalQueueSize.Set(float64(size))
}

// UpdateSignalQueueCapacity sets the queue capacity.
func UpdateSignalQueueCapacity(capacity int) {
	globalManager.signalQueueCapacity.Set(float64(capacity))
}

// RecordSignalEnqueued counts an accepted signal.
func RecordSignalEnqueued() {
	globalManager.signalsEnqueued.Inc()
}

// RecordSignalDropped counts a dropped signal ("queue_full", "closed", "context_cancelled").
func RecordSignalDropped(reason string) {
	globalManager.signalsDropped.WithLabelValues(reason).Inc()
}

// RecordSignalDelivered counts a sink delivery ("ok" or "error").
func RecordSignalDelivered(sink, outcome string) {
	globalManager.signalsDelivered.WithLabelValues(sink, outcome).Inc()
}

// UpdateDispatchWorkers sets the number of running dispatch workers.
func UpdateDispatchWorkers(count int) {
	globalManager.dispatchWorkers.Set(float64(count))
}

// Store.

// RecordStoreLatency observes a store call latency in milliseconds.
func RecordStoreLatency(collection, op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(collection, op).Observe(latencyMs)
}

// RecordStoreError counts a failed store call.
func RecordStoreError(collection, op string) {
	globalManager.storeErrors.WithLabelValues(collection, op).Inc()
}

// UpdateRecordsTotal sets the record count of a collection.
func UpdateRecordsTotal(collection string, count int) {
	globalManager.recordsTotal.WithLabelValues(collection).Set(float64(count))
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
