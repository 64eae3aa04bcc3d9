// Package metrics provides Prometheus metrics for the hackboard scoring service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Scoring
	scoringComputations *prometheus.CounterVec
	scoringLatency      *prometheus.HistogramVec
	scoringErrors       *prometheus.CounterVec

	// Signals
	attemptsCreated  prometheus.Counter
	attemptsRejected *prometheus.CounterVec
	technicalWrites  prometheus.Counter
	votesCast        prometheus.Counter

	// Snapshots
	snapshotTicks         prometheus.Counter
	snapshotRowsWritten   prometheus.Counter
	snapshotEventFailures prometheus.Counter
	snapshotEventsSkipped prometheus.Counter
	snapshotTickDuration  prometheus.Histogram
	snapshotLastUnix      prometheus.Gauge

	// Scheduler
	schedulerTicksSkipped *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository
	repositoryQueryLatency prometheus.Histogram

	// Errors
	errorRateByComponent *prometheus.CounterVec
}

// global pairs the process-wide manager with its custom registry.
type global struct {
	manager  *Manager
	registry *prometheus.Registry
}

var current atomic.Pointer[global] //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	Init()
}

// Init replaces the global manager with one built from opts on a fresh
// custom registry. Call it once at startup, before serving /metrics.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(registry))...)
	current.Store(&global{manager: m, registry: registry})
}

func manager() *Manager {
	return current.Load().manager
}

// NewManager creates a metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hackboard",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.scoringComputations = m.counterVec("computations_total",
		"Total number of score computations by view", "view")
	m.scoringLatency = m.histogramVec("computation_latency_milliseconds",
		"Score computation latency in milliseconds by view", "view")
	m.scoringErrors = m.counterVec("computation_errors_total",
		"Total number of failed score computations by view", "view")

	m.attemptsCreated = m.counter("attempts_created_total",
		"Total number of recorded sidequest attempts")
	m.attemptsRejected = m.counterVec("attempts_rejected_total",
		"Total number of rejected sidequest attempts by reason", "reason")
	m.technicalWrites = m.counter("technical_results_written_total",
		"Total number of technical results written")
	m.votesCast = m.counter("votes_cast_total",
		"Total number of public votes cast")

	m.snapshotTicks = m.counter("snapshot_ticks_total",
		"Total number of snapshot aggregation ticks")
	m.snapshotRowsWritten = m.counter("snapshot_rows_written_total",
		"Total number of score snapshot rows written")
	m.snapshotEventFailures = m.counter("snapshot_event_failures_total",
		"Total number of events whose snapshot failed")
	m.snapshotEventsSkipped = m.counter("snapshot_events_skipped_total",
		"Total number of events skipped because they are not hacking")
	m.snapshotTickDuration = m.histogram("snapshot_tick_duration_milliseconds",
		"Snapshot tick duration in milliseconds")
	m.snapshotLastUnix = promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_last_unix",
		Help:        "Unix timestamp of the last completed snapshot tick",
		ConstLabels: m.constLabels,
	})

	m.schedulerTicksSkipped = m.counterVec("scheduler_ticks_skipped_total",
		"Total number of ticks skipped because the previous run was still active", "task")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by route and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds",
		"Repository query latency in milliseconds")

	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Total number of errors by component", "component", "error_type")
}

// RecordScoringComputation records one score computation of a view.
func RecordScoringComputation(view string, latencyMs float64) {
	manager().scoringComputations.WithLabelValues(view).Inc()
	manager().scoringLatency.WithLabelValues(view).Observe(latencyMs)
}

// RecordScoringError increments the failed computations counter of a view.
func RecordScoringError(view string) {
	manager().scoringErrors.WithLabelValues(view).Inc()
}

// RecordAttemptCreated increments the recorded attempts counter.
func RecordAttemptCreated() {
	manager().attemptsCreated.Inc()
}

// RecordAttemptRejected increments the rejected attempts counter.
func RecordAttemptRejected(reason string) {
	manager().attemptsRejected.WithLabelValues(reason).Inc()
}

// RecordTechnicalResultWritten increments the technical writes counter.
func RecordTechnicalResultWritten() {
	manager().technicalWrites.Inc()
}

// RecordVoteCast increments the votes counter.
func RecordVoteCast() {
	manager().votesCast.Inc()
}

// RecordSnapshotTick records a finished aggregation tick.
func RecordSnapshotTick(duration time.Duration, at time.Time) {
	manager().snapshotTicks.Inc()
	manager().snapshotTickDuration.Observe(float64(duration.Microseconds()) / 1000)
	manager().snapshotLastUnix.Set(float64(at.Unix()))
}

// RecordSnapshotRows adds written snapshot rows.
func RecordSnapshotRows(n int) {
	manager().snapshotRowsWritten.Add(float64(n))
}

// RecordSnapshotEventFailure increments the failed event snapshots counter.
func RecordSnapshotEventFailure() {
	manager().snapshotEventFailures.Inc()
}

// RecordSnapshotEventSkipped increments the skipped events counter.
func RecordSnapshotEventSkipped() {
	manager().snapshotEventsSkipped.Inc()
}

// RecordSchedulerTickSkipped increments the skipped ticks counter of a task.
func RecordSchedulerTickSkipped(task string) {
	manager().schedulerTicksSkipped.WithLabelValues(task).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	manager().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	manager().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRepositoryQueryLatency records repository query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	manager().repositoryQueryLatency.Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	manager().errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return current.Load().registry
}
