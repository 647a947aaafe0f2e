package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	progressionsTotal     prometheus.Counter
	evaluationRunsTotal   *prometheus.CounterVec
	evaluationOutcomes    *prometheus.CounterVec
	eventsPublishedTotal  *prometheus.CounterVec
	sseClientsActiveGauge prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used across the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talent_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "talent_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talent_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		progressionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "talent_round_progressions_total",
			Help: "Total number of completed round progressions.",
		})

		evaluationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talent_evaluation_runs_total",
			Help: "Total number of bulk evaluation runs by final state.",
		}, []string{"state"})

		evaluationOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talent_evaluation_outcomes_total",
			Help: "Per-candidate evaluation outcomes recorded during bulk runs.",
		}, []string{"outcome"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talent_events_published_total",
			Help: "Total number of progress events published.",
		}, []string{"type"})

		sseClientsActiveGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "talent_sse_clients_active",
			Help: "Number of currently connected SSE subscribers.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			progressionsTotal,
			evaluationRunsTotal,
			evaluationOutcomes,
			eventsPublishedTotal,
			sseClientsActiveGauge,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ProgressionsTotal exposes the counter for completed round progressions.
func ProgressionsTotal() prometheus.Counter {
	RegisterMetrics()
	return progressionsTotal
}

// EvaluationRuns exposes the counter for finished evaluation runs.
func EvaluationRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationRunsTotal
}

// EvaluationOutcomes exposes the per-candidate outcome counter.
func EvaluationOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationOutcomes
}

// EventsPublishedTotal exposes the counter for published progress events.
func EventsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}

// SSEClientsActive exposes the gauge tracking connected SSE subscribers.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActiveGauge
}
