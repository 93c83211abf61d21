package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	evaluationRequestsTotal  *prometheus.CounterVec
	evaluationLatencySeconds *prometheus.HistogramVec
	evaluationErrorsTotal    *prometheus.CounterVec
	gradesSubmittedTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for evaluation observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		evaluationRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_requests_total",
			Help: "Total number of evaluation API requests served.",
		}, []string{"method", "route", "status"})

		evaluationLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evaluation_latency_seconds",
			Help:    "Latency distribution for evaluation API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		evaluationErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_errors_total",
			Help: "Total number of error responses returned by evaluation endpoints.",
		}, []string{"method", "route", "status"})

		gradesSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grades_submitted_total",
			Help: "Total number of grades persisted, labelled by rater role and subject type.",
		}, []string{"rater_role", "subject_type"})

		prometheus.MustRegister(evaluationRequestsTotal, evaluationLatencySeconds, evaluationErrorsTotal, gradesSubmittedTotal)
	})
}

// EvaluationRequests exposes the counter for evaluation requests.
func EvaluationRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationRequestsTotal
}

// EvaluationLatency exposes the latency histogram for evaluation requests.
func EvaluationLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return evaluationLatencySeconds
}

// EvaluationErrors exposes the counter for evaluation error responses.
func EvaluationErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationErrorsTotal
}

// GradesSubmitted exposes the counter for persisted grades.
func GradesSubmitted() *prometheus.CounterVec {
	RegisterMetrics()
	return gradesSubmittedTotal
}
