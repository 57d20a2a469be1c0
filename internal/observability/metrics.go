package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	trackedEventsTotal     *prometheus.CounterVec
	presenceMarksTotal     *prometheus.CounterVec
	questionMutationsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors of the quiz API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_http_requests_total",
			Help: "API requests served, by scope (public or admin), route and status.",
		}, []string{"scope", "method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quiz_http_latency_seconds",
			Help:    "API request latency by scope and route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"scope", "method", "route"})

		trackedEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_tracked_events_total",
			Help: "Tracking events accepted, by event name.",
		}, []string{"event"})

		presenceMarksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_presence_marks_total",
			Help: "Presence updates received, by state.",
		}, []string{"state"})

		questionMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_question_mutations_total",
			Help: "Question store writes, by operation.",
		}, []string{"operation"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			trackedEventsTotal,
			presenceMarksTotal,
			questionMutationsTotal,
		)
	})
}

// HTTPRequests counts served API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency observes API request latency.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// TrackedEvents exposes the counter of accepted tracking events.
func TrackedEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return trackedEventsTotal
}

// PresenceMarks exposes the counter of presence updates.
func PresenceMarks() *prometheus.CounterVec {
	RegisterMetrics()
	return presenceMarksTotal
}

// QuestionMutations exposes the counter of question store writes.
func QuestionMutations() *prometheus.CounterVec {
	RegisterMetrics()
	return questionMutationsTotal
}
