package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachbooking_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coachbooking_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachbooking_lifecycle_transitions_total",
			Help: "Reservation lifecycle transitions attempted, by transition and result",
		},
		[]string{"transition", "result"},
	)

	SlotsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachbooking_slots_generated_total",
			Help: "Total number of time slots created by generation",
		},
	)

	SlotsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachbooking_slots_expired_total",
			Help: "Total number of free slots moved to expired by the sweep",
		},
	)

	CheckinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachbooking_checkins_total",
			Help: "Check-in attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordTransition(transition, result string) {
	TransitionsTotal.WithLabelValues(transition, result).Inc()
}

func RecordSlotsGenerated(n int) {
	SlotsGeneratedTotal.Add(float64(n))
}

func RecordSlotsExpired(n int64) {
	SlotsExpiredTotal.Add(float64(n))
}

func RecordCheckin(outcome string) {
	CheckinsTotal.WithLabelValues(outcome).Inc()
}
