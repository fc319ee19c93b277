// Package metrics defines the Prometheus collectors of the HTTP service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts handled API requests by route and status class.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_amortizer_requests_total",
			Help: "Total number of handled API requests",
		},
		[]string{"route", "status"},
	)

	// CalculationErrors counts rejected schedule calculations by error kind.
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_amortizer_calculation_errors_total",
			Help: "Number of schedule calculations rejected by validation or failing internally",
		},
		[]string{"error_type"},
	)

	// ScheduleDuration observes how long schedule generation takes.
	ScheduleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loan_amortizer_schedule_duration_seconds",
			Help:    "Time spent generating amortization schedules",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)

	// SchedulePeriods observes the length of generated schedules.
	SchedulePeriods = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loan_amortizer_schedule_periods",
			Help:    "Number of periods in generated amortization schedules",
			Buckets: []float64{12, 60, 120, 240, 360, 520, 1040, 2600},
		},
	)
)

// StatusClass collapses an HTTP status code into "2xx", "4xx" or "5xx".
func StatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
