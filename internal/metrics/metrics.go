// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	IntakeToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_toggles_total",
		Help: "Intake mark/unmark operations.",
	}, []string{"action"})

	HistoryDays = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "history_reconciled_days",
		Help:    "Days emitted per reconciled history page.",
		Buckets: []float64{0, 1, 7, 14, 30},
	})

	StoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Store failures that degraded to an empty result.",
	}, []string{"operation"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Outbound request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "status"})

	ReminderRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_runs_total",
		Help: "Reminder function triggers by outcome.",
	}, []string{"outcome"})
)

// MustRegister registers every collector.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		HTTPRequestDuration,
		IntakeToggles,
		HistoryDays,
		StoreErrors,
		NetworkRequestDuration,
		ReminderRuns,
	)
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, start time.Time) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

// ObserveNetworkRequest records the duration and outcome of an outbound call.
func ObserveNetworkRequest(component, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	NetworkRequestDuration.WithLabelValues(component, operation, status).Observe(time.Since(start).Seconds())
}
