// Package metrics exposes prometheus instrumentation for the store, the
// overdue sweep and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	intentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatehouse_intents_total",
		Help: "Intents dispatched to the store by intent and result",
	}, []string{"intent", "result"})

	visitorsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gatehouse_visitors",
		Help: "Visitors in the current snapshot by status",
	}, []string{"status"})

	sweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatehouse_sweep_runs_total",
		Help: "Overdue sweep passes",
	})

	sweepOverdue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gatehouse_sweep_overdue_total",
		Help: "Visitors moved to overdue by the sweep",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gatehouse_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gatehouse_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// ObserveIntent counts a dispatched intent with its result
// (applied, not_found, invalid_transition).
func ObserveIntent(intent, result string) {
	intentsTotal.WithLabelValues(intent, result).Inc()
}

// SetVisitors records how many visitors hold each status.
func SetVisitors(counts map[string]int) {
	for status, n := range counts {
		visitorsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// ObserveSweep records one sweep pass and how many visitors it made overdue.
func ObserveSweep(overdue int) {
	sweepRuns.Inc()
	sweepOverdue.Add(float64(overdue))
}

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, status).Inc()
	httpRequestDuration.WithLabelValues(method, status).Observe(duration.Seconds())
}
