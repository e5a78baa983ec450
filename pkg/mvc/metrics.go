package mvc

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects dispatch counters in a private Prometheus registry.
// A nil *Metrics is valid and records nothing
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the dispatch collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "minimvc",
				Subsystem: "dispatch",
				Name:      "requests_total",
				Help:      "Total number of dispatched requests by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "minimvc",
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Duration of request dispatch.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

// Observe records one dispatched request
func (m *Metrics) Observe(outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome.String()).Inc()
	m.duration.WithLabelValues(outcome.String()).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, e.g. to add process collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the collected metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
