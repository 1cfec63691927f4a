package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

const (
	SubsystemClient  = "client"
	SubsystemSandbox = "sandbox"

	OutcomeOK = "ok"
)

// RequestMetrics records per-endpoint latency and outcomes for HTTP calls.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewRequestMetrics registers the request metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewRequestMetrics(reg prometheus.Registerer, subsystem string) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	reg.MustRegister(duration, total)
	return &RequestMetrics{
		duration: duration,
		total:    total,
	}
}

// Observe records one finished request. outcome is OutcomeOK or an error code.
func (m *RequestMetrics) Observe(endpoint, outcome string, elapsed time.Duration) {
	if m == nil || m.duration == nil || m.total == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	if outcome == "" {
		outcome = OutcomeOK
	}
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	m.total.WithLabelValues(endpoint, outcome).Inc()
}

func normalizeLabel(endpoint string) string {
	if endpoint == "" {
		return "unknown"
	}
	return endpoint
}

// Total exposes the outcome counter for assertions.
func (m *RequestMetrics) Total() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.total
}
