package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PollMetrics records upstream polling outcomes for directory listings.
type PollMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	fallback *prometheus.CounterVec
}

// NewPollMetrics registers the poll metrics on the provided registerer.
func NewPollMetrics(reg prometheus.Registerer) *PollMetrics {
	if reg == nil {
		return &PollMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "directory_poll_duration_seconds",
		Help:    "Duration of upstream listing polls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_poll_success",
		Help: "Successful upstream listing polls.",
	}, []string{"endpoint"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_poll_failure",
		Help: "Failed upstream listing polls.",
	}, []string{"endpoint"})
	fallback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_fallback",
		Help: "Times the directory served fallback data, by source.",
	}, []string{"source"})
	reg.MustRegister(duration, success, failure, fallback)
	return &PollMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		fallback: fallback,
	}
}

// ObserveDuration records the duration for the named endpoint.
func (p *PollMetrics) ObserveDuration(endpoint string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named endpoint.
func (p *PollMetrics) IncSuccess(endpoint string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(endpoint)).Inc()
}

// IncFailure increments the failure counter for the named endpoint.
func (p *PollMetrics) IncFailure(endpoint string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(endpoint)).Inc()
}

// IncFallback counts a fallback served from the given source.
func (p *PollMetrics) IncFallback(source string) {
	if p == nil || p.fallback == nil {
		return
	}
	p.fallback.WithLabelValues(normalizeLabel(source)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
