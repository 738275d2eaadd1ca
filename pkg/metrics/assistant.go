package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics tracks live assistant stream traffic.
type AssistantMetrics struct {
	frames          *prometheus.CounterVec
	transportErrors *prometheus.CounterVec
	liveSessions    prometheus.Gauge
}

// NewAssistantMetrics registers the assistant metrics on the provided registerer.
func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	if reg == nil {
		return &AssistantMetrics{}
	}
	frames := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_frames",
		Help: "Inbound assistant stream frames by type.",
	}, []string{"type"})
	transportErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_transport_errors",
		Help: "Assistant stream transport failures by phase.",
	}, []string{"phase"})
	liveSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "assistant_live_sessions",
		Help: "Assistant sessions currently holding a transport.",
	})
	reg.MustRegister(frames, transportErrors, liveSessions)
	return &AssistantMetrics{
		frames:          frames,
		transportErrors: transportErrors,
		liveSessions:    liveSessions,
	}
}

func (a *AssistantMetrics) IncFrame(frameType string) {
	if a == nil || a.frames == nil {
		return
	}
	a.frames.WithLabelValues(normalizeLabel(frameType)).Inc()
}

func (a *AssistantMetrics) IncTransportError(phase string) {
	if a == nil || a.transportErrors == nil {
		return
	}
	a.transportErrors.WithLabelValues(normalizeLabel(phase)).Inc()
}

// SessionOpened and SessionReleased must be paired per transport.
func (a *AssistantMetrics) SessionOpened() {
	if a == nil || a.liveSessions == nil {
		return
	}
	a.liveSessions.Inc()
}

func (a *AssistantMetrics) SessionReleased() {
	if a == nil || a.liveSessions == nil {
		return
	}
	a.liveSessions.Dec()
}
