package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPollMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPollMetrics(reg)
	endpoint := "stores"
	metrics.ObserveDuration(endpoint, 250*time.Millisecond)
	metrics.IncSuccess(endpoint)
	metrics.IncFailure(endpoint)
	metrics.IncFallback("placeholder")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "directory_poll_success", "endpoint", endpoint); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "directory_poll_failure", "endpoint", endpoint); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "directory_fallback", "source", "placeholder"); err != nil {
		t.Fatalf("fetch fallback: %v", err)
	} else if got != 1 {
		t.Fatalf("expected fallback=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "directory_poll_duration_seconds", "endpoint", endpoint); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestAssistantMetricsTracksFramesAndSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAssistantMetrics(reg)
	metrics.IncFrame("iteration_start")
	metrics.IncFrame("iteration_start")
	metrics.IncFrame("")
	metrics.IncTransportError("read")
	metrics.SessionOpened()
	metrics.SessionOpened()
	metrics.SessionReleased()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "assistant_frames", "type", "iteration_start"); err != nil || got != 2 {
		t.Fatalf("expected 2 iteration frames, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "assistant_frames", "type", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected blank type normalized to unknown, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "assistant_transport_errors", "phase", "read"); err != nil || got != 1 {
		t.Fatalf("expected 1 read error, got %f err=%v", got, err)
	}
	mf := findMetricFamily(mfs, "assistant_live_sessions")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected live sessions gauge")
	}
	if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 1 {
		t.Fatalf("expected 1 live session, got %f", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var poll *PollMetrics
	poll.IncSuccess("stores")
	poll.ObserveDuration("stores", time.Second)

	unregistered := NewAssistantMetrics(nil)
	unregistered.IncFrame("error")
	unregistered.SessionOpened()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
