package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewUpstreamMetrics(reg)

	m.ObserveRequest("list_patients", "200", 0.05)
	m.ObserveRequest("list_patients", "200", 0.07)
	m.ObserveRequest("analytics", "error", 0.01)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	if !found["clinicportal_upstream_requests_total"] {
		t.Error("requests_total not registered")
	}
	if !found["clinicportal_upstream_request_latency_seconds"] {
		t.Error("request_latency not registered")
	}
}

func TestObserveRequestNilReceiver(t *testing.T) {
	var m *UpstreamMetrics
	// Must not panic.
	m.ObserveRequest("list_patients", "200", 0.01)
}
