package metrics

import "github.com/prometheus/client_golang/prometheus"

// UpstreamMetrics exposes counters/histograms for calls to the clinic API.
type UpstreamMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	m := &UpstreamMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicportal",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total clinic API requests",
		}, []string{"operation", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinicportal",
			Subsystem: "upstream",
			Name:      "request_latency_seconds",
			Help:      "Latency of clinic API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency)
	return m
}

// ObserveRequest records one upstream call. Safe on a nil receiver so the
// backend client works without metrics wired.
func (m *UpstreamMetrics) ObserveRequest(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(operation, status).Inc()
	m.requestLatency.WithLabelValues(operation).Observe(seconds)
}
