package tmdb

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts provider requests by endpoint and outcome
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics creates the provider metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marquee",
			Name:      "provider_requests_total",
			Help:      "Requests made to the media catalog provider.",
		}, []string{"endpoint", "outcome"}),
	}
	reg.MustRegister(m.requests)
	return m
}

func (m *Metrics) observe(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}
