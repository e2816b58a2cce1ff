package adapter

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeOK labels successful requests; failures are labeled by Kind.
const OutcomeOK = "ok"

// Metrics holds the adapter counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	pages    *prometheus.CounterVec
	dropped  *prometheus.CounterVec
}

// NewMetrics creates the adapter counters and registers them on reg.
// A nil reg creates unregistered counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "replydb",
			Subsystem: "adapter",
			Name:      "requests_total",
			Help:      "Platform requests by operation and outcome.",
		}, []string{"platform", "op", "outcome"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "replydb",
			Subsystem: "adapter",
			Name:      "pages_total",
			Help:      "Reply pages read from a platform.",
		}, []string{"platform"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "replydb",
			Subsystem: "adapter",
			Name:      "dropped_items_total",
			Help:      "Platform items dropped during normalization.",
		}, []string{"platform"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.pages, m.dropped)
	}
	return m
}

// ObserveRequest counts one request; err selects the outcome label.
func (m *Metrics) ObserveRequest(platform, op string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = "error"
		if kind, ok := KindOf(err); ok {
			outcome = string(kind)
		}
	}
	m.requests.WithLabelValues(platform, op, outcome).Inc()
}

// ObservePage counts one page of replies.
func (m *Metrics) ObservePage(platform string) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(platform).Inc()
}

// ObserveDropped counts n dropped items.
func (m *Metrics) ObserveDropped(platform string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.dropped.WithLabelValues(platform).Add(float64(n))
}
