package runtime

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jihwankim/kinda-lang/pkg/personality"
)

// Metrics instruments helper invocations on a dedicated prometheus
// registry so embedders (and tests) can scrape chaos behavior without
// touching the default registry.
type Metrics struct {
	registry *prometheus.Registry

	calls        *prometheus.CounterVec
	failures     *prometheus.CounterVec
	instability  prometheus.Gauge
	cascadeDepth prometheus.Gauge
}

// NewMetrics creates and registers the runtime metric set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kinda",
			Subsystem: "runtime",
			Name:      "helper_calls_total",
			Help:      "Fuzzy helper invocations by construct.",
		}, []string{"construct"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kinda",
			Subsystem: "runtime",
			Name:      "helper_failures_total",
			Help:      "Fuzzy helper invocations that recorded a failure.",
		}, []string{"construct"}),
		instability: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kinda",
			Subsystem: "personality",
			Name:      "instability",
			Help:      "Accumulated failure signal on the personality state.",
		}),
		cascadeDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kinda",
			Subsystem: "personality",
			Name:      "cascade_depth",
			Help:      "Current fuzzy-call nesting depth.",
		}),
	}
	reg.MustRegister(m.calls, m.failures, m.instability, m.cascadeDepth)
	return m
}

// Registry exposes the underlying registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observe(construct string, failed bool, p *personality.Personality) {
	m.calls.WithLabelValues(construct).Inc()
	if failed {
		m.failures.WithLabelValues(construct).Inc()
	}
	m.instability.Set(p.Instability())
	m.cascadeDepth.Set(float64(p.CascadeDepth()))
}
