package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tutorial/internal/tutorial"
)

type Metrics struct {
	registry *prometheus.Registry

	resolutions    *prometheus.CounterVec
	contentReloads *prometheus.CounterVec
}

// New registers the tutorial collectors plus the Go runtime and process
// collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutorial_resolutions_total",
				Help: "Tutorial slug resolutions by outcome.",
			},
			[]string{"outcome"},
		),
		contentReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutorial_content_reloads_total",
				Help: "Content index reloads triggered by file changes.",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.resolutions,
		m.contentReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOutcome counts one resolution. It matches the tutorial.WithObserver
// callback signature.
func (m *Metrics) ObserveOutcome(outcome tutorial.Outcome) {
	m.resolutions.WithLabelValues(outcome.Kind.String()).Inc()
}

func (m *Metrics) ObserveReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.contentReloads.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
