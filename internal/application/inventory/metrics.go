package inventory

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados posibles de una asignación (label outcome).
const (
	OutcomeOK       = "ok"
	OutcomeUnknown  = "unknown"
	OutcomeNoSupply = "no_supply"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics métricas Prometheus del motor de asignación. Un *Metrics nil no registra nada.
type Metrics struct {
	allocations *prometheus.CounterVec
	conflicts   prometheus.Counter
	exhausted   prometheus.Counter
	duration    prometheus.Histogram
}

// NewMetrics registra las métricas en reg (usar prometheus.NewRegistry() en tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		allocations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "allocations_total",
			Help:      "Órdenes procesadas por el motor de asignación, por resultado.",
		}, []string{"outcome"}),
		conflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "allocation_conflicts_total",
			Help:      "Decrementos condicionales rechazados por escritura concurrente.",
		}),
		exhausted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "allocation_retries_exhausted_total",
			Help:      "Proveedores abandonados tras agotar los reintentos por conflicto.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inventory",
			Name:      "allocation_duration_seconds",
			Help:      "Duración de Allocate incluyendo reintentos.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observe(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.allocations.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) conflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

func (m *Metrics) retriesExhausted() {
	if m == nil {
		return
	}
	m.exhausted.Inc()
}
