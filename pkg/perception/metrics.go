package perception

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus instruments updated by a Perceiver.
type Metrics struct {
	AtomsTotal *prometheus.CounterVec
	Duration   prometheus.Histogram
}

// NewMetrics creates the perception instruments and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AtomsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "leaptype_atoms_perceived_total",
			Help: "Atoms processed by type perception, by outcome",
		}, []string{"outcome"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "leaptype_perception_duration_seconds",
			Help:    "Time spent perceiving the atom types of one molecule",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}

// record is a no-op on a nil receiver.
func (m *Metrics) record(assignments []Assignment, elapsed time.Duration) {
	if m == nil {
		return
	}
	for _, a := range assignments {
		m.AtomsTotal.WithLabelValues(string(a.Outcome())).Inc()
	}
	m.Duration.Observe(elapsed.Seconds())
}
