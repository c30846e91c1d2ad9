package dvhttp

import (
	"fmt"
	"strconv"

	"github.com/gordian-engine/gdelegate/dvtally"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records resolutions served over HTTP.
type Metrics struct {
	resolutions *prometheus.CounterVec
	iterations  *prometheus.HistogramVec
	lostWeight  *prometheus.GaugeVec
}

// NewMetrics creates the resolution metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gdelegate",
				Name:      "resolutions_total",
				Help:      "Total resolution runs.",
			},
			[]string{"mode", "converged"},
		),
		iterations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gdelegate",
				Name:      "resolution_iterations",
				Help:      "Rounds or iterations executed per resolution run.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"mode"},
		),
		lostWeight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gdelegate",
				Name:      "lost_weight",
				Help:      "Lost weight of the most recent resolution run.",
			},
			[]string{"mode"},
		),
	}

	for _, c := range []prometheus.Collector{m.resolutions, m.iterations, m.lostWeight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return m, nil
}

// Observe records one resolution run.
func (m *Metrics) Observe(t dvtally.Tally) {
	mode := t.Mode().String()
	d := t.Diagnostics()

	m.resolutions.WithLabelValues(mode, strconv.FormatBool(d.Converged)).Inc()
	m.iterations.WithLabelValues(mode).Observe(float64(d.Iterations))
	m.lostWeight.WithLabelValues(mode).Set(t.LostWeight())
}
