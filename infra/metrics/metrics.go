// Package metrics exposes solve and replay counters. The CLI is a batch
// job, so collectors live in a private registry that is written to a
// node-exporter textfile at the end of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mazewal/domain/maze"
)

const namespace = "mazewal"

type Metrics struct {
	reg      *prometheus.Registry
	maxDepth int

	Relaxations  prometheus.Counter
	Improvements prometheus.Counter
	Replayed     prometheus.Counter
	MaxDepth     prometheus.Gauge
	Runs         *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Relaxations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_records_written_total",
			Help:      "Cell visits journaled by the solver.",
		}),
		Improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relaxations_improved_total",
			Help:      "Visits that lowered a cell's stored distance.",
		}),
		Replayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_records_replayed_total",
			Help:      "Journal records applied during replay.",
		}),
		MaxDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "solve_max_depth",
			Help:      "Longest active search path seen, in cells.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of solve and replay runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"mode"}),
	}
	m.reg.MustRegister(m.Relaxations, m.Improvements, m.Replayed, m.MaxDepth, m.Runs, m.Duration)
	return m
}

// Relaxed implements maze.Observer.
func (m *Metrics) Relaxed(e maze.Entry, depth int) {
	m.Relaxations.Inc()
	if e.New < e.Previous {
		m.Improvements.Inc()
	}
	if depth > m.maxDepth {
		m.maxDepth = depth
		m.MaxDepth.Set(float64(depth))
	}
}

// ObserveRun records a finished run. err == nil counts as "ok".
func (m *Metrics) ObserveRun(mode string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Runs.WithLabelValues(mode, outcome).Inc()
	m.Duration.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile atomically writes all collectors in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
