package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "scroll"

// Metrics counts solver work across runs on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	Solves         *prometheus.CounterVec
	Evaluations    prometheus.Counter
	CacheHits      prometheus.Counter
	PrunedBranches prometheus.Counter
	SolveDuration  prometheus.Histogram
}

// NewMetrics creates and registers the solver metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "solves_total",
			Help:      "Solve runs by result",
		}, []string{"result"}),
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_total",
			Help:      "Item states visited by the evaluator",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Item states answered from the memo cache",
		}),
		PrunedBranches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pruned_branches_total",
			Help:      "Scroll branches cut by the reachability bound",
		}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of one solve",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.Registry.MustRegister(m.Solves, m.Evaluations, m.CacheHits, m.PrunedBranches, m.SolveDuration)
	return m
}

// Observe records a finished solve.
func (m *Metrics) Observe(r Report) {
	result := "reachable"
	if r.PGoal == 0 {
		result = "unreachable"
	}
	m.Solves.WithLabelValues(result).Inc()
	m.Evaluations.Add(float64(r.Counters.Evaluations))
	m.CacheHits.Add(float64(r.Counters.CacheHits))
	m.PrunedBranches.Add(float64(r.Counters.Pruned))
	m.SolveDuration.Observe(r.Elapsed.Seconds())
}

// ObserveError records a solve that did not produce a report.
func (m *Metrics) ObserveError() {
	m.Solves.WithLabelValues("error").Inc()
}

// WriteFile writes every metric in Prometheus text format, for pickup by a
// node_exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
