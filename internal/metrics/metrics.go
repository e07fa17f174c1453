// Package metrics exports evaluation statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/fwdiff/internal/forward"
)

// Collector is a forward.Recorder backed by Prometheus vectors.
type Collector struct {
	evaluations *prometheus.CounterVec
	expressions prometheus.Counter
	duration    *prometheus.HistogramVec
	nodes       prometheus.Histogram
}

// NewCollector creates the metrics and registers them with reg. A nil reg
// leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fwdiff_evaluations_total",
				Help: "Evaluation calls by outcome and error kind",
			},
			[]string{"outcome", "kind"},
		),
		expressions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fwdiff_expressions_total",
				Help: "Expressions submitted for evaluation",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fwdiff_evaluation_duration_seconds",
				Help:    "Wall time of evaluation calls",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"outcome"},
		),
		nodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fwdiff_graph_nodes",
				Help:    "Distinct nodes per evaluation call",
				Buckets: prometheus.ExponentialBuckets(1, 2, 16),
			},
		),
	}
	if reg == nil {
		return c, nil
	}
	for _, m := range []prometheus.Collector{c.evaluations, c.expressions, c.duration, c.nodes} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Record implements forward.Recorder.
func (c *Collector) Record(stats forward.Stats, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.evaluations.WithLabelValues(outcome, forward.ErrorKind(err)).Inc()
	c.expressions.Add(float64(stats.Expressions))
	c.duration.WithLabelValues(outcome).Observe(stats.Duration.Seconds())
	if stats.Nodes > 0 {
		c.nodes.Observe(float64(stats.Nodes))
	}
}
