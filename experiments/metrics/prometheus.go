package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "zerosearch"

// PrometheusCollector exports search metrics to Prometheus in addition to collecting them per search.
type PrometheusCollector struct {
	Collector

	simulations prometheus.Counter
	searches    prometheus.Counter
	proven      prometheus.Counter
	treeResets  prometheus.Counter
	duration    prometheus.Histogram
}

// NewPrometheusCollector registers its metrics with registerer.
// It panics if they are already registered, like prometheus.MustRegister.
func NewPrometheusCollector(registerer prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		Collector: NewCollector(),
		simulations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Number of simulations run.",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Number of completed searches.",
		}),
		proven: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proven_roots_total",
			Help:      "Number of searches which ended with a proven root.",
		}),
		treeResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_resets_total",
			Help:      "Number of searches which could not reuse the previous tree.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of a search.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}),
	}
	registerer.MustRegister(c.simulations, c.searches, c.proven, c.treeResets, c.duration)
	return c
}

func (c *PrometheusCollector) AddSimulation() {
	c.Collector.AddSimulation()
	c.simulations.Inc()
}

func (c *PrometheusCollector) Complete() SearchMetric {
	metric := c.Collector.Complete()
	c.searches.Inc()
	if metric.IsProven {
		c.proven.Inc()
	}
	if metric.IsTreeReset {
		c.treeResets.Inc()
	}
	c.duration.Observe(metric.Duration.Seconds())
	return metric
}
