// Package metrics exposes Prometheus instrumentation for the graph index.
//
// A nil *Collector is valid and records nothing, so the index can call it
// unconditionally.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/patrikhermansson/hnav/core"
)

// Collector groups the index metrics.
type Collector struct {
	nodesInserted   prometheus.Counter
	searches        prometheus.Counter
	distanceEvals   prometheus.Counter
	levelRejections prometheus.Counter
	layerSize       *prometheus.GaugeVec
	searchDuration  prometheus.Histogram
}

// New creates a Collector registered on reg. A nil reg creates unregistered
// metrics, which is handy in tests.
func New(reg prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		nodesInserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_inserted_total",
			Help:      "Total number of nodes inserted into the index",
		}),
		searches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of k-nearest-neighbour searches",
		}),
		distanceEvals: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distance_evaluations_total",
			Help:      "Total number of weight calculator calls",
		}),
		levelRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_rejections_total",
			Help:      "Level samples rejected for falling outside the layer range",
		}),
		layerSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layer_nodes",
			Help:      "Number of nodes per layer",
		}, []string{"layer"}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of k-nearest-neighbour searches in seconds",
			// From sub-microsecond lookups in tiny graphs to slow scans.
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
}

// NodeInserted counts one insertion.
func (c *Collector) NodeInserted() {
	if c == nil {
		return
	}
	c.nodesInserted.Inc()
}

// LevelRejected counts one rejected level sample.
func (c *Collector) LevelRejected() {
	if c == nil {
		return
	}
	c.levelRejections.Inc()
}

// SetLayerSize records the node count of a layer.
func (c *Collector) SetLayerSize(layer, size int) {
	if c == nil {
		return
	}
	c.layerSize.WithLabelValues(strconv.Itoa(layer)).Set(float64(size))
}

// SearchDone records a finished search that started at start.
func (c *Collector) SearchDone(start time.Time) {
	if c == nil {
		return
	}
	c.searches.Inc()
	c.searchDuration.Observe(time.Since(start).Seconds())
}

// CountDistances wraps calc so every call increments the distance counter.
// With a nil collector calc is returned unchanged.
func CountDistances[W core.Weight](c *Collector, calc core.WeightCalculator[W]) core.WeightCalculator[W] {
	if c == nil {
		return calc
	}
	return core.WeightFunc[W](func(a, b uint64) W {
		c.distanceEvals.Inc()
		return calc.GetWeight(a, b)
	})
}
