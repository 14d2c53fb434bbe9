// Package promcollector exports covering index metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	idx, err := geocell.New(col, geocell.WithMetricsCollector(promcollector.New(reg, "geo")))
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/geocell"
)

var _ geocell.MetricsCollector = (*Collector)(nil)

// Collector implements geocell.MetricsCollector on Prometheus metrics.
type Collector struct {
	opLatency     *prometheus.HistogramVec
	ops           *prometheus.CounterVec
	coveringCells prometheus.Histogram
	searchLevels  prometheus.Histogram
	buildRows     prometheus.Counter
}

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "covering_index_op_duration_seconds",
			Help:      "Latency of covering index operations.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "covering_index_ops_total",
			Help:      "Covering index operations by outcome.",
		}, []string{"op", "status"}),
		coveringCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "covering_index_covering_cells",
			Help:      "Number of cells per indexed covering.",
			Buckets:   prometheus.LinearBuckets(1, 1, geocell.MaxCellCount),
		}),
		searchLevels: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "covering_index_search_levels",
			Help:      "Cell levels probed before a search matched or gave up.",
			Buckets:   prometheus.LinearBuckets(1, 2, 8),
		}),
		buildRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "covering_index_build_rows_total",
			Help:      "Rows loaded by bulk builds.",
		}),
	}

	reg.MustRegister(c.opLatency, c.ops, c.coveringCells, c.searchLevels, c.buildRows)
	return c
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	c.opLatency.WithLabelValues(op).Observe(d.Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.ops.WithLabelValues(op, status).Inc()
}

// RecordAdd implements geocell.MetricsCollector.
func (c *Collector) RecordAdd(d time.Duration, cells int, err error) {
	c.observe("add", d, err)
	if err == nil {
		c.coveringCells.Observe(float64(cells))
	}
}

// RecordDelete implements geocell.MetricsCollector.
func (c *Collector) RecordDelete(d time.Duration, err error) {
	c.observe("delete", d, err)
}

// RecordReplace implements geocell.MetricsCollector.
func (c *Collector) RecordReplace(d time.Duration, err error) {
	c.observe("replace", d, err)
}

// RecordSearch implements geocell.MetricsCollector. Misses count as status "miss".
func (c *Collector) RecordSearch(d time.Duration, levels int, matched bool) {
	c.opLatency.WithLabelValues("search").Observe(d.Seconds())
	status := "hit"
	if !matched {
		status = "miss"
	}
	c.ops.WithLabelValues("search", status).Inc()
	c.searchLevels.Observe(float64(levels))
}

// RecordBuild implements geocell.MetricsCollector.
func (c *Collector) RecordBuild(rows int, d time.Duration, err error) {
	c.observe("build", d, err)
	if err == nil {
		c.buildRows.Add(float64(rows))
	}
}
