// Package collector exports the shape of a quantile digest as Prometheus metrics.
package collector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ryanpbrewster/bytestring-histogram/qdigest"
)

const subsystem = "qdigest"

// Source is anything able to report digest statistics. Share a digest with the
// collector through a *qdigest.Sync: scrapes run on their own goroutines.
type Source interface {
	Stats() qdigest.Stats
}

var _ prometheus.Collector = (*Collector)(nil)

// Collector is a prometheus.Collector reading a Source on every scrape.
type Collector struct {
	src Source

	totalWeight *prometheus.Desc
	nodes       *prometheus.Desc
	buckets     *prometheus.Desc
	boundaries  *prometheus.Desc
	saturated   *prometheus.Desc
}

// New returns a collector for src. Metric names are prefixed with namespace and
// carry constLabels.
func New(namespace string, src Source, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, name),
			help, nil, constLabels,
		)
	}

	return &Collector{
		src:         src,
		totalWeight: desc("total_weight", "Sum of all weights inserted into the digest."),
		nodes:       desc("nodes", "Number of trie nodes retained by the digest."),
		buckets:     desc("buckets", "Number of keys holding positive weight."),
		boundaries:  desc("boundaries", "Number of boundary keys."),
		saturated:   desc("saturated", "1 if a weight counter has been capped, 0 otherwise."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalWeight
	ch <- c.nodes
	ch <- c.buckets
	ch <- c.boundaries
	ch <- c.saturated
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.src.Stats()

	var saturated float64
	if stats.Saturated {
		saturated = 1
	}

	ch <- prometheus.MustNewConstMetric(c.totalWeight, prometheus.GaugeValue, float64(stats.TotalWeight))
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(stats.Nodes))
	ch <- prometheus.MustNewConstMetric(c.buckets, prometheus.GaugeValue, float64(stats.Buckets))
	ch <- prometheus.MustNewConstMetric(c.boundaries, prometheus.GaugeValue, float64(stats.Boundaries))
	ch <- prometheus.MustNewConstMetric(c.saturated, prometheus.GaugeValue, saturated)
}
