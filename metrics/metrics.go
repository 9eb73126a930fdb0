// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics adapts msgpack.Stats snapshots to Prometheus
// collectors, kept separate from the core codec so that importing
// msgpack never pulls in the Prometheus client library for a caller that
// does not want it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"code.hybscloud.com/msgpack"
)

// StatsSource is satisfied by *msgpack.Allocator, *msgpack.Source, and
// *msgpack.Sink.
type StatsSource interface {
	Stats() msgpack.Stats
}

// Collector exports an Allocator's, Source's, or Sink's Stats snapshot as
// Prometheus counters. Register it with a prometheus.Registry.
type Collector struct {
	source StatsSource
	label  string

	poolHits     *prometheus.Desc
	poolMisses   *prometheus.Desc
	bytesRead    *prometheus.Desc
	bytesWritten *prometheus.Desc
}

// NewCollector returns a Collector reading from source, tagging its
// msgpack_-prefixed metrics with the given label (e.g. a connection or
// pool name) as the constant label "name".
func NewCollector(label string, source StatsSource) *Collector {
	constLabels := prometheus.Labels{"name": label}
	return &Collector{
		source: source,
		label:  label,
		poolHits: prometheus.NewDesc(
			"msgpack_pool_hits_total", "Buffer pool acquisitions served from a free list.", nil, constLabels),
		poolMisses: prometheus.NewDesc(
			"msgpack_pool_misses_total", "Buffer pool acquisitions that allocated fresh.", nil, constLabels),
		bytesRead: prometheus.NewDesc(
			"msgpack_bytes_read_total", "Bytes read from the underlying reader.", nil, constLabels),
		bytesWritten: prometheus.NewDesc(
			"msgpack_bytes_written_total", "Bytes written to the underlying writer.", nil, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.poolHits
	ch <- c.poolMisses
	ch <- c.bytesRead
	ch <- c.bytesWritten
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.poolHits, prometheus.CounterValue, float64(snap.PoolHits))
	ch <- prometheus.MustNewConstMetric(c.poolMisses, prometheus.CounterValue, float64(snap.PoolMisses))
	ch <- prometheus.MustNewConstMetric(c.bytesRead, prometheus.CounterValue, float64(snap.BytesRead))
	ch <- prometheus.MustNewConstMetric(c.bytesWritten, prometheus.CounterValue, float64(snap.BytesWritten))
}
