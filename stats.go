// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msgpack

import "sync/atomic"

// Stats is a point-in-time snapshot of pool and transfer counters. It is
// cheap enough to update unconditionally on every Acquire and every
// Source/Sink byte transfer (Release updates no counter), and gives an integration point for a
// caller that wants to export these to Prometheus (see the metrics
// subpackage) without this package importing a metrics client directly.
type Stats struct {
	PoolHits     uint64
	PoolMisses   uint64
	BytesRead    uint64
	BytesWritten uint64
}

// counters holds the live atomic values backing a Stats snapshot.
type counters struct {
	poolHits     atomic.Uint64
	poolMisses   atomic.Uint64
	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
}

func (c *counters) addPoolHit(n uint64)     { c.poolHits.Add(n) }
func (c *counters) addPoolMiss(n uint64)    { c.poolMisses.Add(n) }
func (c *counters) addBytesRead(n uint64)   { c.bytesRead.Add(n) }
func (c *counters) addBytesWritten(n uint64) { c.bytesWritten.Add(n) }

func (c *counters) snapshot() Stats {
	return Stats{
		PoolHits:     c.poolHits.Load(),
		PoolMisses:   c.poolMisses.Load(),
		BytesRead:    c.bytesRead.Load(),
		BytesWritten: c.bytesWritten.Load(),
	}
}
