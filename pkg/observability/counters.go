package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters implements every hook interface with atomic counters.
// The HTTP server registers one instance and reports its [Snapshot] on
// /healthz. The zero value is ready to use.
type Counters struct {
	checks      atomic.Int64
	consistent  atomic.Int64
	repairs     atomic.Int64
	repairFails atomic.Int64
	repairNanos atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	requests    atomic.Int64
	httpErrors  atomic.Int64
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Checks         int64 `json:"checks"`
	Consistent     int64 `json:"consistent"`
	Repairs        int64 `json:"repairs"`
	RepairFailures int64 `json:"repair_failures"`
	RepairMillis   int64 `json:"repair_ms"`
	CacheHits      int64 `json:"cache_hits"`
	CacheMisses    int64 `json:"cache_misses"`
	Requests       int64 `json:"requests"`
	HTTPErrors     int64 `json:"http_errors"`
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Checks:         c.checks.Load(),
		Consistent:     c.consistent.Load(),
		Repairs:        c.repairs.Load(),
		RepairFailures: c.repairFails.Load(),
		RepairMillis:   time.Duration(c.repairNanos.Load()).Milliseconds(),
		CacheHits:      c.cacheHits.Load(),
		CacheMisses:    c.cacheMisses.Load(),
		Requests:       c.requests.Load(),
		HTTPErrors:     c.httpErrors.Load(),
	}
}

func (c *Counters) OnBuildStart(context.Context, int)                               {}
func (c *Counters) OnBuildComplete(context.Context, int, int, time.Duration, error) {}

func (c *Counters) OnCheck(_ context.Context, _ int, consistent bool) {
	c.checks.Add(1)
	if consistent {
		c.consistent.Add(1)
	}
}

func (c *Counters) OnRepairStart(context.Context, int) {}

func (c *Counters) OnRepairComplete(_ context.Context, _ int, d time.Duration, err error) {
	c.repairs.Add(1)
	c.repairNanos.Add(int64(d))
	if err != nil {
		c.repairFails.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string)                      { c.requests.Add(1) }
func (c *Counters) OnResponse(context.Context, string, string, int, time.Duration) {}
func (c *Counters) OnError(context.Context, string, string, error)                 { c.httpErrors.Add(1) }

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
