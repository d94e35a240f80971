package metrics

import "sync/atomic"

// Collector tracks request counters served by the /metrics endpoint.
type Collector struct {
	requests atomic.Int64
	errors   atomic.Int64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) IncRequests() {
	if c == nil {
		return
	}
	c.requests.Add(1)
}

func (c *Collector) IncErrors() {
	if c == nil {
		return
	}
	c.errors.Add(1)
}

type Snapshot struct {
	Requests int64
	Errors   int64
}

func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		Requests: c.requests.Load(),
		Errors:   c.errors.Load(),
	}
}
