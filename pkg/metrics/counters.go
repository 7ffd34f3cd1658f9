package metrics

import "sync/atomic"

// Counter is a monotonically increasing event count.
type Counter struct {
	name string
	n    atomic.Int64
}

func newCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc adds one to the counter.
func (c *Counter) Inc() {
	if !Enabled() {
		return
	}
	c.n.Add(1)
}

// Value returns the current count.
func (c *Counter) Value() int64 { return c.n.Load() }

// Name returns the counter name.
func (c *Counter) Name() string { return c.name }

// Reset sets the counter back to zero.
func (c *Counter) Reset() { c.n.Store(0) }

// Engine counters.
var (
	ResultsApplied   = newCounter("results_applied")
	ResultsDiscarded = newCounter("results_discarded")
	WatchEvents      = newCounter("watch_events")
)

// AllCounters returns all registered counters.
func AllCounters() []*Counter {
	return []*Counter{ResultsApplied, ResultsDiscarded, WatchEvents}
}

// Snapshot is a serializable view of every metric.
type Snapshot struct {
	Timings  []TimingStats    `json:"timings"`
	Counters map[string]int64 `json:"counters"`
}

// TakeSnapshot collects the current value of every metric.
func TakeSnapshot() Snapshot {
	counters := make(map[string]int64)
	for _, c := range AllCounters() {
		counters[c.name] = c.Value()
	}
	return Snapshot{Timings: AllTimingStats(), Counters: counters}
}
