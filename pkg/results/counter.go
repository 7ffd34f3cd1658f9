// Package results holds the UI-side bookkeeping for asynchronous work:
// correlation id counters and the tables of pending futures keyed by them.
//
// Nothing in this package is safe for concurrent use. Every Counter and
// Table belongs to the goroutine that runs the UI loop.
package results

// ID correlates a submitted task with its later notification.
type ID uint64

// Counter issues strictly increasing ids starting at 1. Ids are never
// reused during the life of the counter.
type Counter struct {
	last ID
}

// Next returns a fresh id.
func (c *Counter) Next() ID {
	c.last++
	return c.last
}

// Last returns the most recently issued id, or 0 if none.
func (c *Counter) Last() ID {
	return c.last
}
