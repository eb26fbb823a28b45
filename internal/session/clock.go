package session

import "sync/atomic"

// Clock is a monotonic logical clock for frame ordering.
//
// Every frame a controller emits is stamped with a strictly increasing
// sequence number. Sequence numbers, unlike timestamps, are identical when
// a session is replayed.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
