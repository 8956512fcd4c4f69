package asyncx

import "sync/atomic"

// Countdown is a one-shot join counter. It starts at n and each Arrive
// decrements it; exactly one Arrive observes the transition to zero.
//
// Writes made by a goroutine before its Arrive are visible to the goroutine
// whose Arrive returns true.
type Countdown struct {
	remaining atomic.Int64
}

// NewCountdown returns a Countdown expecting n arrivals.
func NewCountdown(n int) *Countdown {
	c := &Countdown{}
	c.remaining.Store(int64(n))
	return c
}

// Arrive records one arrival and reports whether it was the last one.
// Arrivals past zero report false.
func (c *Countdown) Arrive() bool {
	return c.remaining.Add(-1) == 0
}

// Remaining returns the number of outstanding arrivals.
func (c *Countdown) Remaining() int {
	if n := c.remaining.Load(); n > 0 {
		return int(n)
	}
	return 0
}
