package sim

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Clock schedules one-shot callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TickClock is a Clock driven by simulation ticks instead of wall time.
// Callbacks run synchronously inside Advance, on the caller's goroutine, in
// deadline order. A callback that schedules another timer sees Now() equal to
// its own deadline, so rescheduling chains keep an exact cadence even when a
// single Advance covers several periods.
type TickClock struct {
	now    time.Duration
	seq    uint64
	timers []*tickTimer
}

type tickTimer struct {
	clock *TickClock
	at    time.Duration
	seq   uint64
	fn    func()
	done  bool
}

// NewTickClock creates a clock at time zero.
func NewTickClock() *TickClock {
	return &TickClock{}
}

// Now returns the simulated time elapsed since the clock was created.
func (c *TickClock) Now() time.Duration {
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
// Non-positive delays fire on the next Advance.
func (c *TickClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &tickTimer{clock: c, at: c.now + d, seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by dt and runs every callback that falls
// due, including ones scheduled by callbacks during this call.
func (c *TickClock) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := c.now + dt

	for {
		idx := c.nextDue(target)
		if idx < 0 {
			break
		}
		t := c.timers[idx]
		c.remove(idx)
		t.done = true
		c.now = t.at
		t.fn()
	}

	c.now = target
}

// Pending returns the number of timers waiting to fire.
func (c *TickClock) Pending() int {
	return len(c.timers)
}

// nextDue returns the index of the earliest timer due by target, or -1.
func (c *TickClock) nextDue(target time.Duration) int {
	best := -1
	for i, t := range c.timers {
		if t.at > target {
			continue
		}
		if best < 0 || t.at < c.timers[best].at ||
			(t.at == c.timers[best].at && t.seq < c.timers[best].seq) {
			best = i
		}
	}
	return best
}

func (c *TickClock) remove(idx int) {
	last := len(c.timers) - 1
	c.timers[idx] = c.timers[last]
	c.timers[last] = nil
	c.timers = c.timers[:last]
}

// Stop cancels the timer if it has not fired yet.
func (t *tickTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	for i, other := range t.clock.timers {
		if other == t {
			t.clock.remove(i)
			break
		}
	}
	return true
}
