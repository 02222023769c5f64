// Package fakeclock provides a manually stepped clock for deterministic
// timing tests.
//
// Unlike channel-based fake clocks, deferred functions registered via
// AfterFunc run synchronously on the goroutine calling Step, after the
// clock's internal lock has been released. A callback may therefore arm new
// timers on the same clock, which is exactly what a queue drain cycle does
// when it re-arms itself.
package fakeclock

import (
	"sync"
	"time"

	utilclock "k8s.io/utils/clock"
)

// FakeClock is a manual clock. It only moves when Step or SetTime is called.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*fakeTimer
}

// New creates a FakeClock positioned at the given time.
func New(at time.Time) *FakeClock {
	return &FakeClock{now: at}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// AfterFunc registers f to run once the clock has advanced by d. The returned
// timer supports Stop and Reset like a real timer; its channel fires at the
// same moment f runs.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) utilclock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{
		clock: c,
		at:    c.now.Add(d),
		fn:    f,
		ch:    make(chan time.Time, 1),
	}
	c.waiters = append(c.waiters, timer)

	return timer
}

// Step advances the clock by d, firing all due timers in chronological order.
// Callbacks run synchronously on the calling goroutine; timers they arm fire
// within the same Step when their deadline still falls inside it.
func (c *FakeClock) Step(d time.Duration) {
	c.mu.Lock()
	deadline := c.now.Add(d)

	for {
		next := c.popDueLocked(deadline)
		if next == nil {
			break
		}

		if next.at.After(c.now) {
			c.now = next.at
		}
		next.fired = true

		select {
		case next.ch <- c.now:
		default:
		}

		fn := next.fn
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
		c.mu.Lock()
	}

	c.now = deadline
	c.mu.Unlock()
}

// PendingTimers returns the number of armed, not yet fired timers.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.waiters)
}

// popDueLocked removes and returns the earliest timer due at or before the
// deadline, or nil when none is due.
func (c *FakeClock) popDueLocked(deadline time.Time) *fakeTimer {
	index := -1
	for i, waiter := range c.waiters {
		if waiter.at.After(deadline) {
			continue
		}
		if index == -1 || waiter.at.Before(c.waiters[index].at) {
			index = i
		}
	}

	if index == -1 {
		return nil
	}

	due := c.waiters[index]
	c.waiters = append(c.waiters[:index], c.waiters[index+1:]...)

	return due
}

func (c *FakeClock) removeLocked(timer *fakeTimer) {
	for i, waiter := range c.waiters {
		if waiter == timer {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

// fakeTimer implements clock.Timer against its owning FakeClock.
type fakeTimer struct {
	clock   *FakeClock
	at      time.Time
	fn      func()
	ch      chan time.Time
	fired   bool
	stopped bool
}

// C returns the timer channel. It receives the fake time at which the timer fired.
func (t *fakeTimer) C() <-chan time.Time {
	return t.ch
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}

	t.stopped = true
	t.clock.removeLocked(t)

	return true
}

// Reset re-arms the timer for d from the current fake time. It reports
// whether the timer was still pending before the reset.
func (t *fakeTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	wasPending := !t.fired && !t.stopped
	t.at = t.clock.now.Add(d)
	t.fired = false
	t.stopped = false

	if !wasPending {
		t.clock.waiters = append(t.clock.waiters, t)
	}

	return wasPending
}

// Ensure fakeTimer implements clock.Timer.
var _ utilclock.Timer = (*fakeTimer)(nil)
