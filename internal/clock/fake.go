package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a Clock whose time moves only when Advance is called.
// It is safe for concurrent use.
//
// Callbacks run synchronously inside Advance. A callback may schedule
// or stop other timers, but must not call Advance.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	pending []*fakeTimer
	changed *sync.Cond
	seq     uint64
}

type fakeTimer struct {
	deadline time.Time
	callback func()
	seq      uint64
	stopped  bool
	fired    bool
}

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run when the clock has been advanced by at
// least d. If d <= 0, f runs before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stop: func() bool { return false }}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{
		deadline: c.current.Add(d),
		callback: f,
		seq:      c.seq,
	}
	c.seq++
	c.pending = append(c.pending, timer)
	c.changed.Broadcast()

	return &Timer{stop: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if timer.stopped || timer.fired {
			return false
		}
		timer.stopped = true
		c.changed.Broadcast()
		return true
	}}
}

// Advance moves the clock forward by d and runs every callback whose
// deadline has been reached, earliest first. Timers scheduled by a
// callback fire in the same call if their deadline is also reached.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.mu.Unlock()

	for {
		due := c.collectDue(target)
		if len(due) == 0 {
			return
		}
		for _, timer := range due {
			timer.callback()
		}
	}
}

// PendingTimers returns the number of timers that are scheduled and
// neither stopped nor fired.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

// WaitForTimers blocks until at least n timers are pending.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingLocked() < n {
		c.changed.Wait()
	}
}

// collectDue removes due timers from the pending list, marks them fired
// and returns them in deadline order. Stopped timers are dropped.
func (c *FakeClock) collectDue(target time.Time) []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var due, remaining []*fakeTimer
	for _, timer := range c.pending {
		switch {
		case timer.stopped:
		case !timer.deadline.After(target):
			timer.fired = true
			due = append(due, timer)
		default:
			remaining = append(remaining, timer)
		}
	}
	c.pending = remaining

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	return due
}

func (c *FakeClock) pendingLocked() int {
	count := 0
	for _, timer := range c.pending {
		if !timer.stopped {
			count++
		}
	}
	return count
}
