package clock

import "time"

// Clock schedules one-shot callbacks and reports the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once d has elapsed. The returned Timer cancels
	// the call. If d <= 0, f runs immediately (in a new goroutine for the
	// real clock, synchronously for the fake one).
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is the cancellation handle for a scheduled callback.
type Timer struct {
	stop func() bool
}

// Stop prevents the callback from running. It returns true if the call
// stopped the timer, false if the callback already ran or the timer was
// already stopped. A false return does not mean the callback finished:
// with the real clock it may be running concurrently.
func (t *Timer) Stop() bool {
	if t == nil || t.stop == nil {
		return false
	}
	return t.stop()
}
