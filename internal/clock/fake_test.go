package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	c := Fake(epoch)
	if got := c.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	c.Advance(1500 * time.Millisecond)
	if got, want := c.Now(), epoch.Add(1500*time.Millisecond); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfterFunc(t *testing.T) {
	c := Fake(epoch)
	calls := 0
	c.AfterFunc(900*time.Millisecond, func() { calls++ })

	c.Advance(899 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("callback ran %d times before deadline", calls)
	}
	c.Advance(time.Millisecond)
	if calls != 1 {
		t.Fatalf("callback ran %d times at deadline, want 1", calls)
	}
	c.Advance(time.Hour)
	if calls != 1 {
		t.Fatalf("callback ran %d times after deadline, want 1", calls)
	}
}

func TestFakeClockStop(t *testing.T) {
	c := Fake(epoch)
	calls := 0
	timer := c.AfterFunc(time.Second, func() { calls++ })

	if !timer.Stop() {
		t.Fatal("first Stop() = false, want true")
	}
	if timer.Stop() {
		t.Fatal("second Stop() = true, want false")
	}
	c.Advance(2 * time.Second)
	if calls != 0 {
		t.Fatalf("stopped callback ran %d times", calls)
	}
	if n := c.PendingTimers(); n != 0 {
		t.Fatalf("PendingTimers() = %d, want 0", n)
	}
}

func TestFakeClockStopAfterFire(t *testing.T) {
	c := Fake(epoch)
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	if timer.Stop() {
		t.Fatal("Stop() after fire = true, want false")
	}
}

func TestFakeClockFiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []string
	c.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	c.AfterFunc(time.Second, func() { order = append(order, "a") })
	c.AfterFunc(2*time.Second, func() { order = append(order, "b1") })
	c.AfterFunc(2*time.Second, func() { order = append(order, "b2") })

	c.Advance(5 * time.Second)

	want := []string{"a", "b1", "b2", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestFakeClockCallbackSchedulesTimer(t *testing.T) {
	c := Fake(epoch)
	fired := false
	c.AfterFunc(time.Second, func() {
		c.AfterFunc(time.Second, func() { fired = true })
	})

	c.Advance(time.Second)
	if fired {
		t.Fatal("nested timer fired early")
	}
	if n := c.PendingTimers(); n != 1 {
		t.Fatalf("PendingTimers() = %d, want 1", n)
	}
	c.Advance(time.Second)
	if !fired {
		t.Fatal("nested timer did not fire")
	}
}

func TestFakeClockNonPositiveDelay(t *testing.T) {
	c := Fake(epoch)
	calls := 0
	timer := c.AfterFunc(0, func() { calls++ })
	if calls != 1 {
		t.Fatalf("AfterFunc(0) ran callback %d times, want 1", calls)
	}
	if timer.Stop() {
		t.Fatal("Stop() on immediate timer = true, want false")
	}
}

func TestFakeClockWaitForTimers(t *testing.T) {
	c := Fake(epoch)
	done := make(chan struct{})
	go func() {
		c.AfterFunc(time.Second, func() {})
		close(done)
	}()
	c.WaitForTimers(1)
	<-done
	if n := c.PendingTimers(); n != 1 {
		t.Fatalf("PendingTimers() = %d, want 1", n)
	}
}

func TestNilTimerStop(t *testing.T) {
	var timer *Timer
	if timer.Stop() {
		t.Fatal("nil Timer Stop() = true, want false")
	}
}

func TestRealClockStop(t *testing.T) {
	fired := make(chan struct{}, 1)
	timer := Real().AfterFunc(time.Hour, func() { fired <- struct{}{} })
	if !timer.Stop() {
		t.Fatal("Stop() = false, want true")
	}
	select {
	case <-fired:
		t.Fatal("stopped real timer fired")
	default:
	}
}
