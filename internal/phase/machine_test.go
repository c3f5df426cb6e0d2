package phase

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/katistix/envelope/internal/clock"
)

var epoch = time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)

func newTestMachine(t *testing.T) (*Machine, *clock.FakeClock) {
	t.Helper()
	c := clock.Fake(epoch)
	m := New(WithClock(c))
	t.Cleanup(m.Close)
	return m, c
}

// driveTo walks a fresh machine forward to the wanted phase.
func driveTo(t *testing.T, m *Machine, c *clock.FakeClock, want Phase) {
	t.Helper()
	steps := map[Phase]func(){
		Peek:     func() { m.Open() },
		Outside:  func() { c.Advance(m.PeekDelay()) },
		Expanded: func() { m.Expand() },
		Flowers:  func() { m.Advance() },
	}
	for _, p := range All()[1:] {
		if m.Phase() == want {
			break
		}
		steps[p]()
	}
	if got := m.Phase(); got != want {
		t.Fatalf("driveTo(%v) reached %v", want, got)
	}
}

func TestNewMachineStartsClosed(t *testing.T) {
	m, _ := newTestMachine(t)
	if got := m.Phase(); got != Closed {
		t.Fatalf("Phase() = %v, want closed", got)
	}
	if got := m.PeekDelay(); got != DefaultPeekDelay {
		t.Fatalf("PeekDelay() = %v, want %v", got, DefaultPeekDelay)
	}
}

func TestOperationsOutsidePreconditionAreNoOps(t *testing.T) {
	ops := []struct {
		name string
		from Phase
		call func(*Machine) bool
	}{
		{"open", Closed, (*Machine).Open},
		{"expand", Outside, (*Machine).Expand},
		{"advance", Expanded, (*Machine).Advance},
	}

	for _, op := range ops {
		for _, start := range All() {
			if start == op.from {
				continue
			}
			t.Run(op.name+"/"+start.String(), func(t *testing.T) {
				m, c := newTestMachine(t)
				driveTo(t, m, c, start)

				if op.call(m) {
					t.Fatalf("%s() from %v reported a change", op.name, start)
				}
				if got := m.Phase(); got != start {
					t.Fatalf("%s() from %v moved phase to %v", op.name, start, got)
				}
			})
		}
	}
}

func TestResetFromEveryPhase(t *testing.T) {
	for _, start := range All() {
		t.Run(start.String(), func(t *testing.T) {
			m, c := newTestMachine(t)
			driveTo(t, m, c, start)

			changed := m.Reset()
			if changed != (start != Closed) {
				t.Fatalf("Reset() from %v = %v", start, changed)
			}
			if got := m.Phase(); got != Closed {
				t.Fatalf("Reset() from %v left phase %v", start, got)
			}
			if n := c.PendingTimers(); n != 0 {
				t.Fatalf("%d timers pending after reset", n)
			}
		})
	}
}

func TestPeekSettlesOutsideAfterDelay(t *testing.T) {
	m, c := newTestMachine(t)

	var changes []Change
	m.Subscribe(func(ch Change) { changes = append(changes, ch) })

	if !m.Open() {
		t.Fatal("Open() from closed reported no change")
	}
	if got := m.Phase(); got != Peek {
		t.Fatalf("Phase() after Open = %v, want peek", got)
	}
	if n := c.PendingTimers(); n != 1 {
		t.Fatalf("PendingTimers() = %d, want 1", n)
	}

	c.Advance(DefaultPeekDelay - time.Millisecond)
	if got := m.Phase(); got != Peek {
		t.Fatalf("Phase() before delay = %v, want peek", got)
	}

	c.Advance(time.Millisecond)
	if got := m.Phase(); got != Outside {
		t.Fatalf("Phase() at delay = %v, want outside", got)
	}

	c.Advance(10 * DefaultPeekDelay)
	want := []Change{
		{From: Closed, To: Peek, Cause: CauseOpen},
		{From: Peek, To: Outside, Cause: CauseTimer},
	}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("changes[%d] = %+v, want %+v", i, changes[i], want[i])
		}
	}
}

func TestResetDuringPeekCancelsTimer(t *testing.T) {
	m, c := newTestMachine(t)
	m.Open()
	c.Advance(DefaultPeekDelay / 2)

	m.Reset()
	if n := c.PendingTimers(); n != 0 {
		t.Fatalf("PendingTimers() after reset = %d, want 0", n)
	}

	c.Advance(DefaultPeekDelay)
	if got := m.Phase(); got != Closed {
		t.Fatalf("Phase() after delay = %v, want closed", got)
	}
	c.Advance(time.Minute)
	if got := m.Phase(); got != Closed {
		t.Fatalf("Phase() later = %v, want closed", got)
	}
}

func TestReopenDuringOldPeekWindow(t *testing.T) {
	m, c := newTestMachine(t)
	m.Open()
	c.Advance(600 * time.Millisecond)
	m.Reset()
	m.Open()

	// The first peek would have ended here.
	c.Advance(300 * time.Millisecond)
	if got := m.Phase(); got != Peek {
		t.Fatalf("Phase() at old deadline = %v, want peek", got)
	}

	c.Advance(600 * time.Millisecond)
	if got := m.Phase(); got != Outside {
		t.Fatalf("Phase() at new deadline = %v, want outside", got)
	}
}

func TestStaleTimerCallbackIgnored(t *testing.T) {
	// A clock whose Stop never succeeds models a timer that already
	// fired and is waiting on the machine's lock.
	c := &leakyClock{FakeClock: clock.Fake(epoch)}
	m := New(WithClock(c))
	defer m.Close()

	m.Open()
	m.Reset()
	c.fireAll()

	if got := m.Phase(); got != Closed {
		t.Fatalf("Phase() after stale fire = %v, want closed", got)
	}

	m.Open()
	stale := c.callbacks[0]
	stale()
	if got := m.Phase(); got != Peek {
		t.Fatalf("stale callback from an earlier peek moved phase to %v", got)
	}
}

type leakyClock struct {
	*clock.FakeClock
	callbacks []func()
}

func (c *leakyClock) AfterFunc(d time.Duration, f func()) *clock.Timer {
	c.callbacks = append(c.callbacks, f)
	return nil
}

func (c *leakyClock) fireAll() {
	for _, f := range c.callbacks {
		f()
	}
}

func TestCloseCancelsTimerAndFreezesPhase(t *testing.T) {
	m, c := newTestMachine(t)
	m.Open()
	m.Close()

	if n := c.PendingTimers(); n != 0 {
		t.Fatalf("PendingTimers() after Close = %d, want 0", n)
	}
	c.Advance(DefaultPeekDelay)
	if got := m.Phase(); got != Peek {
		t.Fatalf("Phase() after Close and delay = %v, want peek", got)
	}
	if m.Reset() {
		t.Fatal("Reset() after Close reported a change")
	}
	m.Close()
}

func TestFullLoopRepeats(t *testing.T) {
	m, c := newTestMachine(t)

	for round := 0; round < 5; round++ {
		if !m.Open() {
			t.Fatalf("round %d: Open() failed from %v", round, m.Phase())
		}
		c.Advance(DefaultPeekDelay)
		if !m.Expand() {
			t.Fatalf("round %d: Expand() failed from %v", round, m.Phase())
		}
		if !m.Advance() {
			t.Fatalf("round %d: Advance() failed from %v", round, m.Phase())
		}
		if got := m.Phase(); got != Flowers {
			t.Fatalf("round %d: Phase() = %v, want flowers", round, got)
		}
		if !m.Reset() {
			t.Fatalf("round %d: Reset() failed", round)
		}
		if got := m.Phase(); got != Closed {
			t.Fatalf("round %d: Phase() = %v, want closed", round, got)
		}
	}
}

// expected is the transition table, written independently of Machine.
func expected(p Phase, op string) Phase {
	switch {
	case op == "open" && p == Closed:
		return Peek
	case op == "expand" && p == Outside:
		return Expanded
	case op == "advance" && p == Expanded:
		return Flowers
	case op == "reset":
		return Closed
	case op == "wait" && p == Peek:
		return Outside
	}
	return p
}

func TestRandomSequencesFollowTable(t *testing.T) {
	ops := []string{"open", "expand", "advance", "reset", "wait", "tick"}
	rng := rand.New(rand.NewPCG(14, 2))

	for run := 0; run < 200; run++ {
		m, c := newTestMachine(t)
		want := Closed
		peekAge := time.Duration(0)

		for i := 0; i < 40; i++ {
			op := ops[rng.IntN(len(ops))]
			switch op {
			case "open":
				m.Open()
			case "expand":
				m.Expand()
			case "advance":
				m.Advance()
			case "reset":
				m.Reset()
			case "wait":
				c.Advance(DefaultPeekDelay - peekAge)
			case "tick":
				// Less than the delay; never settles on its own unless
				// the peek is already partly elapsed.
				c.Advance(100 * time.Millisecond)
			}

			prev := want
			if op == "tick" {
				if want == Peek && peekAge+100*time.Millisecond >= DefaultPeekDelay {
					want = Outside
				}
			} else {
				want = expected(want, op)
			}

			switch {
			case want == Peek && prev != Peek:
				peekAge = 0
			case want == Peek && op == "tick":
				peekAge += 100 * time.Millisecond
			}

			got := m.Phase()
			if !got.Valid() {
				t.Fatalf("run %d step %d: invalid phase %d", run, i, int(got))
			}
			if got != want {
				t.Fatalf("run %d step %d: after %s phase = %v, want %v", run, i, op, got, want)
			}
		}
	}
}

func TestListenerSeesNewPhaseSynchronously(t *testing.T) {
	m, _ := newTestMachine(t)
	var seen []Phase
	m.Subscribe(func(Change) { seen = append(seen, m.Phase()) })

	m.Open()
	if len(seen) != 1 || seen[0] != Peek {
		t.Fatalf("listener saw %v, want [peek]", seen)
	}
}

func TestListenerReentrancy(t *testing.T) {
	m, c := newTestMachine(t)
	var order []Change

	// Expand as soon as the letter is outside.
	m.Subscribe(func(ch Change) {
		order = append(order, ch)
		if ch.To == Outside {
			m.Expand()
		}
	})

	m.Open()
	c.Advance(DefaultPeekDelay)

	if got := m.Phase(); got != Expanded {
		t.Fatalf("Phase() = %v, want expanded", got)
	}
	wantTo := []Phase{Peek, Outside, Expanded}
	if len(order) != len(wantTo) {
		t.Fatalf("listener saw %v", order)
	}
	for i, p := range wantTo {
		if order[i].To != p {
			t.Fatalf("order[%d].To = %v, want %v", i, order[i].To, p)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	m, _ := newTestMachine(t)
	var a, b int
	unsubscribeA := m.Subscribe(func(Change) { a++ })
	m.Subscribe(func(Change) { b++ })

	m.Open()
	unsubscribeA()
	unsubscribeA()
	m.Reset()

	if a != 1 || b != 2 {
		t.Fatalf("a = %d, b = %d; want 1, 2", a, b)
	}
}

func TestWithPeekDelay(t *testing.T) {
	c := clock.Fake(epoch)
	m := New(WithClock(c), WithPeekDelay(2*time.Second), WithPeekDelay(-time.Second))
	defer m.Close()

	m.Open()
	c.Advance(DefaultPeekDelay)
	if got := m.Phase(); got != Peek {
		t.Fatalf("Phase() = %v, want peek", got)
	}
	c.Advance(2*time.Second - DefaultPeekDelay)
	if got := m.Phase(); got != Outside {
		t.Fatalf("Phase() = %v, want outside", got)
	}
}

func TestConcurrentOperations(t *testing.T) {
	c := clock.Fake(epoch)
	m := New(WithClock(c))
	defer m.Close()

	var mu sync.Mutex
	var last Change
	m.Subscribe(func(ch Change) {
		mu.Lock()
		defer mu.Unlock()
		if ch.From != last.To {
			t.Errorf("change %+v does not follow %+v", ch, last)
		}
		last = ch
	})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				m.Open()
				m.Expand()
				m.Advance()
				if i%7 == 0 {
					m.Reset()
				}
				c.Advance(DefaultPeekDelay)
			}
		}()
	}
	wg.Wait()

	if got := m.Phase(); !got.Valid() {
		t.Fatalf("invalid phase %d", int(got))
	}
}

func TestForwardOperationsFollowNext(t *testing.T) {
	ops := map[Phase]func(*Machine) bool{
		Closed:   (*Machine).Open,
		Outside:  (*Machine).Expand,
		Expanded: (*Machine).Advance,
	}
	for from, op := range ops {
		t.Run(from.String(), func(t *testing.T) {
			m, c := newTestMachine(t)
			driveTo(t, m, c, from)
			want, ok := from.Next()
			if !ok {
				t.Fatalf("%v has no successor", from)
			}
			if !op(m) {
				t.Fatalf("operation from %v reported no change", from)
			}
			if got := m.Phase(); got != want {
				t.Fatalf("phase = %v, want %v", got, want)
			}
		})
	}
}
