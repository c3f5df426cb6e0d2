package phase

import (
	"log/slog"
	"sync"
	"time"

	"github.com/katistix/envelope/internal/clock"
)

// DefaultPeekDelay is how long the letter peeks out of the envelope
// before it settles outside.
const DefaultPeekDelay = 900 * time.Millisecond

// Machine owns the current Phase. The four operations are the only way
// to change it; each one is a no-op unless the machine is in the phase
// the operation starts from.
//
// A Machine is safe for concurrent use. The peek timer fires on the
// clock's goroutine and goes through the same lock as the operations, so
// transitions are applied one at a time.
type Machine struct {
	mu        sync.Mutex
	phase     Phase
	closed    bool
	clock     clock.Clock
	logger    *slog.Logger
	peekDelay time.Duration

	// peekTimer is non-nil only while in Peek. peekEpoch increments on
	// every entry to Peek; a timer callback carrying an older epoch is
	// stale and must not move the phase.
	peekTimer *clock.Timer
	peekEpoch uint64

	listeners  []listener
	listenerID uint64
	queue      []Change
	delivering bool
}

type listener struct {
	id uint64
	fn func(Change)
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the clock used to schedule the peek timer. Defaults to
// clock.Real().
func WithClock(c clock.Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithPeekDelay overrides DefaultPeekDelay. Non-positive values are
// ignored.
func WithPeekDelay(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.peekDelay = d
		}
	}
}

// WithLogger sets the logger that records transitions at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns a Machine in the Closed phase.
func New(opts ...Option) *Machine {
	m := &Machine{
		phase:     Closed,
		clock:     clock.Real(),
		logger:    slog.New(slog.DiscardHandler),
		peekDelay: DefaultPeekDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// PeekDelay returns the delay between entering Peek and moving Outside.
func (m *Machine) PeekDelay() time.Duration {
	return m.peekDelay
}

// Open moves Closed to Peek and starts the peek timer.
func (m *Machine) Open() bool {
	return m.step(Closed, CauseOpen)
}

// Expand moves Outside to Expanded.
func (m *Machine) Expand() bool {
	return m.step(Outside, CauseExpand)
}

// Advance moves Expanded to Flowers.
func (m *Machine) Advance() bool {
	return m.step(Expanded, CauseAdvance)
}

// Reset moves any phase back to Closed, cancelling a pending peek timer.
// It reports false when the machine was already Closed.
func (m *Machine) Reset() bool {
	m.mu.Lock()
	if m.closed || m.phase == Closed {
		m.ignoredLocked(CauseReset)
		m.mu.Unlock()
		return false
	}
	m.applyLocked(Closed, CauseReset)
	m.deliver()
	return true
}

// Subscribe registers fn to be called after every transition. Listeners
// run in registration order, outside the machine's lock, so they may
// read Phase or call operations; changes caused from inside a listener
// are delivered after the current round of listeners finishes.
//
// The returned function removes the listener.
func (m *Machine) Subscribe(fn func(Change)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listenerID++
	id := m.listenerID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close tears the machine down. A pending peek timer is cancelled and
// every later operation is a no-op. The current phase stays readable.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.stopPeekTimerLocked()
	m.logger.Debug("phase machine closed", "phase", m.phase)
}

// step moves from to the phase after it on the forward path.
func (m *Machine) step(from Phase, cause Cause) bool {
	to, ok := from.Next()
	m.mu.Lock()
	if !ok || m.closed || m.phase != from {
		m.ignoredLocked(cause)
		m.mu.Unlock()
		return false
	}
	m.applyLocked(to, cause)
	m.deliver()
	return true
}

// settle is the peek timer callback.
func (m *Machine) settle(epoch uint64) {
	m.mu.Lock()
	if m.closed || m.phase != Peek || epoch != m.peekEpoch {
		m.logger.Debug("stale peek timer", "epoch", epoch, "current_epoch", m.peekEpoch, "phase", m.phase)
		m.mu.Unlock()
		return
	}
	m.peekTimer = nil
	m.applyLocked(Outside, CauseTimer)
	m.deliver()
}

// applyLocked sets the phase, maintains the peek timer and queues the
// change for delivery. Must be called with m.mu held.
func (m *Machine) applyLocked(to Phase, cause Cause) {
	from := m.phase
	if from == Peek {
		m.stopPeekTimerLocked()
	}
	m.phase = to
	if to == Peek {
		m.peekEpoch++
		epoch := m.peekEpoch
		m.peekTimer = m.clock.AfterFunc(m.peekDelay, func() { m.settle(epoch) })
	}

	change := Change{From: from, To: to, Cause: cause}
	m.queue = append(m.queue, change)
	m.logger.Debug("phase transition", "from", from, "to", to, "cause", cause.String())
}

func (m *Machine) stopPeekTimerLocked() {
	if m.peekTimer == nil {
		return
	}
	m.peekTimer.Stop()
	m.peekTimer = nil
}

func (m *Machine) ignoredLocked(cause Cause) {
	m.logger.Debug("transition ignored", "cause", cause.String(), "phase", m.phase, "closed", m.closed)
}

// deliver hands queued changes to listeners and releases m.mu. It is
// entered with m.mu held. Only one goroutine delivers at a time; others
// leave their changes in the queue for it, which keeps notifications in
// the order the transitions were applied.
func (m *Machine) deliver() {
	if m.delivering {
		m.mu.Unlock()
		return
	}
	m.delivering = true
	for len(m.queue) > 0 {
		change := m.queue[0]
		m.queue = m.queue[1:]
		listeners := append([]listener(nil), m.listeners...)

		m.mu.Unlock()
		for _, l := range listeners {
			l.fn(change)
		}
		m.mu.Lock()
	}
	m.delivering = false
	m.mu.Unlock()
}
