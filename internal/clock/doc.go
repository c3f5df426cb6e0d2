// Package clock is the time source for deferred transitions.
//
// The card never calls time.AfterFunc directly. Production code hands a
// Real clock to whatever needs to schedule work; tests hand it a
// FakeClock and move time forward explicitly:
//
//	c := clock.Fake(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
//	m := phase.New(phase.WithClock(c))
//	m.Open()
//	c.Advance(900 * time.Millisecond) // fires the peek timer in this goroutine
//
// A FakeClock runs AfterFunc callbacks synchronously inside Advance, in
// deadline order, so a test observes the result as soon as Advance
// returns.
package clock
