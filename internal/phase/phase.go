// Package phase holds the card's single authoritative phase value and the
// transitions that are allowed to change it.
//
// The forward path is closed → peek → outside → expanded → flowers.
// Reset returns to closed from anywhere. The peek → outside step is not
// requested by the user; the Machine schedules it when peek is entered
// and cancels it when peek is left early or the machine is closed.
package phase

import "fmt"

// Phase is the visual stage of the card.
type Phase int

const (
	Closed Phase = iota
	Peek
	Outside
	Expanded
	Flowers
)

var names = [...]string{"closed", "peek", "outside", "expanded", "flowers"}

func (p Phase) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return names[p]
}

// Valid reports whether p is one of the five phases.
func (p Phase) Valid() bool {
	return p >= Closed && p <= Flowers
}

// Next returns the phase that follows p on the forward path and false
// for flowers, whose only exit is a reset.
func (p Phase) Next() (Phase, bool) {
	if !p.Valid() || p == Flowers {
		return p, false
	}
	return p + 1, true
}

// All returns the phases in forward order.
func All() []Phase {
	return []Phase{Closed, Peek, Outside, Expanded, Flowers}
}

// MarshalText encodes the phase by name, so it reads well in logs.
func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(p.String()), nil
}

// Cause names what produced a transition.
type Cause int

const (
	CauseOpen Cause = iota
	CauseTimer
	CauseExpand
	CauseAdvance
	CauseReset
)

func (c Cause) String() string {
	switch c {
	case CauseOpen:
		return "open"
	case CauseTimer:
		return "timer"
	case CauseExpand:
		return "expand"
	case CauseAdvance:
		return "advance"
	case CauseReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes one applied transition.
type Change struct {
	From  Phase
	To    Phase
	Cause Cause
}
