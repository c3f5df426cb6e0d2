package main

import "github.com/katistix/envelope/internal/phase"

// --- STATE MANAGEMENT ---

// region is a clickable part of the card.
type region int

const (
	regionNone region = iota
	regionEnvelope
	regionLetter
	regionFlowers
)

func (r region) String() string {
	return [...]string{"none", "envelope", "letter", "flowers"}[r]
}

// clickTarget is the region that responds to a click in p. The letter
// ignores clicks while it is still rising out of the envelope.
func clickTarget(p phase.Phase) region {
	switch p {
	case phase.Closed:
		return regionEnvelope
	case phase.Outside, phase.Expanded:
		return regionLetter
	case phase.Flowers:
		return regionFlowers
	default:
		return regionNone
	}
}

// rect is a screen area in terminal cells.
type rect struct {
	X, Y, W, H int
}

func (r rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r rect) empty() bool { return r.W <= 0 || r.H <= 0 }
