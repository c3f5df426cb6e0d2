package main

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

// heart is one of the hearts drifting up behind the card.
type heart struct {
	x        float64 // horizontal position, 0..1 of the width
	big      bool
	delay    float64 // seconds before the first rise
	duration float64 // seconds per rise
	sway     float64 // horizontal drift, fraction of the width
	color    lipgloss.Color
}

func newHearts(n int, seed uint64) []heart {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	hearts := make([]heart, n)
	for i := range hearts {
		hearts[i] = heart{
			x:        rng.Float64(),
			big:      rng.Float64()*25+10 > 22,
			delay:    rng.Float64() * 20,
			duration: rng.Float64()*10 + 20,
			sway:     rng.Float64()*0.15 - 0.075,
			color:    heartColors[rng.IntN(len(heartColors))],
		}
	}
	return hearts
}

// at returns where the heart is t seconds in, in cells, and whether it
// is visible. Hearts rise from just below the bottom edge to just above
// the top, fading in and out at the ends of the trip.
func (h heart) at(t float64, width, height int) (x, y int, visible bool) {
	if t < h.delay {
		return 0, 0, false
	}
	progress := math.Mod(t-h.delay, h.duration) / h.duration
	if progress < 0.1 || progress > 0.9 {
		return 0, 0, false
	}

	fy := 1.1 - 1.2*progress
	fx := h.x + h.sway*math.Sin(2*math.Pi*t/6)
	x = int(math.Round(fx * float64(width-1)))
	y = int(math.Round(fy * float64(height-1)))
	if x < 0 || x >= width || y < 0 || y >= height {
		return 0, 0, false
	}
	return x, y, true
}

func (h heart) glyph() string {
	r := "♡"
	if h.big {
		r = "♥"
	}
	return lipgloss.NewStyle().Foreground(h.color).Faint(true).Render(r)
}
