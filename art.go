package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ink is what a sketch cell is drawn with; each ink maps to a style.
type ink uint8

const (
	inkNone ink = iota
	inkFill
	inkEdge
	inkInterior
	inkSeal
)

// sketch is a small rune grid for line art that is styled per cell.
type sketch struct {
	w, h  int
	runes [][]rune
	inks  [][]ink
}

func newSketch(w, h int, fill ink) *sketch {
	s := &sketch{w: w, h: h, runes: make([][]rune, h), inks: make([][]ink, h)}
	for y := 0; y < h; y++ {
		s.runes[y] = []rune(strings.Repeat(" ", w))
		s.inks[y] = make([]ink, w)
		for x := range s.inks[y] {
			s.inks[y][x] = fill
		}
	}
	return s
}

func (s *sketch) set(x, y int, r rune, k ink) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.runes[y][x] = r
	s.inks[y][x] = k
}

func (s *sketch) text(x, y int, str string, k ink) {
	for i, r := range []rune(str) {
		s.set(x+i, y, r, k)
	}
}

// line draws a straight segment from (x0, y0) to (x1, y1). Shallow
// segments are plotted per column with a slanted rune at each step down
// or up; steep ones per row.
func (s *sketch) line(x0, y0, x1, y1 int, k ink) {
	dx, dy := x1-x0, y1-y0
	slant := '╲'
	if (dx > 0) != (dy > 0) {
		slant = '╱'
	}

	if abs(dx) >= abs(dy) {
		if dx == 0 {
			s.set(x0, y0, '·', k)
			return
		}
		step := sign(dx)
		prev := y0
		for x := x0; x != x1+step; x += step {
			y := y0 + int(math.Round(float64(dy)*float64(x-x0)/float64(dx)))
			r := '─'
			if y != prev {
				r = slant
			}
			s.set(x, y, r, k)
			prev = y
		}
		return
	}

	step := sign(dy)
	for y := y0; y != y1+step; y += step {
		x := x0 + int(math.Round(float64(dx)*float64(y-y0)/float64(dy)))
		r := slant
		if dx == 0 {
			r = '│'
		}
		s.set(x, y, r, k)
	}
}

// render styles runs of equal ink in one go.
func (s *sketch) render(styles map[ink]lipgloss.Style) []string {
	lines := make([]string, s.h)
	for y := 0; y < s.h; y++ {
		var b strings.Builder
		start := 0
		for x := 1; x <= s.w; x++ {
			if x < s.w && s.inks[y][x] == s.inks[y][start] {
				continue
			}
			run := string(s.runes[y][start:x])
			if style, ok := styles[s.inks[y][start]]; ok {
				run = style.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		lines[y] = b.String()
	}
	return lines
}

var envelopeInks = map[ink]lipgloss.Style{
	inkFill:     envelopeFillStyle,
	inkEdge:     envelopeEdgeStyle,
	inkInterior: interiorStyle,
	inkSeal:     sealStyle,
}

// envelopeArt draws an envelope body of w×h cells. An open envelope also
// returns its flap, folded back above the body; a closed one returns no
// flap and shows the seal where the flap's point meets the pocket.
func envelopeArt(w, h int, open bool, seal string) (flap, body []string) {
	s := newSketch(w, h, inkFill)
	cx, cy := w/2, h/2

	if open {
		// Interior visible above the pocket.
		for y := 1; y < cy; y++ {
			inset := int(math.Round(float64(y) * float64(cx) / float64(cy)))
			for x := inset + 1; x < w-inset-1; x++ {
				s.set(x, y, ' ', inkInterior)
			}
		}
	}

	// Pocket seams from each corner to the middle.
	s.line(0, 0, cx, cy, inkEdge)
	s.line(w-1, 0, cx, cy, inkEdge)
	s.line(0, h-1, cx, cy, inkEdge)
	s.line(w-1, h-1, cx, cy, inkEdge)

	if !open {
		apex := h * 45 / 66
		for y := 1; y < apex; y++ {
			for x := 1; x < w-1; x++ {
				s.set(x, y, ' ', inkFill)
			}
		}
		s.line(0, 0, cx, apex, inkEdge)
		s.line(w-1, 0, cx, apex, inkEdge)
		s.text(cx-len([]rune(seal))/2, apex-1, seal, inkSeal)
	}

	frame(s)
	body = s.render(envelopeInks)

	if open {
		flapH := max(2, h*45/100)
		f := newSketch(w, flapH, inkNone)
		for row := 0; row < flapH; row++ {
			y := flapH - 1 - row
			inset := int(math.Round(float64(row) * float64(cx) / float64(flapH)))
			for x := inset; x < w-inset; x++ {
				f.set(x, y, ' ', inkFill)
			}
		}
		f.line(0, flapH-1, cx, 0, inkEdge)
		f.line(w-1, flapH-1, cx, 0, inkEdge)
		f.set(cx, 0, '♥', inkSeal)
		flap = f.render(envelopeInks)
	}
	return flap, body
}

// frame draws a box border around the sketch.
func frame(s *sketch) {
	for x := 1; x < s.w-1; x++ {
		s.set(x, 0, '─', inkEdge)
		s.set(x, s.h-1, '─', inkEdge)
	}
	for y := 1; y < s.h-1; y++ {
		s.set(0, y, '│', inkEdge)
		s.set(s.w-1, y, '│', inkEdge)
	}
	s.set(0, 0, '┌', inkEdge)
	s.set(s.w-1, 0, '┐', inkEdge)
	s.set(0, s.h-1, '└', inkEdge)
	s.set(s.w-1, s.h-1, '┘', inkEdge)
}

// bouquet is the flower scene's line art. Each rune's class picks its
// colour; see flowerInk.
var bouquet = []string{
	`     .-.    .-.    .-.     `,
	`    ( @ )  ( @ )  ( @ )    `,
	`  .-.'-' *  '-' *  '-'.-.  `,
	` ( @ )\     .-.     /( @ ) `,
	`  '-' ~\ * ( @ ) * /~ '-'  `,
	`     *  \   '-'   /  *     `,
	`      ~  \   |   /  ~      `,
	`          \  |  /          `,
	`           \ | /           `,
	`           >=♥=<           `,
	`            / \            `,
}

func flowerInk(r rune) lipgloss.Style {
	switch r {
	case '(', ')', '.', '-', '\'':
		return petalStyle
	case '@':
		return centerStyle
	case '\\', '/', '|':
		return stemStyle
	case '~':
		return leafStyle
	case '*':
		return breathStyle
	case '>', '<', '=', '♥':
		return bowStyle
	default:
		return paperStyle
	}
}

// bouquetArt paints the bouquet one rune at a time.
func bouquetArt() []string {
	lines := make([]string, len(bouquet))
	for i, row := range bouquet {
		var b strings.Builder
		for _, r := range row {
			b.WriteString(flowerInk(r).Render(string(r)))
		}
		lines[i] = b.String()
	}
	return lines
}

// fadeBlock redraws a block as plain pale text, for pieces that are half
// faded in or out.
func fadeBlock(block []string) []string {
	faded := make([]string, len(block))
	for i, line := range block {
		faded[i] = shadowStyle.Render(ansi.Strip(line))
	}
	return faded
}

// shadowBlock is a w×h patch of shade; heavier shadows use a denser rune.
func shadowBlock(w, h int, strength float64) []string {
	r := "░"
	if strength >= 0.4 {
		r = "▒"
	}
	line := shadowStyle.Render(strings.Repeat(r, w))
	block := make([]string, h)
	for i := range block {
		block[i] = line
	}
	return block
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
