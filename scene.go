package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/katistix/envelope/internal/motion"
	"github.com/katistix/envelope/internal/phase"
)

const (
	minWidth  = 40
	minHeight = 20

	// letterFrameWidth is the letter's border plus horizontal padding.
	letterFrameWidth = 6

	// The envelope is drawn at its design size of 320×200; poses are
	// given in those units and scaled to cells.
	designWidth  = 320.0
	designHeight = 200.0
)

// layer is one block painted onto the canvas.
type layer struct {
	block []string
	x, y  int
}

// scene is a laid-out frame: what to paint, back to front, and where
// each clickable piece ended up.
type scene struct {
	width, height int
	layers        []layer

	envelope rect
	letter   rect // empty while the letter is hidden or behind the envelope
	flowers  rect
}

func (s *scene) add(block []string, x, y int) {
	if len(block) > 0 {
		s.layers = append(s.layers, layer{block: block, x: x, y: y})
	}
}

// compose lays out the card for the current frame. View paints the
// result and clicks are hit-tested against the same rects.
func (m model) compose() scene {
	sc := scene{width: m.width, height: m.height - 1}
	if m.width < minWidth || m.height < minHeight {
		return sc
	}
	t := m.seconds()

	for _, h := range m.hearts {
		if x, y, ok := h.at(t, sc.width, sc.height); ok {
			sc.add([]string{h.glyph()}, x, y)
		}
	}

	envW, envH := m.envelopeSize()
	rowsPer := float64(envH) / designHeight
	colsPer := float64(envW) / designWidth
	cx, cy := sc.width/2, sc.height/2+3

	// Envelope.
	env := m.envelope.Pose()
	offset := env.Y
	if m.phase == phase.Closed {
		offset += motion.Bob(t)
	}
	ew := max(8, scaled(envW, env.Scale))
	eh := max(5, scaled(envH, env.Scale))
	ex := cx - ew/2
	ey := cy - eh/2 + round(offset*rowsPer)
	sc.envelope = rect{X: ex, Y: ey, W: ew, H: eh}

	open := m.phase != phase.Closed
	flap, body := envelopeArt(ew, eh, open, ansi.Strip(m.seal.View()))
	if env.Shadow >= 0.1 {
		sc.add(shadowBlock(ew, eh, env.Shadow), ex+2, ey+1)
	}
	sc.add(flap, ex, ey-len(flap))

	// Letter. While it is still inside or rising out of the envelope it
	// sits behind the pocket; after that it is on top.
	var letter layer
	letterPose := m.letter.Pose()
	showLetter := m.phase != phase.Flowers && letterPose.Visible()
	if showLetter {
		block := m.letterBlock(envW, envH, letterPose)
		lw, lh := ansi.StringWidth(block[0]), len(block)
		lx := cx - lw/2 + round(letterPose.Rotate*colsPer*4)
		ly := (ey + eh/2) - lh/2 + round(letterPose.Y*rowsPer)
		ly = clamp(ly, 0, max(0, sc.height-lh))
		if letterPose.Opacity < 0.75 {
			block = fadeBlock(block)
		}
		letter = layer{block: block, x: lx, y: ly}
	}

	behind := m.phase == phase.Closed || m.phase == phase.Peek
	if showLetter && behind {
		sc.add(letter.block, letter.x, letter.y)
	}
	sc.add(body, ex, ey)
	if showLetter && !behind {
		if letterPose.Shadow >= 0.1 {
			sc.add(shadowBlock(ansi.StringWidth(letter.block[0]), len(letter.block), letterPose.Shadow), letter.x+2, letter.y+1)
		}
		sc.add(letter.block, letter.x, letter.y)
		sc.letter = rect{X: letter.x, Y: letter.y, W: ansi.StringWidth(letter.block[0]), H: len(letter.block)}
	}

	// Flowers fade in over everything, and out again after a reset.
	fp := m.flowers.Pose()
	if fp.Visible() {
		block := m.flowersBlock()
		fw, fh := ansi.StringWidth(block[0]), len(block)
		fx := cx - fw/2
		fy := clamp(sc.height/2-fh/2+round(fp.Y*rowsPer), 0, max(0, sc.height-fh))
		if fp.Opacity < 0.75 {
			block = fadeBlock(block)
		}
		sc.add(block, fx, fy)
		if m.phase == phase.Flowers {
			sc.flowers = rect{X: fx, Y: fy, W: fw, H: fh}
		}
	}
	return sc
}

// regionAt is the frontmost clickable piece under (x, y).
func (m model) regionAt(x, y int) region {
	sc := m.compose()
	switch {
	case !sc.flowers.empty() && sc.flowers.contains(x, y):
		return regionFlowers
	case !sc.letter.empty() && sc.letter.contains(x, y):
		return regionLetter
	case !sc.envelope.empty() && sc.envelope.contains(x, y):
		return regionEnvelope
	}
	return regionNone
}

// envelopeSize is the unscaled envelope in cells, keeping roughly the
// 320×200 proportions of the design with cells twice as tall as wide.
func (m model) envelopeSize() (w, h int) {
	w = min(44, m.width-6)
	h = max(7, w*3/10)
	return w, h
}

// expandedWidth is the outer width of the open letter. It follows the
// settled scale so the text does not rewrap while the letter grows.
func (m model) expandedWidth() int {
	envW, _ := m.envelopeSize()
	base := min(m.width-4, envW+4)
	w := scaled(base, motion.LetterPose(phase.Expanded).Scale)
	return min(w, m.width-2)
}

// maxLetterRows is how many text rows the open letter can show at once.
func (m model) maxLetterRows() int {
	return max(1, m.height-1-4)
}

// letterBlock renders the letter for its current phase: the folded
// teaser with its intro line, or the open letter's scrolled text.
func (m model) letterBlock(envW, envH int, pose motion.Pose) []string {
	if m.phase == phase.Expanded {
		return strings.Split(letterStyle.Render(m.viewport.View()), "\n")
	}
	lw := max(letterFrameWidth+4, scaled(envW*7/8, pose.Scale))
	lh := max(5, scaled(envH*4/5, pose.Scale))
	cw, ch := lw-letterFrameWidth, lh-2

	intro := introStyle.Width(cw).Align(lipgloss.Center).Render(m.cfg.Letter.Intro)
	intro = lipgloss.PlaceVertical(ch, lipgloss.Center, intro,
		lipgloss.WithWhitespaceBackground(paperColor))
	lines := strings.Split(intro, "\n")
	if len(lines) > ch {
		lines = lines[:ch]
	}
	return strings.Split(letterStyle.Render(strings.Join(lines, "\n")), "\n")
}

// flowersBlock renders the bouquet card with its caption.
func (m model) flowersBlock() []string {
	cw := m.expandedWidth() - letterFrameWidth
	var rows []string
	for _, line := range bouquetArt() {
		rows = append(rows, lipgloss.PlaceHorizontal(cw, lipgloss.Center, line,
			lipgloss.WithWhitespaceBackground(flowerPaper)))
	}
	rows = append(rows,
		paperStyle.Render(strings.Repeat(" ", cw)),
		captionStyle.Width(cw).Align(lipgloss.Center).Render(m.cfg.Caption),
		bowStyle.Faint(true).Width(cw).Align(lipgloss.Right).Render("♥"),
	)
	return strings.Split(flowerCardStyle.Render(strings.Join(rows, "\n")), "\n")
}

func scaled(n int, scale float64) int {
	return round(float64(n) * scale)
}

func round(v float64) int {
	return int(math.Round(v))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
