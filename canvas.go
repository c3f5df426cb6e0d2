package main

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// canvas is a fixed-size grid of styled lines that blocks are painted
// onto back to front.
type canvas struct {
	width int
	lines []string
}

func newCanvas(width, height int) *canvas {
	blank := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = blank
	}
	return &canvas{width: width, lines: lines}
}

// place paints block with its top-left corner at (x, y). Parts that fall
// outside the canvas are clipped.
func (c *canvas) place(block []string, x, y int) {
	for i, line := range block {
		row := y + i
		if row < 0 || row >= len(c.lines) {
			continue
		}
		c.lines[row] = c.splice(c.lines[row], line, x)
	}
}

func (c *canvas) splice(under, over string, x int) string {
	if x < 0 {
		over = ansi.TruncateLeft(over, -x, "")
		x = 0
	}
	if x >= c.width {
		return under
	}
	if x+ansi.StringWidth(over) > c.width {
		over = ansi.Truncate(over, c.width-x, "")
	}
	overWidth := ansi.StringWidth(over)
	if overWidth == 0 {
		return under
	}

	var b strings.Builder
	if x > 0 {
		b.WriteString(ansi.Truncate(under, x, ""))
	}
	b.WriteString("\x1b[0m")
	b.WriteString(over)
	b.WriteString("\x1b[0m")
	if end := x + overWidth; end < ansi.StringWidth(under) {
		b.WriteString(ansi.TruncateLeft(under, end, ""))
	}
	return b.String()
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}
