package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters for the playfield box.
const (
	BorderVert  = '│'
	BorderHoriz = '─'
	BorderTL    = '┌'
	BorderTR    = '┐'
	BorderBL    = '└'
	BorderBR    = '┘'
)

// cell is one canvas position: a glyph plus its foreground color as a
// "#rrggbb" string. The empty color renders unstyled.
type cell struct {
	ch rune
	fg string
}

// Canvas is a color-aware character buffer the live player draws each
// frame into. The origin is the top-left corner. Writes outside the
// bounds are silently ignored, so draw code needs no clipping of its own.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
	styles map[string]lipgloss.Style
}

// NewCanvas creates a canvas of the given size, filled with spaces.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([][]cell, height),
		styles: make(map[string]lipgloss.Style),
	}
	for y := range c.cells {
		c.cells[y] = make([]cell, width)
	}
	c.Clear()
	return c
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Clear resets every cell to an uncolored space.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{ch: ' '}
		}
	}
}

// Set writes one glyph with a foreground color.
func (c *Canvas) Set(x, y int, ch rune, fg string) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = cell{ch: ch, fg: fg}
}

// Get returns the glyph at (x, y), or a space when out of bounds.
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.cells[y][x].ch
}

// DrawText writes a string starting at (x, y), clipped at the right edge.
func (c *Canvas) DrawText(x, y int, text, fg string) {
	i := 0
	for _, ch := range text {
		c.Set(x+i, y, ch, fg)
		i++
	}
}

// DrawBox draws a border box with the given outer dimensions.
func (c *Canvas) DrawBox(x, y, w, h int, fg string) {
	if w < 2 || h < 2 {
		return
	}

	c.Set(x, y, BorderTL, fg)
	c.Set(x+w-1, y, BorderTR, fg)
	c.Set(x, y+h-1, BorderBL, fg)
	c.Set(x+w-1, y+h-1, BorderBR, fg)

	for i := x + 1; i < x+w-1; i++ {
		c.Set(i, y, BorderHoriz, fg)
		c.Set(i, y+h-1, BorderHoriz, fg)
	}
	for j := y + 1; j < y+h-1; j++ {
		c.Set(x, j, BorderVert, fg)
		c.Set(x+w-1, j, BorderVert, fg)
	}
}

// String converts the canvas to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (c *Canvas) String() string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(c.width*c.height*2 + c.height)

	for y := range c.cells {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.width {
			startColor := c.cells[y][x].fg

			// Collect consecutive cells with the same color
			var run strings.Builder
			for x < c.width && c.cells[y][x].fg == startColor {
				run.WriteRune(c.cells[y][x].ch)
				x++
			}

			if startColor == "" {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(c.style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// style returns the memoized foreground style for a color.
func (c *Canvas) style(fg string) lipgloss.Style {
	s, ok := c.styles[fg]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
		c.styles[fg] = s
	}
	return s
}

// HexColor formats a color as the "#rrggbb" string the canvas expects.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
