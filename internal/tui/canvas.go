package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// cont marks the second column of a double-width rune.
const cont = rune(0)

type cell struct {
	r     rune
	style int
}

// keep writes a rune without changing the cell's style.
const keep = -1

// canvas is a fixed grid of styled terminal cells. Style 0 is unstyled.
// Writes outside the grid are dropped.
type canvas struct {
	w, h   int
	cells  [][]cell
	styles []lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(0, w), h: max(0, h), styles: []lipgloss.Style{lipgloss.NewStyle()}}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		row := make([]cell, c.w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) addStyle(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

func (c *canvas) set(x, y int, r rune, style int) {
	if !c.inside(x, y) {
		return
	}
	if style == keep {
		style = c.cells[y][x].style
	}
	c.cells[y][x] = cell{r: r, style: style}
}

func (c *canvas) blank(x, y int) bool {
	return c.inside(x, y) && c.cells[y][x].r == ' ' && c.cells[y][x].style == 0
}

// text writes s from column x, never past column limit (exclusive). Wide
// runes that would straddle the limit are dropped.
func (c *canvas) text(x, y int, s string, limit int, style int) {
	for _, r := range s {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		if x+w > limit {
			return
		}
		c.set(x, y, r, style)
		if w == 2 {
			c.set(x+1, y, cont, style)
		}
		x += w
	}
}

// lines renders the whole grid.
func (c *canvas) lines() []string { return c.view(0, c.w) }

// view renders columns [from, from+width) of every row, merging runs of
// equally styled cells. A wide rune cut by either edge shows as a blank.
func (c *canvas) view(from, width int) []string {
	out := make([]string, c.h)
	for y, row := range c.cells {
		var b, run strings.Builder
		cur := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.styles[cur].Render(run.String()))
			}
			run.Reset()
		}
		for x := max(0, from); x < min(c.w, from+width); x++ {
			cl := row[x]
			r := cl.r
			switch {
			case r == cont && x == from:
				r = ' '
			case r == cont:
				continue
			case x+1 == from+width && x+1 < c.w && row[x+1].r == cont:
				r = ' '
			}
			if cl.style != cur {
				flush()
				cur = cl.style
			}
			run.WriteRune(r)
		}
		flush()
		out[y] = b.String()
	}
	return out
}
