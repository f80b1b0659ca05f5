package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rayhan0x01/gantt-maestro/internal/timeline"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// surfacePoint maps a terminal cell, relative to the top-left of the
// timeline pane, to the centre of that cell in surface coordinates. scroll
// is the number of surface columns hidden to the left of the pane.
func surfacePoint(col, row, scroll int) timeline.Point {
	return timeline.Point{X: float64(col+scroll) + 0.5, Y: float64(row) + 0.5}
}

// cellSpan returns the columns [from, to) whose centres fall in
// [left, right).
func cellSpan(left, right float64) (from, to int) {
	return int(math.Ceil(left - 0.5)), int(math.Ceil(right - 0.5))
}

// timelinePane paints one frame into terminal cells.
type timelinePane struct {
	frame    *timeline.Frame
	aff      timeline.Affordances
	hoverDay int
	dragging string
	// width is the number of columns shown, starting at surface column
	// scroll.
	width  int
	scroll int
}

// RenderTimeline draws f as static text, at least width cells wide. A frame
// wider than that is drawn in full since static output cannot scroll.
func RenderTimeline(f *timeline.Frame, width int) string {
	v := timelinePane{frame: f, hoverDay: -1}
	v.width = max(width, v.surfaceWidth())
	return strings.Join(v.render(), "\n")
}

// surfaceWidth is the number of columns the whole frame needs, padding on
// both sides included.
func (v timelinePane) surfaceWidth() int {
	if v.frame == nil {
		return 0
	}
	f := v.frame
	// Day widths are fractional; ignore rounding noise below a cell.
	return int(math.Ceil(2*f.Origin() + f.Width() - 1e-6))
}

// maxScroll is the largest scroll offset that still fills the pane.
func (v timelinePane) maxScroll() int {
	return max(0, v.surfaceWidth()-v.width)
}

func (v timelinePane) height() int {
	if v.frame == nil {
		return 0
	}
	g := v.frame.Geometry
	return int(math.Ceil(g.HeaderHeight + float64(len(v.frame.Bars))*g.RowSpacing))
}

func (v timelinePane) render() []string {
	if v.frame == nil {
		return nil
	}
	c := newCanvas(max(v.width, v.surfaceWidth()), v.height())
	v.paintHeader(c)
	for _, b := range v.frame.Bars {
		if b.Visible {
			v.paintBar(c, b)
		}
	}
	v.paintGuide(c)
	return c.view(v.scroll, v.width)
}

func (v timelinePane) paintHeader(c *canvas) {
	f := v.frame
	day := c.addStyle(headerDayStyle)
	month := c.addStyle(headerMonthStyle)
	hover := c.addStyle(hoverDayStyle)

	for i, h := range f.Header {
		from, to := cellSpan(f.Origin()+h.X, f.Origin()+h.X+f.DayWidth)
		limit := to
		if to-from > 2 {
			limit = to - 1
		}

		top, bottom := h.Lines()
		if bottom == "" && ansi.StringWidth(top) > limit-from {
			top, bottom = h.Date.Format("02"), h.Date.Format("Jan")
		}
		// Repeating the month under every column is noise; show it where it
		// changes.
		if i > 0 && h.Date.Time().Day() != 1 && bottom == h.Date.Format("Jan") {
			bottom = ""
		}

		topStyle, bottomStyle := day, month
		if i == v.hoverDay {
			topStyle, bottomStyle = hover, hover
			for x := from; x < to; x++ {
				c.set(x, 0, ' ', hover)
				c.set(x, 1, ' ', hover)
			}
		}
		c.text(from, 0, top, limit, topStyle)
		c.text(from, 1, bottom, c.w, bottomStyle)
	}
}

func (v timelinePane) paintBar(c *canvas, b timeline.TaskBar) {
	f := v.frame
	g := f.Geometry
	t := b.Task
	id := t.ID

	left := f.Origin() + b.X
	from, to := cellSpan(left, left+b.Width)
	if to <= from {
		to = from + 1
	}
	_, pto := cellSpan(left, left+b.ProgressWidth())
	y := int(math.Floor(b.Y))

	body, prog := barStyle(t.Color), progressStyle(t.Color)
	if v.dragging == id {
		body, prog = body.Faint(true), prog.Faint(true)
	}
	bodyID, progID := c.addStyle(body), c.addStyle(prog)
	for x := from; x < to; x++ {
		st := bodyID
		if x < pto {
			st = progID
		}
		c.set(x, y, ' ', st)
	}
	c.text(from+1, y, barLabel(t, to-from-2), to-1, keep)

	accent := c.addStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color.Hex())))
	if v.aff.Hovered == id || v.dragging == id {
		if c.blank(from-1, y) {
			c.set(from-1, y, '▐', accent)
		}
		if c.blank(to, y) {
			c.set(to, y, '▌', accent)
		}
	}

	if !v.aff.ShowTrack(id) {
		return
	}
	ty := int(math.Floor(b.Y + g.BarHeight + g.TrackGap))
	empty := c.addStyle(trackStyle)
	for x := from; x < to; x++ {
		if x < pto {
			c.set(x, ty, '━', accent)
		} else {
			c.set(x, ty, '─', empty)
		}
	}
	knob := min(max(pto, from), to-1)
	c.set(knob, ty, '●', accent)
}

// paintGuide draws the hovered day's centre line through empty rows.
func (v timelinePane) paintGuide(c *canvas) {
	f := v.frame
	if v.hoverDay < 0 || v.hoverDay >= f.TotalDays {
		return
	}
	x := int(math.Floor(f.Origin() + (float64(v.hoverDay)+0.5)*f.DayWidth))
	guide := c.addStyle(guideStyle)
	for y := int(f.Geometry.HeaderHeight); y < c.h; y++ {
		if c.blank(x, y) {
			c.set(x, y, '┊', guide)
		}
	}
}

// barLabel fits the task name and its progress into width cells. The
// percentage survives truncation of the name when there is room for it.
func barLabel(t models.Task, width int) string {
	if width <= 0 {
		return ""
	}
	name := t.Name
	if t.Completed {
		name = "✓ " + name
	}
	suffix := ""
	if t.Progress > 0 {
		suffix = fmt.Sprintf(" %d%%", t.Progress)
	}
	if ansi.StringWidth(name+suffix) <= width {
		return name + suffix
	}
	if room := width - ansi.StringWidth(suffix); suffix != "" && room >= 2 {
		return ansi.Truncate(name, room, "…") + suffix
	}
	return ansi.Truncate(name, width, "…")
}
