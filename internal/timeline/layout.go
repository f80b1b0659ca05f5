// Package timeline maps task date ranges onto a scaled horizontal axis and
// turns pointer drag gestures into task updates.
//
// The layout half is a pure function: Engine.Layout derives a Frame from a
// task list and a visible date window every render, with no retained state.
// The gesture half (Interpreter) holds the only mutable state, the drag
// session that lives between pointer-down and pointer-up.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// ErrInvalidRange is returned when a date window ends before it starts.
var ErrInvalidRange = errors.New("invalid date range")

// RangeError describes an invalid window. It matches ErrInvalidRange with
// errors.Is.
type RangeError struct {
	Start, End models.Date
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid date range: end %s precedes start %s", e.End, e.Start)
}

func (e *RangeError) Is(target error) bool { return target == ErrInvalidRange }

// minBarFraction keeps single-day bars visibly wider than the gridline gap.
const minBarFraction = 0.8

// DateWindow is the inclusive range of dates visible on the timeline.
type DateWindow struct {
	Start models.Date `json:"start"`
	End   models.Date `json:"end"`
}

// NewWindow returns a window of n days beginning at start. n below 1 is
// treated as 1.
func NewWindow(start models.Date, days int) DateWindow {
	if days < 1 {
		days = 1
	}
	return DateWindow{Start: start, End: start.AddDays(days - 1)}
}

// ParseWindow builds a window from optional YYYY-MM-DD bounds. A blank from
// means today and a blank to means days after from.
func ParseWindow(from, to string, today models.Date, days int) (DateWindow, error) {
	w := DateWindow{Start: today}
	if from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			return DateWindow{}, fmt.Errorf("window start: %w", err)
		}
		w.Start = d
	}
	w.End = w.Start.AddDays(days)
	if to != "" {
		d, err := models.ParseDate(to)
		if err != nil {
			return DateWindow{}, fmt.Errorf("window end: %w", err)
		}
		w.End = d
	}
	if err := w.Validate(); err != nil {
		return DateWindow{}, err
	}
	return w, nil
}

// Days returns the inclusive number of days in the window. It is zero or
// negative for an inverted window.
func (w DateWindow) Days() int {
	return w.End.DaysSince(w.Start) + 1
}

// Contains reports whether d falls inside the window, inclusive.
func (w DateWindow) Contains(d models.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Shift moves both ends of the window by n days.
func (w DateWindow) Shift(n int) DateWindow {
	return DateWindow{Start: w.Start.AddDays(n), End: w.End.AddDays(n)}
}

// Validate returns a *RangeError if the window is inverted.
func (w DateWindow) Validate() error {
	if w.End.Before(w.Start) {
		return &RangeError{Start: w.Start, End: w.End}
	}
	return nil
}

// Geometry holds the fixed measurements of the timeline surface. Units are
// whatever the renderer draws in: pixels for PixelGeometry, terminal cells
// for TerminalGeometry.
type Geometry struct {
	MinDayWidth     float64 `json:"minDayWidth"`
	Padding         float64 `json:"padding"`
	HeaderHeight    float64 `json:"headerHeight"`
	RowSpacing      float64 `json:"rowSpacing"`
	BarHeight       float64 `json:"barHeight"`
	TrackGap        float64 `json:"trackGap"`
	TrackHeight     float64 `json:"trackHeight"`
	HandleWidth     float64 `json:"handleWidth"`
	HoverMargin     float64 `json:"hoverMargin"`
	AbbreviateAfter int     `json:"abbreviateAfter"`
}

// PixelGeometry returns the measurements of the browser timeline.
func PixelGeometry() Geometry {
	return Geometry{
		MinDayWidth:     36,
		Padding:         20,
		HeaderHeight:    56,
		RowSpacing:      46,
		BarHeight:       32,
		TrackGap:        1,
		TrackHeight:     6,
		HandleWidth:     4,
		HoverMargin:     4,
		AbbreviateAfter: 14,
	}
}

// TerminalGeometry returns measurements in terminal cells. Each row takes a
// bar line, a progress track line and a spacer line.
func TerminalGeometry() Geometry {
	return Geometry{
		MinDayWidth:     4,
		Padding:         1,
		HeaderHeight:    2,
		RowSpacing:      3,
		BarHeight:       1,
		TrackGap:        0,
		TrackHeight:     1,
		HandleWidth:     2,
		HoverMargin:     0,
		AbbreviateAfter: 14,
	}
}

// TaskBar is the derived placement of one task. X is relative to the
// timeline origin, Y is absolute on the surface.
type TaskBar struct {
	Task            models.Task `json:"task"`
	Row             int         `json:"row"`
	X               float64     `json:"x"`
	Width           float64     `json:"width"`
	Y               float64     `json:"y"`
	Visible         bool        `json:"visible"`
	StartOffsetDays int         `json:"startOffsetDays"`
	DurationDays    int         `json:"durationDays"`
}

// ProgressWidth returns the width of the progress overlay, clamped to the
// bar.
func (b TaskBar) ProgressWidth() float64 {
	w := b.Width * float64(b.Task.Progress) / 100
	return math.Max(0, math.Min(b.Width, w))
}

// HeaderCell is one day column of the date axis.
type HeaderCell struct {
	Date  models.Date `json:"date"`
	X     float64     `json:"x"`
	Label string      `json:"label"`
}

// Lines splits the label into the two header rows. Abbreviated labels put
// the day on top and the month below; full labels use the top row only.
func (c HeaderCell) Lines() (top, bottom string) {
	if i := strings.IndexByte(c.Label, ','); i >= 0 {
		return c.Label[:i], c.Label[i+1:]
	}
	return c.Label, ""
}

// Frame is the full derived layout for one render.
type Frame struct {
	Window    DateWindow   `json:"window"`
	Geometry  Geometry     `json:"geometry"`
	TotalDays int          `json:"totalDays"`
	DayWidth  float64      `json:"dayWidth"`
	Bars      []TaskBar    `json:"bars"`
	Header    []HeaderCell `json:"header"`
}

// Origin is the surface x of the first day column.
func (f *Frame) Origin() float64 { return f.Geometry.Padding }

// Width returns the extent of all day columns.
func (f *Frame) Width() float64 { return float64(f.TotalDays) * f.DayWidth }

// Bar returns the bar of the task with the given ID.
func (f *Frame) Bar(taskID string) (TaskBar, bool) {
	for _, b := range f.Bars {
		if b.Task.ID == taskID {
			return b, true
		}
	}
	return TaskBar{}, false
}

// Visible returns the bars that intersect the window, in row order.
func (f *Frame) Visible() []TaskBar {
	out := make([]TaskBar, 0, len(f.Bars))
	for _, b := range f.Bars {
		if b.Visible {
			out = append(out, b)
		}
	}
	return out
}

// DayAt maps a surface x to a day index, or -1 when x is outside the day
// columns.
func (f *Frame) DayAt(x float64) int {
	rel := x - f.Origin()
	if rel < 0 || rel > f.Width() || f.DayWidth <= 0 {
		return -1
	}
	idx := int(math.Floor(rel / f.DayWidth))
	if idx >= f.TotalDays {
		idx = f.TotalDays - 1
	}
	return idx
}

// Engine computes frames for a fixed geometry.
type Engine struct {
	Geometry Geometry
}

// NewEngine returns an Engine using g.
func NewEngine(g Geometry) *Engine {
	return &Engine{Geometry: g}
}

// Layout places tasks on the window given a horizontal budget. Tasks keep
// list order as row order. Bars for tasks outside the window are returned
// with Visible=false and must not be drawn.
func (e *Engine) Layout(tasks []models.Task, window DateWindow, budget float64) (*Frame, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	g := e.Geometry

	totalDays := window.Days()
	if totalDays < 1 {
		totalDays = 1
	}
	dayWidth := math.Max(g.MinDayWidth, (budget-2*g.Padding)/float64(totalDays))

	f := &Frame{
		Window:    window,
		Geometry:  g,
		TotalDays: totalDays,
		DayWidth:  dayWidth,
		Bars:      make([]TaskBar, len(tasks)),
		Header:    make([]HeaderCell, totalDays),
	}

	for i, task := range tasks {
		f.Bars[i] = placeBar(task, i, window, dayWidth, g)
	}

	layout := "Jan 02"
	if totalDays > g.AbbreviateAfter {
		layout = "02,Jan"
	}
	for i := 0; i < totalDays; i++ {
		d := window.Start.AddDays(i)
		f.Header[i] = HeaderCell{
			Date:  d,
			X:     float64(i) * dayWidth,
			Label: d.Format(layout),
		}
	}

	return f, nil
}

func placeBar(task models.Task, row int, w DateWindow, dayWidth float64, g Geometry) TaskBar {
	start, end := task.StartDate, task.EndDate

	visible := w.Contains(start) || w.Contains(end) ||
		(start.Before(w.Start) && end.After(w.End))

	clampedStart := models.MaxDate(start, w.Start)
	clampedEnd := models.MinDate(end, w.End)

	offset := max(0, clampedStart.DaysSince(w.Start))
	duration := max(1, clampedEnd.DaysSince(clampedStart)+1)

	return TaskBar{
		Task:            task,
		Row:             row,
		X:               float64(offset) * dayWidth,
		Width:           math.Max(dayWidth*minBarFraction, float64(duration)*dayWidth),
		Y:               g.HeaderHeight + float64(row)*g.RowSpacing,
		Visible:         visible,
		StartOffsetDays: offset,
		DurationDays:    duration,
	}
}
