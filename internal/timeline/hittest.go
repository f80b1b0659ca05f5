package timeline

// Point is a pointer position in surface coordinates (the origin includes
// the timeline padding).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Affordances controls which optional hit regions are live. Progress tracks
// are interactive only while shown: always on coarse pointers, otherwise
// only under hover.
type Affordances struct {
	Always  bool
	Hovered string
}

// ShowTrack reports whether the progress track of taskID is shown.
func (a Affordances) ShowTrack(taskID string) bool {
	return a.Always || (taskID != "" && a.Hovered == taskID)
}

// Hit is the interactive region under a pointer.
type Hit struct {
	TaskID string
	Kind   DragKind
}

// HitTest resolves p to the topmost interactive region. Later rows paint over
// earlier ones; within a bar the end handle paints over the start handle,
// which paints over the progress track and the bar body.
func (f *Frame) HitTest(p Point, aff Affordances) (Hit, bool) {
	g := f.Geometry
	half := g.HandleWidth / 2

	for i := len(f.Bars) - 1; i >= 0; i-- {
		b := f.Bars[i]
		if !b.Visible {
			continue
		}
		left := f.Origin() + b.X
		right := left + b.Width
		id := b.Task.ID

		inBarRows := p.Y >= b.Y && p.Y < b.Y+g.BarHeight
		if inBarRows {
			switch {
			case p.X >= right-half && p.X < right+half:
				return Hit{TaskID: id, Kind: ResizeEnd}, true
			case p.X >= left-half && p.X < left+half:
				return Hit{TaskID: id, Kind: ResizeStart}, true
			}
		}

		if aff.ShowTrack(id) {
			top := b.Y + g.BarHeight + g.TrackGap
			if p.Y >= top && p.Y < top+g.TrackHeight && p.X >= left && p.X < right {
				return Hit{TaskID: id, Kind: SetProgress}, true
			}
		}

		if inBarRows && p.X >= left && p.X < right {
			return Hit{TaskID: id, Kind: Move}, true
		}
	}
	return Hit{}, false
}

// HoverTarget returns the ID of the task whose hover area (bar plus progress
// track, widened by HoverMargin) contains p.
func (f *Frame) HoverTarget(p Point) (string, bool) {
	g := f.Geometry
	for i := len(f.Bars) - 1; i >= 0; i-- {
		b := f.Bars[i]
		if !b.Visible {
			continue
		}
		left := f.Origin() + b.X
		top := b.Y - g.HoverMargin
		bottom := b.Y + g.BarHeight + g.TrackGap + g.TrackHeight + g.HoverMargin
		if p.X >= left && p.X < left+b.Width && p.Y >= top && p.Y < bottom {
			return b.Task.ID, true
		}
	}
	return "", false
}
