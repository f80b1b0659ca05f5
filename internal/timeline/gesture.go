package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// Gesture errors.
var (
	// ErrDanglingReference is returned when a gesture targets a task that is
	// no longer in the current frame. The session is dropped.
	ErrDanglingReference = errors.New("task no longer present")
	// ErrBusy is returned by PointerDown while another gesture holds the
	// pointer.
	ErrBusy = errors.New("pointer already captured")
	// ErrUnknownKind is returned for an unrecognised drag kind.
	ErrUnknownKind = errors.New("unknown drag kind")
)

// DragKind identifies what a gesture edits.
type DragKind string

const (
	Move        DragKind = "move"
	ResizeStart DragKind = "resize-start"
	ResizeEnd   DragKind = "resize-end"
	SetProgress DragKind = "set-progress"
)

// Valid reports whether k is a known kind.
func (k DragKind) Valid() bool {
	switch k {
	case Move, ResizeStart, ResizeEnd, SetProgress:
		return true
	}
	return false
}

// ParseDragKind parses a kind name. "progress" is accepted for SetProgress.
func ParseDragKind(s string) (DragKind, error) {
	if s == "progress" {
		return SetProgress, nil
	}
	k := DragKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// DragSession is the state of one in-flight gesture. Snapshot is the task as
// it was at pointer-down; every delta is computed against it, never against
// the live task, so rounding does not compound across move events.
type DragSession struct {
	TaskID   string      `json:"taskId"`
	Kind     DragKind    `json:"kind"`
	AnchorX  float64     `json:"anchorX"`
	Snapshot models.Task `json:"snapshot"`
}

// State is the interpreter state: Idle or Dragging.
type State interface {
	isState()
}

// Idle means no gesture is in progress.
type Idle struct{}

// Dragging holds the active session.
type Dragging struct {
	Session DragSession
}

func (Idle) isState()     {}
func (Dragging) isState() {}

// UpdateFunc receives task updates. It may be called once per move event;
// each call is authoritative so far, not a batch to merge later.
type UpdateFunc func(taskID string, patch models.TaskPatch)

// Interpreter turns pointer events into task updates. It never writes task
// data itself: every change is a request through the UpdateFunc, and the
// caller feeds the resulting task list back in through SetFrame.
type Interpreter struct {
	state  State
	frame  *Frame
	update UpdateFunc
}

// NewInterpreter returns an idle interpreter that emits updates to update.
func NewInterpreter(update UpdateFunc) *Interpreter {
	return &Interpreter{state: Idle{}, update: update}
}

// SetFrame installs the latest layout. Progress drags read live bar geometry
// from it and every event checks that its task is still present.
func (in *Interpreter) SetFrame(f *Frame) {
	in.frame = f
}

// State returns the current state.
func (in *Interpreter) State() State { return in.state }

// Session returns the active session, if any.
func (in *Interpreter) Session() (DragSession, bool) {
	if d, ok := in.state.(Dragging); ok {
		return d.Session, true
	}
	return DragSession{}, false
}

// Dragging reports whether taskID is the target of the active gesture.
func (in *Interpreter) Dragging(taskID string) bool {
	s, ok := in.Session()
	return ok && s.TaskID == taskID
}

// PointerDown starts a gesture on taskID. It is ignored with ErrBusy while a
// gesture is already active.
func (in *Interpreter) PointerDown(p Point, taskID string, kind DragKind) error {
	if _, busy := in.state.(Dragging); busy {
		return ErrBusy
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	bar, ok := in.lookup(taskID)
	if !ok {
		return fmt.Errorf("starting %s on %s: %w", kind, taskID, ErrDanglingReference)
	}
	in.state = Dragging{Session: DragSession{
		TaskID:   taskID,
		Kind:     kind,
		AnchorX:  p.X,
		Snapshot: bar.Task,
	}}
	return nil
}

// PointerMove recomputes the update for the active gesture and emits it.
// It is a no-op while idle. If the target task has disappeared the session
// is aborted and ErrDanglingReference returned.
func (in *Interpreter) PointerMove(p Point) error {
	d, ok := in.state.(Dragging)
	if !ok {
		return nil
	}
	if _, present := in.lookup(d.Session.TaskID); !present {
		in.state = Idle{}
		return fmt.Errorf("moving %s: %w", d.Session.TaskID, ErrDanglingReference)
	}

	patch, apply, err := Preview(d.Session, p, in.frame)
	if err != nil {
		in.state = Idle{}
		return err
	}
	if apply && in.update != nil {
		in.update(d.Session.TaskID, patch)
	}
	return nil
}

// PointerUp ends the gesture. There is no commit step; the last move already
// wrote through. It returns the finished session, if there was one.
func (in *Interpreter) PointerUp() (DragSession, bool) {
	return in.release()
}

// PointerCancel abandons the gesture. Nothing beyond what was already emitted
// is owed.
func (in *Interpreter) PointerCancel() (DragSession, bool) {
	return in.release()
}

// CaptureLost handles the pointer device going away mid-gesture.
func (in *Interpreter) CaptureLost() (DragSession, bool) {
	return in.release()
}

func (in *Interpreter) release() (DragSession, bool) {
	s, ok := in.Session()
	in.state = Idle{}
	return s, ok
}

func (in *Interpreter) lookup(taskID string) (TaskBar, bool) {
	if in.frame == nil {
		return TaskBar{}, false
	}
	return in.frame.Bar(taskID)
}

// Preview computes the update a pointer at p would produce for session s.
// apply is false when a resize guard rejects the event; the event is then
// skipped rather than clamped. Progress uses the bar's geometry in f, not the
// snapshot, because it is position-absolute.
func Preview(s DragSession, p Point, f *Frame) (patch models.TaskPatch, apply bool, err error) {
	if f == nil {
		return models.TaskPatch{}, false, ErrDanglingReference
	}
	snap := s.Snapshot

	switch s.Kind {
	case Move:
		delta := DeltaDays(p.X-s.AnchorX, f.DayWidth)
		start := snap.StartDate.AddDays(delta)
		end := snap.EndDate.AddDays(delta)
		return models.TaskPatch{StartDate: &start, EndDate: &end}, true, nil

	case ResizeStart:
		start := snap.StartDate.AddDays(DeltaDays(p.X-s.AnchorX, f.DayWidth))
		if !start.Before(snap.EndDate) {
			return models.TaskPatch{}, false, nil
		}
		return models.TaskPatch{StartDate: &start}, true, nil

	case ResizeEnd:
		end := snap.EndDate.AddDays(DeltaDays(p.X-s.AnchorX, f.DayWidth))
		if !end.After(snap.StartDate) {
			return models.TaskPatch{}, false, nil
		}
		return models.TaskPatch{EndDate: &end}, true, nil

	case SetProgress:
		bar, ok := f.Bar(s.TaskID)
		if !ok {
			return models.TaskPatch{}, false, ErrDanglingReference
		}
		progress := ProgressAt(p.X-f.Origin()-bar.X, bar.Width)
		return models.TaskPatch{Progress: &progress}, true, nil

	default:
		return models.TaskPatch{}, false, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}

// DeltaDays converts a horizontal pointer delta into whole days, rounding
// halves up.
func DeltaDays(dx, dayWidth float64) int {
	if dayWidth <= 0 {
		return 0
	}
	return int(roundHalfUp(dx / dayWidth))
}

// ProgressAt returns the percentage for a pointer rel units into a bar of
// the given width, clamped to [0, 100].
func ProgressAt(rel, width float64) int {
	if width <= 0 {
		return 0
	}
	pct := math.Max(0, math.Min(100, 100*rel/width))
	return int(roundHalfUp(pct))
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
