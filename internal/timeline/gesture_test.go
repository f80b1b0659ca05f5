package timeline

import (
	"errors"
	"testing"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

type recordedUpdate struct {
	taskID string
	patch  models.TaskPatch
}

type recorder struct {
	updates []recordedUpdate
}

func (r *recorder) update(taskID string, patch models.TaskPatch) {
	r.updates = append(r.updates, recordedUpdate{taskID: taskID, patch: patch})
}

func (r *recorder) last(t *testing.T) models.TaskPatch {
	t.Helper()
	if len(r.updates) == 0 {
		t.Fatal("expected at least one update")
	}
	return r.updates[len(r.updates)-1].patch
}

// newTestInterpreter lays out tasks on a 10-day pixel window where one day is
// 76 units wide.
func newTestInterpreter(t *testing.T, tasks ...models.Task) (*Interpreter, *recorder, *Frame) {
	t.Helper()
	f, err := NewEngine(PixelGeometry()).Layout(tasks, window("2024-01-01", "2024-01-10"), 800)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	rec := &recorder{}
	in := NewInterpreter(rec.update)
	in.SetFrame(f)
	return in, rec, f
}

func TestInterpreter_StartsIdle(t *testing.T) {
	in := NewInterpreter(nil)
	if _, ok := in.State().(Idle); !ok {
		t.Fatalf("expected Idle, got %T", in.State())
	}
	if err := in.PointerMove(Point{X: 10}); err != nil {
		t.Errorf("move while idle should be a no-op, got %v", err)
	}
}

func TestInterpreter_MoveShiftsBothDates(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-05", "2024-01-07"))

	if err := in.PointerDown(Point{X: 100}, "a", Move); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if err := in.PointerMove(Point{X: 100 + 3*f.DayWidth}); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}

	p := rec.last(t)
	if p.StartDate == nil || !p.StartDate.Equal(d("2024-01-08")) {
		t.Errorf("expected start 2024-01-08, got %v", p.StartDate)
	}
	if p.EndDate == nil || !p.EndDate.Equal(d("2024-01-10")) {
		t.Errorf("expected end 2024-01-10, got %v", p.EndDate)
	}
	if p.Progress != nil {
		t.Error("move must not touch progress")
	}
}

func TestInterpreter_DeltaUsesSnapshot(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-05", "2024-01-07"))
	if err := in.PointerDown(Point{X: 0}, "a", Move); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}

	// Simulate the store writing each update back and the view re-rendering.
	live := f.Bars[0].Task
	for i := 1; i <= 3; i++ {
		if err := in.PointerMove(Point{X: float64(i) * f.DayWidth}); err != nil {
			t.Fatalf("PointerMove: %v", err)
		}
		live = live.Apply(rec.last(t))
		next, _ := NewEngine(PixelGeometry()).Layout([]models.Task{live}, f.Window, 800)
		in.SetFrame(next)
	}

	if !live.StartDate.Equal(d("2024-01-08")) {
		t.Errorf("expected start 2024-01-08 after three one-day moves, got %s", live.StartDate)
	}
}

func TestInterpreter_RoundsToWholeDays(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-05", "2024-01-07"))
	_ = in.PointerDown(Point{X: 0}, "a", Move)

	_ = in.PointerMove(Point{X: 0.49 * f.DayWidth})
	if p := rec.last(t); !p.StartDate.Equal(d("2024-01-05")) {
		t.Errorf("expected no shift below half a day, got %s", p.StartDate)
	}
	_ = in.PointerMove(Point{X: 0.5 * f.DayWidth})
	if p := rec.last(t); !p.StartDate.Equal(d("2024-01-06")) {
		t.Errorf("expected half a day to round up, got %s", p.StartDate)
	}
	_ = in.PointerMove(Point{X: -1.6 * f.DayWidth})
	if p := rec.last(t); !p.StartDate.Equal(d("2024-01-03")) {
		t.Errorf("expected -1.6 days to round to -2, got %s", p.StartDate)
	}
}

func TestInterpreter_ResizeStart(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-07"))
	_ = in.PointerDown(Point{X: 0}, "a", ResizeStart)

	_ = in.PointerMove(Point{X: -2 * f.DayWidth})
	p := rec.last(t)
	if p.StartDate == nil || !p.StartDate.Equal(d("2024-01-01")) {
		t.Errorf("expected start 2024-01-01, got %v", p.StartDate)
	}
	if p.EndDate != nil {
		t.Error("resize-start must not touch end date")
	}

	// Crossing the end date is skipped, not clamped.
	n := len(rec.updates)
	_ = in.PointerMove(Point{X: 4 * f.DayWidth})
	_ = in.PointerMove(Point{X: 10 * f.DayWidth})
	if len(rec.updates) != n {
		t.Errorf("expected crossing moves to be skipped, got %d new updates", len(rec.updates)-n)
	}

	_ = in.PointerMove(Point{X: 3 * f.DayWidth})
	if p := rec.last(t); !p.StartDate.Equal(d("2024-01-06")) {
		t.Errorf("expected start 2024-01-06, got %s", p.StartDate)
	}
}

func TestInterpreter_ResizeEnd(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-05"))
	_ = in.PointerDown(Point{X: 0}, "a", ResizeEnd)

	_ = in.PointerMove(Point{X: 2 * f.DayWidth})
	p := rec.last(t)
	if p.EndDate == nil || !p.EndDate.Equal(d("2024-01-07")) {
		t.Errorf("expected end 2024-01-07, got %v", p.EndDate)
	}
	if p.StartDate != nil {
		t.Error("resize-end must not touch start date")
	}

	n := len(rec.updates)
	_ = in.PointerMove(Point{X: -2 * f.DayWidth})
	if len(rec.updates) != n {
		t.Error("expected end <= start to be skipped")
	}
}

func TestInterpreter_SetProgress(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-06"))
	bar := f.Bars[0]
	left := f.Origin() + bar.X

	tests := []struct {
		name string
		x    float64
		want int
	}{
		{"start", left, 0},
		{"quarter", left + bar.Width/4, 25},
		{"middle", left + bar.Width/2, 50},
		{"end", left + bar.Width, 100},
		{"far left", left - 500, 0},
		{"far right", left + bar.Width*3, 100},
	}

	if err := in.PointerDown(Point{X: left}, "a", SetProgress); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := in.PointerMove(Point{X: tt.x}); err != nil {
				t.Fatalf("PointerMove: %v", err)
			}
			p := rec.last(t)
			if p.Progress == nil || *p.Progress != tt.want {
				t.Errorf("progress = %v, want %d", p.Progress, tt.want)
			}
			if p.StartDate != nil || p.EndDate != nil {
				t.Error("set-progress must not touch dates")
			}
		})
	}
}

func TestInterpreter_SetProgressUsesLiveGeometry(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-01", "2024-01-02"))
	_ = in.PointerDown(Point{X: f.Origin()}, "a", SetProgress)

	// The bar is resized elsewhere mid-gesture: the new width applies.
	wider, _ := NewEngine(PixelGeometry()).Layout([]models.Task{task("a", "2024-01-01", "2024-01-04")}, f.Window, 800)
	in.SetFrame(wider)

	_ = in.PointerMove(Point{X: f.Origin() + 2*f.DayWidth})
	if p := rec.last(t); *p.Progress != 50 {
		t.Errorf("expected 50 against the live 4-day bar, got %d", *p.Progress)
	}
}

func TestInterpreter_IgnoresSecondPointerDown(t *testing.T) {
	in, _, _ := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-05"), task("b", "2024-01-04", "2024-01-06"))
	if err := in.PointerDown(Point{X: 0}, "a", Move); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	err := in.PointerDown(Point{X: 50}, "b", ResizeEnd)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	s, _ := in.Session()
	if s.TaskID != "a" || s.Kind != Move {
		t.Errorf("expected original session to survive, got %+v", s)
	}
}

func TestInterpreter_PointerUpReturnsToIdle(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-05"))
	_ = in.PointerDown(Point{X: 0}, "a", Move)
	_ = in.PointerMove(Point{X: f.DayWidth})

	s, ok := in.PointerUp()
	if !ok || s.TaskID != "a" {
		t.Fatalf("expected finished session for a, got %+v %v", s, ok)
	}
	if _, idle := in.State().(Idle); !idle {
		t.Fatalf("expected Idle after PointerUp, got %T", in.State())
	}

	n := len(rec.updates)
	_ = in.PointerMove(Point{X: 5 * f.DayWidth})
	if len(rec.updates) != n {
		t.Error("expected no updates after release")
	}
	if _, ok := in.PointerUp(); ok {
		t.Error("expected second PointerUp to report no session")
	}
}

func TestInterpreter_CancelAndCaptureLoss(t *testing.T) {
	for name, release := range map[string]func(*Interpreter) (DragSession, bool){
		"cancel":       (*Interpreter).PointerCancel,
		"capture lost": (*Interpreter).CaptureLost,
	} {
		t.Run(name, func(t *testing.T) {
			in, rec, _ := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-05"))
			_ = in.PointerDown(Point{X: 0}, "a", ResizeEnd)
			if _, ok := release(in); !ok {
				t.Fatal("expected an active session to be released")
			}
			if _, idle := in.State().(Idle); !idle {
				t.Fatalf("expected Idle, got %T", in.State())
			}
			if len(rec.updates) != 0 {
				t.Errorf("expected no updates on cancel, got %d", len(rec.updates))
			}
		})
	}
}

func TestInterpreter_DanglingReferenceOnDown(t *testing.T) {
	in, _, _ := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-05"))
	err := in.PointerDown(Point{X: 0}, "missing", Move)
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected ErrDanglingReference, got %v", err)
	}
	if _, idle := in.State().(Idle); !idle {
		t.Error("expected to stay Idle")
	}
}

func TestInterpreter_DanglingReferenceMidDrag(t *testing.T) {
	in, rec, f := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-05"))
	_ = in.PointerDown(Point{X: 0}, "a", Move)

	// The task is deleted while the pointer is down.
	empty, _ := NewEngine(PixelGeometry()).Layout(nil, f.Window, 800)
	in.SetFrame(empty)

	err := in.PointerMove(Point{X: f.DayWidth})
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected ErrDanglingReference, got %v", err)
	}
	if _, idle := in.State().(Idle); !idle {
		t.Fatal("expected session to be aborted")
	}
	if len(rec.updates) != 0 {
		t.Errorf("expected no updates, got %d", len(rec.updates))
	}
}

func TestInterpreter_UnknownKind(t *testing.T) {
	in, _, _ := newTestInterpreter(t, task("a", "2024-01-03", "2024-01-05"))
	if err := in.PointerDown(Point{}, "a", DragKind("rotate")); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestParseDragKind(t *testing.T) {
	tests := []struct {
		in      string
		want    DragKind
		wantErr bool
	}{
		{"move", Move, false},
		{"resize-start", ResizeStart, false},
		{"resize-end", ResizeEnd, false},
		{"set-progress", SetProgress, false},
		{"progress", SetProgress, false},
		{"zoom", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDragKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDragKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseDragKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
