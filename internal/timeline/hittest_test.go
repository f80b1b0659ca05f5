package timeline

import (
	"testing"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

func TestHitTest_Regions(t *testing.T) {
	// Pixel geometry: origin 20, day width 76, bar "a" spans x [172, 476),
	// rows y [56, 88), track y [89, 95).
	f, err := NewEngine(PixelGeometry()).Layout([]models.Task{task("a", "2024-01-03", "2024-01-06")}, window("2024-01-01", "2024-01-10"), 800)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	tests := []struct {
		name   string
		p      Point
		aff    Affordances
		want   DragKind
		wantOK bool
	}{
		{"body", Point{X: 300, Y: 70}, Affordances{}, Move, true},
		{"start handle inside", Point{X: 173, Y: 70}, Affordances{}, ResizeStart, true},
		{"start handle outside", Point{X: 170.5, Y: 70}, Affordances{}, ResizeStart, true},
		{"end handle", Point{X: 475, Y: 60}, Affordances{}, ResizeEnd, true},
		{"end handle outside", Point{X: 477, Y: 60}, Affordances{}, ResizeEnd, true},
		{"track hidden", Point{X: 300, Y: 90}, Affordances{}, "", false},
		{"track on hover", Point{X: 300, Y: 90}, Affordances{Hovered: "a"}, SetProgress, true},
		{"track always", Point{X: 300, Y: 90}, Affordances{Always: true}, SetProgress, true},
		{"track other hovered", Point{X: 300, Y: 90}, Affordances{Hovered: "b"}, "", false},
		{"above bar", Point{X: 300, Y: 40}, Affordances{}, "", false},
		{"past end", Point{X: 600, Y: 70}, Affordances{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := f.HitTest(tt.p, tt.aff)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (hit %+v)", ok, tt.wantOK, hit)
			}
			if ok && (hit.Kind != tt.want || hit.TaskID != "a") {
				t.Errorf("hit = %+v, want kind %s on a", hit, tt.want)
			}
		})
	}
}

func TestHitTest_OverlappingHandlesPreferEnd(t *testing.T) {
	g := PixelGeometry()
	g.HandleWidth = 100 // wider than the bar: both handles cover it entirely
	f, err := NewEngine(g).Layout([]models.Task{task("a", "2024-01-01", "2024-01-01")}, window("2024-01-01", "2024-01-31"), 800)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	hit, ok := f.HitTest(Point{X: f.Origin() + 1, Y: g.HeaderHeight + 1}, Affordances{})
	if !ok || hit.Kind != ResizeEnd {
		t.Errorf("expected resize-end to win the overlap, got %+v %v", hit, ok)
	}
}

func TestHitTest_SkipsInvisibleBars(t *testing.T) {
	f, _ := NewEngine(PixelGeometry()).Layout([]models.Task{task("gone", "2023-01-01", "2023-01-05")}, window("2024-01-01", "2024-01-10"), 800)
	if _, ok := f.HitTest(Point{X: 25, Y: 60}, Affordances{Always: true}); ok {
		t.Error("expected no hit on an out-of-window bar")
	}
}

func TestHitTest_TerminalCells(t *testing.T) {
	// Terminal geometry, 10 days over 80 columns: origin 1, day width 7.8.
	f, err := NewEngine(TerminalGeometry()).Layout([]models.Task{task("a", "2024-01-02", "2024-01-03")}, window("2024-01-01", "2024-01-10"), 80)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	// Bar spans x [8.8, 24.4) on row y [2, 3).
	cell := func(col, row int) Point { return Point{X: float64(col) + 0.5, Y: float64(row) + 0.5} }

	if hit, _ := f.HitTest(cell(8, 2), Affordances{}); hit.Kind != ResizeStart {
		t.Errorf("col 8: expected resize-start, got %q", hit.Kind)
	}
	if hit, _ := f.HitTest(cell(15, 2), Affordances{}); hit.Kind != Move {
		t.Errorf("col 15: expected move, got %q", hit.Kind)
	}
	if hit, _ := f.HitTest(cell(24, 2), Affordances{}); hit.Kind != ResizeEnd {
		t.Errorf("col 24: expected resize-end, got %q", hit.Kind)
	}
	if hit, _ := f.HitTest(cell(15, 3), Affordances{Always: true}); hit.Kind != SetProgress {
		t.Errorf("track row: expected set-progress, got %q", hit.Kind)
	}
}

func TestHoverTarget(t *testing.T) {
	f, _ := NewEngine(PixelGeometry()).Layout([]models.Task{
		task("a", "2024-01-03", "2024-01-06"),
		task("b", "2024-01-01", "2024-01-02"),
	}, window("2024-01-01", "2024-01-10"), 800)

	if id, ok := f.HoverTarget(Point{X: 300, Y: 93}); !ok || id != "a" {
		t.Errorf("expected hover on a's track area, got %q %v", id, ok)
	}
	if id, ok := f.HoverTarget(Point{X: 30, Y: 102 + 5}); !ok || id != "b" {
		t.Errorf("expected hover on b, got %q %v", id, ok)
	}
	if _, ok := f.HoverTarget(Point{X: 700, Y: 70}); ok {
		t.Error("expected no hover target to the right of all bars")
	}
}
