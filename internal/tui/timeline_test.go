package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/rayhan0x01/gantt-maestro/internal/timeline"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

func TestCellSpan(t *testing.T) {
	tests := []struct {
		left, right float64
		from, to    int
	}{
		{8.8, 24.4, 9, 24},
		{17, 41, 17, 41},
		{1, 1.4, 1, 1},
		{0.5, 4.5, 0, 4},
	}
	for _, tt := range tests {
		from, to := cellSpan(tt.left, tt.right)
		if from != tt.from || to != tt.to {
			t.Errorf("cellSpan(%v, %v) = [%d, %d), want [%d, %d)", tt.left, tt.right, from, to, tt.from, tt.to)
		}
	}
}

func TestBarLabel(t *testing.T) {
	tests := []struct {
		name  string
		task  models.Task
		width int
		want  string
	}{
		{"fits", models.Task{Name: "Design"}, 10, "Design"},
		{"with progress", models.Task{Name: "Design", Progress: 45}, 20, "Design 45%"},
		{"truncated keeps percent", models.Task{Name: "Implementation", Progress: 5}, 9, "Imple… 5%"},
		{"too narrow for percent", models.Task{Name: "Implementation", Progress: 100}, 4, "Imp…"},
		{"completed", models.Task{Name: "Ship", Completed: true, Progress: 100}, 20, "✓ Ship 100%"},
		{"no room", models.Task{Name: "Ship"}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := barLabel(tt.task, tt.width)
			if got != tt.want {
				t.Errorf("barLabel = %q, want %q", got, tt.want)
			}
			if w := ansi.StringWidth(got); w > tt.width {
				t.Errorf("label width %d exceeds %d", w, tt.width)
			}
		})
	}
}

func paneFor(t *testing.T, tasks []models.Task, days int, width int) timelinePane {
	t.Helper()
	f, err := timeline.NewEngine(timeline.TerminalGeometry()).Layout(tasks, timeline.NewWindow(models.NewDate(2024, 1, 1), days), float64(width))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return timelinePane{frame: f, hoverDay: -1, width: width}
}

func TestTimelinePane_Header(t *testing.T) {
	v := paneFor(t, nil, 10, 82)
	lines := v.render()
	if len(lines) != 2 {
		t.Fatalf("expected only the two header rows, got %d", len(lines))
	}
	top, bottom := ansi.Strip(lines[0]), ansi.Strip(lines[1])
	if !strings.Contains(top, "Jan 01") || !strings.Contains(top, "Jan 10") {
		t.Errorf("top header row missing day labels: %q", top)
	}
	if strings.TrimSpace(bottom) != "" {
		t.Errorf("full labels should leave the bottom row empty, got %q", bottom)
	}

	// 40 days over 82 columns forces the minimum width and abbreviated labels.
	v = paneFor(t, nil, 40, 82)
	lines = v.render()
	top, bottom = ansi.Strip(lines[0]), ansi.Strip(lines[1])
	if !strings.HasPrefix(top, " 01") {
		t.Errorf("abbreviated header should start with the day number, got %q", top)
	}
	if strings.Count(bottom, "Jan") != 1 {
		t.Errorf("month should appear once, got %q", bottom)
	}
}

func TestTimelinePane_TrackOnlyWhenShown(t *testing.T) {
	task := models.Task{ID: "a", Name: "Design", StartDate: models.MustParseDate("2024-01-03"), EndDate: models.MustParseDate("2024-01-05"), Progress: 50, Color: models.DefaultColor}
	v := paneFor(t, []models.Task{task}, 10, 82)

	track := ansi.Strip(v.render()[3])
	if strings.ContainsAny(track, "━─●") {
		t.Errorf("track drawn without hover: %q", track)
	}

	v.aff = timeline.Affordances{Hovered: "a"}
	lines := v.render()
	track = ansi.Strip(lines[3])
	if !strings.Contains(track, "●") || !strings.Contains(track, "━") || !strings.Contains(track, "─") {
		t.Errorf("expected a half-filled track with a knob, got %q", track)
	}
	bar := []rune(ansi.Strip(lines[2]))
	if bar[16] != '▐' || bar[41] != '▌' {
		t.Errorf("expected resize grips beside the hovered bar, got %q", string(bar))
	}
	if !strings.Contains(string(bar), "Design 50%") {
		t.Errorf("bar label missing: %q", string(bar))
	}
}

func TestTimelinePane_HoverGuide(t *testing.T) {
	task := models.Task{ID: "a", Name: "x", StartDate: models.MustParseDate("2024-01-01"), EndDate: models.MustParseDate("2024-01-01")}
	v := paneFor(t, []models.Task{task}, 10, 82)
	v.hoverDay = 5

	lines := v.render()
	spacer := []rune(ansi.Strip(lines[4]))
	if spacer[45] != '┊' {
		t.Errorf("expected the day guide in column 45, got %q", string(spacer))
	}
}

func TestCanvasView(t *testing.T) {
	c := newCanvas(6, 1)
	c.text(0, 0, "a界b界", c.w, 0)

	tests := []struct {
		from, width int
		want        string
	}{
		{0, 6, "a界b界"},
		{0, 2, "a "},
		{2, 3, " b "},
		{3, 3, "b界"},
		{4, 8, "界"},
	}
	for _, tt := range tests {
		if got := c.view(tt.from, tt.width)[0]; got != tt.want {
			t.Errorf("view(%d, %d) = %q, want %q", tt.from, tt.width, got, tt.want)
		}
	}
}

func TestTimelinePane_Scroll(t *testing.T) {
	task := models.Task{ID: "a", Name: "Tail", StartDate: models.MustParseDate("2024-01-30"), EndDate: models.MustParseDate("2024-02-02")}
	v := paneFor(t, []models.Task{task}, 40, 82)
	if v.surfaceWidth() != 162 || v.maxScroll() != 80 {
		t.Fatalf("surface = %d, maxScroll = %d; want 162 and 80", v.surfaceWidth(), v.maxScroll())
	}
	if strings.Contains(ansi.Strip(v.render()[2]), "Tail") {
		t.Error("Tail drawn before scrolling")
	}

	v.scroll = v.maxScroll()
	lines := v.render()
	bar := ansi.Strip(lines[2])
	if !strings.Contains(bar, "Tail") {
		t.Errorf("Tail missing after scrolling: %q", bar)
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 82 {
			t.Errorf("line %d is %d columns, want 82", i, w)
		}
	}

	static := strings.Split(RenderTimeline(v.frame, 82), "\n")
	if w := ansi.StringWidth(static[0]); w != 162 {
		t.Errorf("static render is %d columns, want the whole 162", w)
	}
	if !strings.Contains(ansi.Strip(static[2]), "Tail") {
		t.Error("static render should include every visible bar")
	}
}
