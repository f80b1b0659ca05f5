package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

func launchPlan(t *testing.T, pm core.ProjectManager) *models.Project {
	t.Helper()
	return seedProject(t, pm, "Launch Plan",
		core.TaskInput{Name: "Design", StartDate: "2024-01-03", EndDate: "2024-01-05"},
		core.TaskInput{Name: "Build", StartDate: "2024-01-06", EndDate: "2024-01-08", Progress: "40"},
		core.TaskInput{Name: "Ship", StartDate: "2024-01-09", EndDate: "2024-01-09"})
}

func taskNames(p *models.Project) []string {
	names := make([]string, len(p.Tasks))
	for i, t := range p.Tasks {
		names[i] = t.Name
	}
	return names
}

func TestTaskAddCmd(t *testing.T) {
	pm := useTempProjects(t)
	p := seedProject(t, pm, "Launch Plan")
	resetFlags(t, taskAddCmd)

	setFlag(t, taskAddCmd, "start", "2024-02-01")
	setFlag(t, taskAddCmd, "end", "2024-02-10")
	setFlag(t, taskAddCmd, "progress", "25")
	setFlag(t, taskAddCmd, "color", "#ff0000")

	out := captureStdout(t, func() {
		if err := taskAddCmd.RunE(taskAddCmd, []string{"Launch Plan", "Research"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Name:     Research") || !strings.Contains(out, "2024-02-01 to 2024-02-10") {
		t.Errorf("unexpected output:\n%s", out)
	}

	got, err := pm.GetProject(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(got.Tasks))
	}
	task := got.Tasks[0]
	if task.Progress != 25 || task.Color.Hex() != "#ff0000" {
		t.Errorf("got progress %d color %s", task.Progress, task.Color.Hex())
	}
}

func TestTaskAddCmd_Invalid(t *testing.T) {
	pm := useTempProjects(t)
	p := seedProject(t, pm, "Launch Plan")

	tests := []struct {
		name  string
		args  []string
		flags map[string]string
		field string
	}{
		{"missing name", []string{p.ID}, nil, "name"},
		{"end before start", []string{p.ID, "X"}, map[string]string{"start": "2024-02-10", "end": "2024-02-01"}, "end"},
		{"progress out of range", []string{p.ID, "X"}, map[string]string{"progress": "150"}, "progress"},
		{"bad colour", []string{p.ID, "X"}, map[string]string{"color": "red"}, "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t, taskAddCmd)
			for k, v := range tt.flags {
				setFlag(t, taskAddCmd, k, v)
			}
			err := taskAddCmd.RunE(taskAddCmd, tt.args)
			if !errors.Is(err, core.ErrInvalidTask) {
				t.Fatalf("got %v, want ErrInvalidTask", err)
			}
			var fe *core.FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("got %v, want field %q", err, tt.field)
			}
		})
	}

	got, _ := pm.GetProject(p.ID)
	if len(got.Tasks) != 0 {
		t.Errorf("invalid input added %d tasks", len(got.Tasks))
	}
}

func TestTaskEditCmd(t *testing.T) {
	pm := useTempProjects(t)
	p := launchPlan(t, pm)
	resetFlags(t, taskEditCmd)

	out := captureStdout(t, func() {
		if err := taskEditCmd.RunE(taskEditCmd, []string{p.ID, "build"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Nothing to change.") {
		t.Errorf("edit without flags: %q", out)
	}

	setFlag(t, taskEditCmd, "name", "Build v2")
	setFlag(t, taskEditCmd, "end", "2024-01-12")
	captureStdout(t, func() {
		if err := taskEditCmd.RunE(taskEditCmd, []string{p.ID, "Build"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	got, _ := pm.GetProject(p.ID)
	b := got.Tasks[1]
	if b.ID != p.Tasks[1].ID {
		t.Fatalf("edit changed the task ID or order: %v", taskNames(got))
	}
	if b.Name != "Build v2" || b.EndDate.String() != "2024-01-12" || b.StartDate.String() != "2024-01-06" || b.Progress != 40 {
		t.Errorf("got %+v", b)
	}
}

func TestTaskEditCmd_RejectsInvalid(t *testing.T) {
	pm := useTempProjects(t)
	p := launchPlan(t, pm)
	resetFlags(t, taskEditCmd)

	setFlag(t, taskEditCmd, "start", "2024-01-20")
	err := taskEditCmd.RunE(taskEditCmd, []string{p.ID, "Design"})
	if !errors.Is(err, core.ErrInvalidTask) {
		t.Fatalf("got %v, want ErrInvalidTask", err)
	}
	got, _ := pm.GetProject(p.ID)
	if got.Tasks[0].StartDate.String() != "2024-01-03" {
		t.Errorf("rejected edit was saved: %+v", got.Tasks[0])
	}
}

func TestTaskDeleteCmd(t *testing.T) {
	pm := useTempProjects(t)
	p := launchPlan(t, pm)

	captureStdout(t, func() {
		if err := taskDeleteCmd.RunE(taskDeleteCmd, []string{p.ID, "Build"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	got, _ := pm.GetProject(p.ID)
	if names := strings.Join(taskNames(got), ","); names != "Design,Ship" {
		t.Errorf("got %s", names)
	}

	err := taskDeleteCmd.RunE(taskDeleteCmd, []string{p.ID, "Build"})
	if !errors.Is(err, core.ErrTaskNotFound) {
		t.Errorf("got %v, want ErrTaskNotFound", err)
	}
}

func TestTaskCompleteCmd_Toggles(t *testing.T) {
	pm := useTempProjects(t)
	p := launchPlan(t, pm)

	out := captureStdout(t, func() {
		if err := taskCompleteCmd.RunE(taskCompleteCmd, []string{p.ID, "Build"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, `Completed "Build"`) {
		t.Errorf("unexpected output: %q", out)
	}
	got, _ := pm.GetProject(p.ID)
	if !got.Tasks[1].Completed || got.Tasks[1].Progress != 100 {
		t.Errorf("got %+v", got.Tasks[1])
	}

	out = captureStdout(t, func() {
		if err := taskCompleteCmd.RunE(taskCompleteCmd, []string{p.ID, "Build"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, `Reopened "Build"`) {
		t.Errorf("unexpected output: %q", out)
	}
	got, _ = pm.GetProject(p.ID)
	if got.Tasks[1].Completed || got.Tasks[1].Progress != 0 {
		t.Errorf("got %+v", got.Tasks[1])
	}
}

func TestTaskListCmd(t *testing.T) {
	pm := useTempProjects(t)
	p := launchPlan(t, pm)

	origSort, origDesc := taskListSort, taskListDesc
	defer func() { taskListSort, taskListDesc = origSort, origDesc }()
	taskListSort, taskListDesc = "end", true

	out := captureStdout(t, func() {
		if err := taskListCmd.RunE(taskListCmd, []string{p.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	ship, design := strings.Index(out, "Ship"), strings.Index(out, "Design")
	if ship < 0 || design < 0 || ship > design {
		t.Errorf("descending end sort should list Ship before Design:\n%s", out)
	}
	if !strings.Contains(out, "In Progress") {
		t.Errorf("missing status column:\n%s", out)
	}
}

func TestTaskMoveCmd(t *testing.T) {
	pm := useTempProjects(t)
	p := launchPlan(t, pm)

	out := captureStdout(t, func() {
		if err := taskMoveCmd.RunE(taskMoveCmd, []string{p.ID, "Design", "Ship"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, `Moved "Design" to row 3`) {
		t.Errorf("unexpected output: %q", out)
	}
	got, _ := pm.GetProject(p.ID)
	if names := strings.Join(taskNames(got), ","); names != "Build,Ship,Design" {
		t.Errorf("got %s", names)
	}

	out = captureStdout(t, func() {
		if err := taskMoveCmd.RunE(taskMoveCmd, []string{p.ID, "Ship", "Ship"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Nothing to move.") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestTaskShiftCmd(t *testing.T) {
	pm := useTempProjects(t)
	p := launchPlan(t, pm)

	out := captureStdout(t, func() {
		if err := taskShiftCmd.RunE(taskShiftCmd, []string{p.ID, "Design", "-2"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	if !strings.Contains(out, "Design now runs 2024-01-01 to 2024-01-03") {
		t.Errorf("unexpected output: %q", out)
	}

	if err := taskShiftCmd.RunE(taskShiftCmd, []string{p.ID, "Design", "two"}); err == nil {
		t.Error("expected error for non-numeric days")
	}
}

func TestResolveTask(t *testing.T) {
	pm := useTempProjects(t)
	p := launchPlan(t, pm)
	build := p.Tasks[1]

	for _, ref := range []string{build.ID, build.ID[:7], "BUILD"} {
		got, err := resolveTask(p, ref)
		if err != nil {
			t.Fatalf("resolveTask(%q): %v", ref, err)
		}
		if got.ID != build.ID {
			t.Errorf("resolveTask(%q) = %s, want %s", ref, got.Name, build.Name)
		}
	}

	if _, err := resolveTask(p, "Deploy"); !errors.Is(err, core.ErrTaskNotFound) {
		t.Errorf("got %v, want ErrTaskNotFound", err)
	}
	if _, err := resolveTask(p, ""); err == nil {
		t.Error("expected error for empty reference")
	}
}
