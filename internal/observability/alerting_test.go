package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// staticProjects implements ProjectSource for testing.
type staticProjects struct {
	projects []models.Project
	err      error
}

func (s staticProjects) AllProjects() ([]models.Project, error) { return s.projects, s.err }

var alertNow = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

func newTestAlertEngine(projects ...models.Project) AlertEngine {
	ae := NewAlertEngine(staticProjects{projects: projects}, DefaultAlertThresholds()).(*alertEngine)
	ae.now = func() time.Time { return alertNow }
	return ae
}

func scheduledTask(id, end string, progress int) models.Task {
	return models.Task{
		ID:        id,
		Name:      "task " + id,
		StartDate: models.MustParseDate("2025-06-01"),
		EndDate:   models.MustParseDate(end),
		Progress:  progress,
	}
}

func findAlert(alerts []Alert, id string) (Alert, bool) {
	for _, a := range alerts {
		if a.ID == id {
			return a, true
		}
	}
	return Alert{}, false
}

func TestAlertEngine_ScheduleAlerts(t *testing.T) {
	p := models.Project{
		ID:        "p1",
		Title:     "Launch",
		Status:    models.ProjectActive,
		UpdatedAt: alertNow,
		Tasks: []models.Task{
			scheduledTask("late", "2025-06-08", 40),
			scheduledTask("today", "2025-06-10", 10),
			scheduledTask("soon", "2025-06-13", 0),
			scheduledTask("later", "2025-06-14", 0),
			scheduledTask("done-late", "2025-06-01", 100),
		},
	}
	done := scheduledTask("flagged-done", "2025-06-01", 30)
	done.Completed = true
	p.Tasks = append(p.Tasks, done)

	alerts, err := newTestAlertEngine(p).Evaluate()
	if err != nil {
		t.Fatalf("evaluating alerts: %v", err)
	}

	tests := []struct {
		id        string
		want      bool
		severity  AlertSeverity
		condition string
	}{
		{"overdue-p1-late", true, SeverityHigh, "task_overdue"},
		{"due-p1-today", true, SeverityMedium, "task_due_soon"},
		{"due-p1-soon", true, SeverityMedium, "task_due_soon"},
		{"due-p1-later", false, "", ""},
		{"overdue-p1-done-late", false, "", ""},
		{"overdue-p1-flagged-done", false, "", ""},
	}
	for _, tt := range tests {
		a, ok := findAlert(alerts, tt.id)
		if ok != tt.want {
			t.Errorf("%s: expected present=%v, got %v", tt.id, tt.want, ok)
			continue
		}
		if ok && (a.Severity != tt.severity || a.Condition != tt.condition) {
			t.Errorf("%s: expected %s/%s, got %s/%s", tt.id, tt.severity, tt.condition, a.Severity, a.Condition)
		}
	}
	if len(alerts) != 3 {
		t.Errorf("expected 3 alerts, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].Severity != SeverityHigh {
		t.Errorf("expected most severe first, got %s", alerts[0].Severity)
	}
}

func TestAlertEngine_CompletedProjectIsQuiet(t *testing.T) {
	p := models.Project{ID: "p1", Status: models.ProjectCompleted, UpdatedAt: alertNow.AddDate(0, -6, 0),
		Tasks: []models.Task{scheduledTask("late", "2025-01-01", 10)}}
	alerts, err := newTestAlertEngine(p).Evaluate()
	if err != nil {
		t.Fatalf("evaluating alerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts for a completed project, got %+v", alerts)
	}
}

func TestAlertEngine_StaleActiveProject(t *testing.T) {
	stale := models.Project{ID: "old", Title: "Old", Status: models.ProjectActive, UpdatedAt: alertNow.Add(-15 * 24 * time.Hour)}
	fresh := models.Project{ID: "new", Title: "New", Status: models.ProjectActive, UpdatedAt: alertNow.Add(-13 * 24 * time.Hour)}
	draft := models.Project{ID: "draft", Title: "Draft", Status: models.ProjectDraft, UpdatedAt: alertNow.Add(-100 * 24 * time.Hour)}

	alerts, err := newTestAlertEngine(stale, fresh, draft).Evaluate()
	if err != nil {
		t.Fatalf("evaluating alerts: %v", err)
	}
	a, ok := findAlert(alerts, "stale-old")
	if !ok {
		t.Fatal("expected stale alert for old project")
	}
	if a.Severity != SeverityLow || a.Condition != "project_stale" {
		t.Errorf("unexpected stale alert %+v", a)
	}
	if len(alerts) != 1 {
		t.Errorf("expected only one alert, got %+v", alerts)
	}
}

func TestAlertEngine_SourceError(t *testing.T) {
	engine := NewAlertEngine(staticProjects{err: errors.New("disk gone")}, DefaultAlertThresholds())
	if _, err := engine.Evaluate(); err == nil {
		t.Fatal("expected error from failing source")
	}
}
