package observability

import (
	"fmt"
	"time"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	ProjectsCreated   int            `json:"projects_created"`
	ProjectsDeleted   int            `json:"projects_deleted"`
	ProjectsImported  int            `json:"projects_imported"`
	TasksCreated      int            `json:"tasks_created"`
	TasksDeleted      int            `json:"tasks_deleted"`
	TasksCompleted    int            `json:"tasks_completed"`
	Gestures          int            `json:"gestures"`
	GesturesByKind    map[string]int `json:"gestures_by_kind"`
	GesturesCancelled int            `json:"gestures_cancelled"`
	EventCount        int            `json:"event_count"`
	OldestEvent       *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent       *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		GesturesByKind: make(map[string]int),
		EventCount:     len(events),
	}

	for _, event := range events {
		t := event.Time
		if m.OldestEvent == nil || t.Before(*m.OldestEvent) {
			m.OldestEvent = &t
		}
		if m.NewestEvent == nil || t.After(*m.NewestEvent) {
			m.NewestEvent = &t
		}

		switch event.Type {
		case "project.created":
			m.ProjectsCreated++
		case "project.deleted":
			m.ProjectsDeleted++
		case "project.imported":
			m.ProjectsImported++
		case "task.created":
			m.TasksCreated++
		case "task.deleted":
			m.TasksDeleted++
		case "task.completed":
			m.TasksCompleted++
		case "gesture.finished":
			m.Gestures++
			if kind, ok := event.Data["kind"].(string); ok {
				m.GesturesByKind[kind]++
			}
			if outcome, _ := event.Data["outcome"].(string); outcome == "cancelled" {
				m.GesturesCancelled++
			}
		}
	}

	return m, nil
}

// Inventory is a point-in-time count of stored projects and tasks.
type Inventory struct {
	Projects         int                          `json:"projects"`
	ProjectsByStatus map[models.ProjectStatus]int `json:"projects_by_status"`
	Tasks            int                          `json:"tasks"`
	TasksCompleted   int                          `json:"tasks_completed"`
	AverageProgress  float64                      `json:"average_progress"`
}

// TakeInventory counts projects by status and tasks by completion.
func TakeInventory(projects []models.Project) Inventory {
	inv := Inventory{ProjectsByStatus: make(map[models.ProjectStatus]int)}
	progress := 0
	for _, p := range projects {
		inv.Projects++
		inv.ProjectsByStatus[p.Status]++
		for _, t := range p.Tasks {
			inv.Tasks++
			progress += t.Progress
			if t.Completed {
				inv.TasksCompleted++
			}
		}
	}
	if inv.Tasks > 0 {
		inv.AverageProgress = float64(progress) / float64(inv.Tasks)
	}
	return inv
}
