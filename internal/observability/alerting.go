package observability

import (
	"fmt"
	"sort"
	"time"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

func (s AlertSeverity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	ProjectID   string        `json:"project_id"`
	TaskID      string        `json:"task_id,omitempty"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	DueSoonDays int `yaml:"due_soon_days" json:"due_soon_days"`
	StaleDays   int `yaml:"stale_days" json:"stale_days"`
}

// DefaultAlertThresholds returns the default alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		DueSoonDays: 3,
		StaleDays:   14,
	}
}

// ProjectSource lists the projects the alert engine evaluates.
type ProjectSource interface {
	AllProjects() ([]models.Project, error)
}

// AlertEngine evaluates schedule conditions against the stored projects.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

// alertEngine implements AlertEngine by checking every project against the
// thresholds.
type alertEngine struct {
	source     ProjectSource
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates a new AlertEngine over the given projects and thresholds.
func NewAlertEngine(source ProjectSource, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		source:     source,
		thresholds: thresholds,
		now:        func() time.Time { return time.Now() },
	}
}

// Evaluate checks all alert conditions and returns the triggered alerts,
// most severe first.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	projects, err := ae.source.AllProjects()
	if err != nil {
		return nil, fmt.Errorf("loading projects for alerts: %w", err)
	}

	now := ae.now()
	var alerts []Alert
	for _, p := range projects {
		alerts = append(alerts, ae.checkSchedule(p, now)...)
		alerts = append(alerts, ae.checkStale(p, now)...)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity.rank() < alerts[j].Severity.rank()
		}
		return alerts[i].ID < alerts[j].ID
	})
	return alerts, nil
}

// checkSchedule flags unfinished tasks that are past their end date or end
// within the due-soon window. Completed projects are skipped.
func (ae *alertEngine) checkSchedule(p models.Project, now time.Time) []Alert {
	if p.Status == models.ProjectCompleted {
		return nil
	}
	today := models.DateOf(now)
	horizon := today.AddDays(ae.thresholds.DueSoonDays)

	var alerts []Alert
	for _, t := range p.Tasks {
		if t.Completed || t.Progress >= 100 {
			continue
		}
		switch {
		case t.EndDate.Before(today):
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("overdue-%s-%s", p.ID, t.ID),
				Condition:   "task_overdue",
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("%q in %q ended %d days ago at %d%%", t.Name, p.Title, today.DaysSince(t.EndDate), t.Progress),
				ProjectID:   p.ID,
				TaskID:      t.ID,
				TriggeredAt: now.UTC(),
			})
		case !t.EndDate.After(horizon):
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("due-%s-%s", p.ID, t.ID),
				Condition:   "task_due_soon",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("%q in %q is due %s at %d%%", t.Name, p.Title, t.EndDate, t.Progress),
				ProjectID:   p.ID,
				TaskID:      t.ID,
				TriggeredAt: now.UTC(),
			})
		}
	}
	return alerts
}

// checkStale flags active projects that have not been touched for longer
// than the stale threshold.
func (ae *alertEngine) checkStale(p models.Project, now time.Time) []Alert {
	if p.Status != models.ProjectActive {
		return nil
	}
	threshold := time.Duration(ae.thresholds.StaleDays) * 24 * time.Hour
	if now.Sub(p.UpdatedAt) <= threshold {
		return nil
	}
	return []Alert{{
		ID:          fmt.Sprintf("stale-%s", p.ID),
		Condition:   "project_stale",
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("active project %q has not been updated for more than %d days", p.Title, ae.thresholds.StaleDays),
		ProjectID:   p.ID,
		TriggeredAt: now.UTC(),
	}}
}
