package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// TaskInput is the raw content of the task dialog. Every field is text as
// typed; ValidateTaskInput turns it into a task.
type TaskInput struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Progress  string `json:"progress,omitempty"`
	Color     string `json:"color,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// InputFromTask fills a TaskInput with the current values of t, for editing.
func InputFromTask(t models.Task) TaskInput {
	return TaskInput{
		Name:      t.Name,
		StartDate: t.StartDate.String(),
		EndDate:   t.EndDate.String(),
		Progress:  strconv.Itoa(t.Progress),
		Color:     t.Color.Hex(),
		Completed: t.Completed,
	}
}

// FieldError reports which dialog field failed validation. It matches
// ErrInvalidTask with errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid task: %s: %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool { return target == ErrInvalidTask }

// TaskForm holds the defaults applied to blank dialog fields.
type TaskForm struct {
	DurationDays int
	Color        models.Color
	// Today returns the date blank start dates default to. Nil means
	// models.Today.
	Today func() models.Date
}

// DefaultTaskForm returns the dialog defaults: a week-long task starting
// today in the default colour.
func DefaultTaskForm() TaskForm {
	return TaskForm{DurationDays: 7, Color: models.DefaultColor}
}

// TaskFormFromConfig builds a TaskForm from the tasks section of the config.
// An unparseable colour falls back to the default.
func TaskFormFromConfig(cfg models.TaskDefaults) TaskForm {
	f := DefaultTaskForm()
	if cfg.DefaultDurationDays >= 0 {
		f.DurationDays = cfg.DefaultDurationDays
	}
	if c, err := models.ParseColor(cfg.DefaultColor); err == nil {
		f.Color = c
	}
	return f
}

func (f TaskForm) today() models.Date {
	if f.Today != nil {
		return f.Today()
	}
	return models.Today()
}

// Blank returns the dialog content for a new task.
func (f TaskForm) Blank() TaskInput {
	start := f.today()
	return TaskInput{
		StartDate: start.String(),
		EndDate:   start.AddDays(f.DurationDays).String(),
		Progress:  "0",
		Color:     f.Color.Hex(),
	}
}

// Validate checks in and returns the task it describes, without an ID.
func (f TaskForm) Validate(in TaskInput) (models.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Task{}, &FieldError{Field: "name", Message: "is required"}
	}

	today := f.today()
	start := today
	if s := strings.TrimSpace(in.StartDate); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return models.Task{}, &FieldError{Field: "start", Message: "must be YYYY-MM-DD"}
		}
		start = d
	}
	end := today.AddDays(f.DurationDays)
	if s := strings.TrimSpace(in.EndDate); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			return models.Task{}, &FieldError{Field: "end", Message: "must be YYYY-MM-DD"}
		}
		end = d
	}
	if end.Before(start) {
		return models.Task{}, &FieldError{Field: "end", Message: "must not be before start"}
	}

	progress, err := strconv.Atoi(strings.TrimSpace(in.Progress))
	if err != nil {
		progress = 0
	}
	if progress < 0 || progress > 100 {
		return models.Task{}, &FieldError{Field: "progress", Message: "must be between 0 and 100"}
	}

	color := f.Color
	if s := strings.TrimSpace(in.Color); s != "" {
		c, err := models.ParseColor(s)
		if err != nil {
			return models.Task{}, &FieldError{Field: "color", Message: "must be #rrggbb"}
		}
		color = c
	}

	return models.Task{
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Progress:  progress,
		Color:     color,
		Completed: in.Completed,
	}, nil
}

// ValidateTaskInput validates in against the default task form.
func ValidateTaskInput(in TaskInput) (models.Task, error) {
	return DefaultTaskForm().Validate(in)
}
