package models

import "time"

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectDraft     ProjectStatus = "draft"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectDraft:
		return true
	}
	return false
}

// Project is a titled, ordered list of tasks. Task order is row order on the
// timeline.
type Project struct {
	ID        string        `json:"id" yaml:"id"`
	Title     string        `json:"title" yaml:"title"`
	CreatedAt time.Time     `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" yaml:"updated_at"`
	Tasks     []Task        `json:"tasks" yaml:"tasks"`
	Status    ProjectStatus `json:"status" yaml:"status"`
}

// TaskIndex returns the position of the task with the given ID, or -1.
func (p *Project) TaskIndex(taskID string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

// ProjectSummary is the dashboard view of a project.
type ProjectSummary struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	TaskCount int           `json:"taskCount"`
	Status    ProjectStatus `json:"status"`
}

// Summary returns the dashboard view of p.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:        p.ID,
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		TaskCount: len(p.Tasks),
		Status:    p.Status,
	}
}
