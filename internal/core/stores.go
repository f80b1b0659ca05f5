package core

import "github.com/rayhan0x01/gantt-maestro/pkg/models"

// ProjectStore is the subset of storage.ProjectStore that ProjectManager
// needs. This interface is defined locally in core to avoid importing storage.
type ProjectStore interface {
	Put(project models.Project) error
	Delete(projectID string) error
	Get(projectID string) (*models.Project, error)
	List() ([]models.Project, error)
	Load() error
	Save() error
	Lock() (unlock func() error, err error)
}
