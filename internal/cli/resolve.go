package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

var errNotInitialized = errors.New("project manager not initialized")

func requireProjects() error {
	if ProjectMgr == nil {
		return errNotInitialized
	}
	return nil
}

// resolveProject finds a project by ID, then by case-insensitive title. A
// title shared by several projects is ambiguous.
func resolveProject(ref string) (*models.Project, error) {
	if err := requireProjects(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ref) == "" {
		return nil, errors.New("project reference must not be empty")
	}
	if p, err := ProjectMgr.GetProject(ref); err == nil {
		return p, nil
	} else if !errors.Is(err, core.ErrProjectNotFound) {
		return nil, err
	}

	summaries, err := ProjectMgr.ListProjects()
	if err != nil {
		return nil, err
	}
	var matches []models.ProjectSummary
	for _, s := range summaries {
		if strings.EqualFold(s.Title, ref) || strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", core.ErrProjectNotFound, ref)
	case 1:
		return ProjectMgr.GetProject(matches[0].ID)
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, fmt.Errorf("%q matches %d projects (%s); use the project ID", ref, len(matches), strings.Join(ids, ", "))
	}
}

// resolveTask finds a task in p by ID, unique ID prefix or case-insensitive
// name.
func resolveTask(p *models.Project, ref string) (models.Task, error) {
	if strings.TrimSpace(ref) == "" {
		return models.Task{}, errors.New("task reference must not be empty")
	}
	if i := p.TaskIndex(ref); i >= 0 {
		return p.Tasks[i], nil
	}
	var matches []models.Task
	for _, t := range p.Tasks {
		if strings.EqualFold(t.Name, ref) || strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %s in project %s", core.ErrTaskNotFound, ref, p.Title)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("%q matches %d tasks in %s; use the task ID", ref, len(matches), p.Title)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
