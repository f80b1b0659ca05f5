package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

var (
	// ErrProjectNotFound is returned when no project has the requested ID.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTaskNotFound is returned when a project has no task with the
	// requested ID.
	ErrTaskNotFound = errors.New("task not found")
	// ErrMalformedImport is returned when import data is not a valid
	// exported project. Nothing is written when it occurs.
	ErrMalformedImport = errors.New("malformed import")
	// ErrSortActive is returned when a manual reorder is attempted while the
	// task list is sorted by date.
	ErrSortActive = errors.New("cannot reorder while sorted")
	// ErrInvalidTask is returned when task input fails validation.
	ErrInvalidTask = errors.New("invalid task")
)

// DefaultProjectTitle is the title of projects created without one.
const DefaultProjectTitle = "Untitled Project"

// ProjectManager defines the interface for project and task lifecycle
// operations. Every mutating call loads, changes and saves the store under
// its file lock.
type ProjectManager interface {
	CreateProject(title string) (*models.Project, error)
	EnsureProject(projectID string) (*models.Project, error)
	GetProject(projectID string) (*models.Project, error)
	ListProjects() ([]models.ProjectSummary, error)
	DeleteProject(projectID string) error
	RenameProject(projectID, title string) (*models.Project, error)
	SetProjectStatus(projectID string, status models.ProjectStatus) (*models.Project, error)

	AddTask(projectID string, in TaskInput) (*models.Task, error)
	SaveTask(projectID string, task models.Task) (*models.Task, error)
	DeleteTask(projectID, taskID string) error
	ToggleTaskCompleted(projectID, taskID string) (*models.Task, error)
	UpdateTask(projectID, taskID string, patch models.TaskPatch) (*models.Task, error)
	ReorderTask(projectID, fromID, toID string, sort *SortState) (bool, error)

	ExportProject(projectID string) ([]byte, error)
	ImportProject(data []byte) (*models.Project, error)

	// TaskForm returns the defaults used for blank task fields.
	TaskForm() TaskForm
}

type projectManager struct {
	store  ProjectStore
	form   TaskForm
	events EventLogger
	now    func() time.Time
	newID  func() string
}

// NewProjectManager creates a ProjectManager over store. form supplies the
// defaults for blank task fields. events may be nil when observability is
// disabled.
func NewProjectManager(store ProjectStore, form TaskForm, events EventLogger) ProjectManager {
	return &projectManager{
		store:  store,
		form:   form,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (pm *projectManager) TaskForm() TaskForm { return pm.form }

func (pm *projectManager) logEvent(eventType string, data map[string]any) {
	if pm.events == nil {
		return
	}
	_ = pm.events.LogEvent(eventType, data)
}

// errUnchanged lets a mutate callback skip the save without failing.
var errUnchanged = errors.New("unchanged")

// mutate runs fn against a freshly loaded store and saves the result while
// holding the store lock. fn returning an error aborts without saving.
func (pm *projectManager) mutate(fn func() error) error {
	unlock, err := pm.store.Lock()
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	if err := pm.store.Load(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	return pm.store.Save()
}

// withProject loads projectID, applies fn to it and writes it back with a
// fresh UpdatedAt.
func (pm *projectManager) withProject(projectID string, fn func(p *models.Project) error) (*models.Project, error) {
	var out *models.Project
	err := pm.mutate(func() error {
		p, err := pm.store.Get(projectID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = pm.now()
		out = p
		return pm.store.Put(*p)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (pm *projectManager) CreateProject(title string) (*models.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultProjectTitle
	}
	now := pm.now()
	p := models.Project{
		ID:        pm.newID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Tasks:     []models.Task{},
		Status:    models.ProjectDraft,
	}
	if err := pm.mutate(func() error { return pm.store.Put(p) }); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	pm.logEvent("project.created", map[string]any{"project_id": p.ID, "title": p.Title})
	return &p, nil
}

func (pm *projectManager) EnsureProject(projectID string) (*models.Project, error) {
	var out *models.Project
	created := false
	err := pm.mutate(func() error {
		if p, err := pm.store.Get(projectID); err == nil {
			out = p
			return errUnchanged
		}
		now := pm.now()
		p := models.Project{
			ID:        projectID,
			Title:     DefaultProjectTitle,
			CreatedAt: now,
			UpdatedAt: now,
			Tasks:     []models.Task{},
			Status:    models.ProjectDraft,
		}
		out = &p
		created = true
		return pm.store.Put(p)
	})
	if err != nil {
		return nil, fmt.Errorf("ensuring project %s: %w", projectID, err)
	}
	if created {
		pm.logEvent("project.created", map[string]any{"project_id": projectID, "title": out.Title})
	}
	return out, nil
}

func (pm *projectManager) GetProject(projectID string) (*models.Project, error) {
	if err := pm.store.Load(); err != nil {
		return nil, fmt.Errorf("getting project %s: %w", projectID, err)
	}
	p, err := pm.store.Get(projectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w: %s", ErrProjectNotFound, projectID)
	}
	return p, nil
}

func (pm *projectManager) ListProjects() ([]models.ProjectSummary, error) {
	if err := pm.store.Load(); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	projects, err := pm.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	out := make([]models.ProjectSummary, len(projects))
	for i := range projects {
		out[i] = projects[i].Summary()
	}
	return out, nil
}

func (pm *projectManager) DeleteProject(projectID string) error {
	err := pm.mutate(func() error {
		if err := pm.store.Delete(projectID); err != nil {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	pm.logEvent("project.deleted", map[string]any{"project_id": projectID})
	return nil
}

func (pm *projectManager) RenameProject(projectID, title string) (*models.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("renaming project %s: title must not be empty", projectID)
	}
	p, err := pm.withProject(projectID, func(p *models.Project) error {
		p.Title = title
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("renaming project: %w", err)
	}
	return p, nil
}

func (pm *projectManager) SetProjectStatus(projectID string, status models.ProjectStatus) (*models.Project, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("setting project status: %q is not one of active, completed, draft", status)
	}
	p, err := pm.withProject(projectID, func(p *models.Project) error {
		p.Status = status
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("setting project status: %w", err)
	}
	return p, nil
}

func (pm *projectManager) AddTask(projectID string, in TaskInput) (*models.Task, error) {
	task, err := pm.form.Validate(in)
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	task.ID = pm.newID()
	_, err = pm.withProject(projectID, func(p *models.Project) error {
		p.Tasks = append(p.Tasks, task)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	pm.logEvent("task.created", map[string]any{"project_id": projectID, "task_id": task.ID, "name": task.Name})
	return &task, nil
}

func (pm *projectManager) SaveTask(projectID string, task models.Task) (*models.Task, error) {
	_, err := pm.withProject(projectID, func(p *models.Project) error {
		i := p.TaskIndex(task.ID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, task.ID)
		}
		p.Tasks[i] = task
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving task: %w", err)
	}
	return &task, nil
}

func (pm *projectManager) DeleteTask(projectID, taskID string) error {
	_, err := pm.withProject(projectID, func(p *models.Project) error {
		i := p.TaskIndex(taskID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	pm.logEvent("task.deleted", map[string]any{"project_id": projectID, "task_id": taskID})
	return nil
}

// ToggleTaskCompleted flips the completed flag. Completing forces progress to
// 100 and reopening resets it to 0.
func (pm *projectManager) ToggleTaskCompleted(projectID, taskID string) (*models.Task, error) {
	var out models.Task
	_, err := pm.withProject(projectID, func(p *models.Project) error {
		i := p.TaskIndex(taskID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		t := &p.Tasks[i]
		t.Completed = !t.Completed
		if t.Completed {
			t.Progress = 100
		} else {
			t.Progress = 0
		}
		out = *t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toggling task: %w", err)
	}
	if out.Completed {
		pm.logEvent("task.completed", map[string]any{"project_id": projectID, "task_id": taskID})
	}
	return &out, nil
}

// UpdateTask applies a partial update from the timeline. A patch that
// changes nothing skips the write.
func (pm *projectManager) UpdateTask(projectID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	var out models.Task
	err := pm.mutate(func() error {
		p, err := pm.store.Get(projectID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		i := p.TaskIndex(taskID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		next := p.Tasks[i].Apply(patch)
		out = next
		if next.Equal(p.Tasks[i]) {
			return errUnchanged
		}
		p.Tasks[i] = next
		p.UpdatedAt = pm.now()
		return pm.store.Put(*p)
	})
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return &out, nil
}

// ReorderTask moves fromID to toID's position. It is rejected while sort is
// active and reports false when the order did not change.
func (pm *projectManager) ReorderTask(projectID, fromID, toID string, sort *SortState) (bool, error) {
	if sort != nil {
		return false, fmt.Errorf("reordering tasks: %w", ErrSortActive)
	}
	changed := false
	err := pm.mutate(func() error {
		p, err := pm.store.Get(projectID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		var next []models.Task
		next, changed = ReorderTasks(p.Tasks, fromID, toID)
		if !changed {
			return errUnchanged
		}
		p.Tasks = next
		p.UpdatedAt = pm.now()
		return pm.store.Put(*p)
	})
	if err != nil {
		return false, fmt.Errorf("reordering tasks: %w", err)
	}
	return changed, nil
}

// ExportProject returns the project as two-space indented JSON.
func (pm *projectManager) ExportProject(projectID string) ([]byte, error) {
	p, err := pm.GetProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("exporting project: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("exporting project %s: %w", projectID, err)
	}
	return data, nil
}

// ExportFileName returns the default export file name for a project title:
// whitespace runs become underscores and ".json" is appended.
func ExportFileName(title string) string {
	name := strings.Join(strings.Fields(title), "_")
	if name == "" {
		name = "project"
	}
	return name + ".json"
}

// importEnvelope checks shape before the typed decode so a missing tasks
// array is distinguishable from an empty one.
type importEnvelope struct {
	ID    json.RawMessage `json:"id"`
	Title string          `json:"title"`
	Tasks json.RawMessage `json:"tasks"`
}

// ImportProject validates data as an exported project and stores it as a new
// project. The whole import is rejected on the first problem.
func (pm *projectManager) ImportProject(data []byte) (*models.Project, error) {
	p, err := decodeImport(data)
	if err != nil {
		return nil, err
	}

	now := pm.now()
	p.ID = pm.newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Title = p.Title + " (Imported)"
	if !p.Status.Valid() {
		p.Status = models.ProjectDraft
	}
	for i := range p.Tasks {
		if p.Tasks[i].ID == "" {
			p.Tasks[i].ID = pm.newID()
		}
	}

	if err := pm.mutate(func() error { return pm.store.Put(*p) }); err != nil {
		return nil, fmt.Errorf("importing project: %w", err)
	}
	pm.logEvent("project.imported", map[string]any{"project_id": p.ID, "title": p.Title, "tasks": len(p.Tasks)})
	return p, nil
}

func decodeImport(data []byte) (*models.Project, error) {
	var env importEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if id := bytes.TrimSpace(env.ID); len(id) == 0 || bytes.Equal(id, []byte("null")) || bytes.Equal(id, []byte(`""`)) {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedImport)
	}
	if env.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedImport)
	}
	if tasks := bytes.TrimSpace(env.Tasks); len(tasks) == 0 || tasks[0] != '[' {
		return nil, fmt.Errorf("%w: tasks must be an array", ErrMalformedImport)
	}

	// Tolerate a numeric id from older exports; it is replaced anyway.
	var p struct {
		models.Project
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	out := p.Project
	seen := make(map[string]bool, len(out.Tasks))
	for i, t := range out.Tasks {
		if t.StartDate.IsZero() || t.EndDate.IsZero() {
			return nil, fmt.Errorf("%w: task %d is missing a date", ErrMalformedImport, i)
		}
		if t.Progress < 0 || t.Progress > 100 {
			return nil, fmt.Errorf("%w: task %d has progress %d outside 0..100", ErrMalformedImport, i, t.Progress)
		}
		if t.ID != "" && seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate task id %q", ErrMalformedImport, t.ID)
		}
		seen[t.ID] = true
	}
	if out.Tasks == nil {
		out.Tasks = []models.Task{}
	}
	return &out, nil
}
