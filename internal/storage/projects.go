package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"gopkg.in/yaml.v3"
)

// ProjectsFile represents the top-level structure of projects.yaml.
type ProjectsFile struct {
	Version  string                     `yaml:"version"`
	Projects map[string]*models.Project `yaml:"projects"`
}

// ProjectStore defines the interface for the on-disk project registry.
// Load and Save bracket a unit of work; Put, Delete and the getters act on
// the in-memory copy.
type ProjectStore interface {
	Put(project models.Project) error
	Delete(projectID string) error
	Get(projectID string) (*models.Project, error)
	List() ([]models.Project, error)
	Load() error
	Save() error
	// Lock takes an exclusive advisory lock on the store file so that a CLI
	// command and an open chart editor do not interleave writes.
	Lock() (unlock func() error, err error)
}

type fileProjectStore struct {
	basePath string
	data     ProjectsFile
}

// NewProjectStore creates a new ProjectStore backed by a projects.yaml file
// in the given base directory.
func NewProjectStore(basePath string) ProjectStore {
	return &fileProjectStore{
		basePath: basePath,
		data:     emptyProjectsFile(),
	}
}

func emptyProjectsFile() ProjectsFile {
	return ProjectsFile{
		Version:  "1.0",
		Projects: make(map[string]*models.Project),
	}
}

func (s *fileProjectStore) filePath() string {
	return filepath.Join(s.basePath, "projects.yaml")
}

func (s *fileProjectStore) lockPath() string {
	return filepath.Join(s.basePath, ".projects.lock")
}

func (s *fileProjectStore) Put(project models.Project) error {
	if project.ID == "" {
		return fmt.Errorf("storing project: ID must not be empty")
	}
	p := project
	p.Tasks = append([]models.Task(nil), project.Tasks...)
	s.data.Projects[p.ID] = &p
	return nil
}

func (s *fileProjectStore) Delete(projectID string) error {
	if _, exists := s.data.Projects[projectID]; !exists {
		return fmt.Errorf("removing project: project %s not found", projectID)
	}
	delete(s.data.Projects, projectID)
	return nil
}

func (s *fileProjectStore) Get(projectID string) (*models.Project, error) {
	p, exists := s.data.Projects[projectID]
	if !exists {
		return nil, fmt.Errorf("project %s not found", projectID)
	}
	out := *p
	out.Tasks = append([]models.Task(nil), p.Tasks...)
	return &out, nil
}

// List returns all projects ordered by creation time, oldest first.
func (s *fileProjectStore) List() ([]models.Project, error) {
	out := make([]models.Project, 0, len(s.data.Projects))
	for _, p := range s.data.Projects {
		cp := *p
		cp.Tasks = append([]models.Task(nil), p.Tasks...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fileProjectStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			s.data = emptyProjectsFile()
			return nil
		}
		return fmt.Errorf("loading projects: %w", err)
	}

	var pf ProjectsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("loading projects: parsing YAML: %w", err)
	}
	if pf.Projects == nil {
		pf.Projects = make(map[string]*models.Project)
	}
	s.data = pf
	return nil
}

func (s *fileProjectStore) Save() error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("saving projects: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("saving projects: marshaling YAML: %w", err)
	}
	// Write to a sibling file and rename so a crash never leaves a truncated
	// registry behind.
	tmp := s.filePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("saving projects: writing file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath()); err != nil {
		return fmt.Errorf("saving projects: replacing file: %w", err)
	}
	return nil
}

func (s *fileProjectStore) Lock() (func() error, error) {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return nil, fmt.Errorf("locking projects: creating directory: %w", err)
	}
	return lockFile(s.lockPath())
}
