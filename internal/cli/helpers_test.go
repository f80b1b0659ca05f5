package cli

import (
	"io"
	"os"
	"testing"

	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/internal/storage"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// captureStdout redirects os.Stdout while fn runs and returns what was written.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = origStdout

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading pipe: %v", err)
	}
	return string(out)
}

// useTempProjects points ProjectMgr at an empty store in a temp dir for the
// duration of the test.
func useTempProjects(t *testing.T) core.ProjectManager {
	t.Helper()
	origMgr, origBase, origConfig := ProjectMgr, BasePath, Config
	t.Cleanup(func() {
		ProjectMgr, BasePath, Config = origMgr, origBase, origConfig
	})

	BasePath = t.TempDir()
	Config = nil
	ProjectMgr = core.NewProjectManager(storage.NewProjectStore(BasePath), core.DefaultTaskForm(), nil)
	return ProjectMgr
}

// seedProject creates a project with the given tasks, in order.
func seedProject(t *testing.T, pm core.ProjectManager, title string, tasks ...core.TaskInput) *models.Project {
	t.Helper()
	p, err := pm.CreateProject(title)
	if err != nil {
		t.Fatalf("CreateProject(%q): %v", title, err)
	}
	for _, in := range tasks {
		if _, err := pm.AddTask(p.ID, in); err != nil {
			t.Fatalf("AddTask(%q): %v", in.Name, err)
		}
	}
	p, err = pm.GetProject(p.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	return p
}

// resetFlags restores every flag of cmd to its default and clears Changed,
// so one test's flags do not leak into the next.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset()
	t.Cleanup(reset)
}

func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("setting --%s=%s: %v", name, value, err)
	}
}
