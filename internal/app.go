// Package internal provides the App struct that wires all components of
// Gantt Maestro together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rayhan0x01/gantt-maestro/internal/cli"
	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/internal/observability"
	"github.com/rayhan0x01/gantt-maestro/internal/storage"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// HomeEnv names the environment variable that overrides the data directory.
const HomeEnv = "GANTT_HOME"

// App holds all service dependencies for Gantt Maestro.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Storage layer
	ProjectStore storage.ProjectStore

	// Core services
	ProjectMgr core.ProjectManager

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory holding
// projects.yaml, .ganttconfig and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		// An unreadable .ganttconfig falls back to the defaults; "gantt config
		// validate" reports the problem.
		globalCfg = core.DefaultGlobalConfig()
	}
	app.Config = globalCfg

	// --- Storage layer ---
	app.ProjectStore = storage.NewProjectStore(basePath)

	// --- Observability ---
	if globalCfg.Observability.Enabled {
		app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(basePath, observability.EventLogFileName))
		if err != nil {
			// Non-fatal: disable observability if log can't be created.
			app.EventLog = nil
		}
	}
	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}

		thresholds := observability.DefaultAlertThresholds()
		if globalCfg.Alerts.DueSoonDays > 0 {
			thresholds.DueSoonDays = globalCfg.Alerts.DueSoonDays
		}
		if globalCfg.Alerts.StaleDays > 0 {
			thresholds.StaleDays = globalCfg.Alerts.StaleDays
		}
		// Alerts read through their own store so evaluation never shares
		// in-memory state with a project mutation.
		app.AlertEngine = observability.NewAlertEngine(&projectSourceAdapter{store: storage.NewProjectStore(basePath)}, thresholds)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Core services ---
	app.ProjectMgr = core.NewProjectManager(app.ProjectStore, core.TaskFormFromConfig(globalCfg.Tasks), evtAdapter)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = globalCfg
	cli.ProjectMgr = app.ProjectMgr

	cli.EventLog = app.EventLog
	cli.Events = evtAdapter
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the data directory. GANTT_HOME wins; otherwise
// the nearest directory at or above the working directory that holds a
// .ganttconfig; otherwise the working directory.
func ResolveBasePath() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	cwd := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}

// projectSourceAdapter adapts storage.ProjectStore to
// observability.ProjectSource, reloading the file on every call.
type projectSourceAdapter struct {
	store storage.ProjectStore
}

func (a *projectSourceAdapter) AllProjects() ([]models.Project, error) {
	if err := a.store.Load(); err != nil {
		return nil, err
	}
	return a.store.List()
}
