package cli

import (
	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/internal/observability"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath   string
	Config     *models.GlobalConfig
	ProjectMgr core.ProjectManager
)

// Observability service instances. All nil when observability is disabled.
var (
	EventLog    observability.EventLog
	Events      core.EventLogger
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
)
