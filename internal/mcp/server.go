// Package mcp provides an MCP (Model Context Protocol) server that exposes
// projects and the timeline engine as tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/internal/observability"
	"github.com/rayhan0x01/gantt-maestro/internal/timeline"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// Server wraps the gantt services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	projects    core.ProjectManager
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
	today       func() models.Date
	now         func() time.Time
}

// NewServer creates a new MCP server over the given services. metricsCalc
// and alertEngine may be nil if observability is disabled.
func NewServer(projects core.ProjectManager, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		projects:    projects,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
		today:       models.Today,
		now:         time.Now,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "gantt", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run serves over stdio, blocking until the client disconnects or the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type projectIDInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the project identifier"`
}

type projectSummaryOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	TaskCount int    `json:"task_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type listProjectsInput struct{}

type listProjectsOutput struct {
	Projects []projectSummaryOutput `json:"projects"`
	Count    int                    `json:"count"`
}

type taskOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Progress  int    `json:"progress"`
	Color     string `json:"color"`
	Completed bool   `json:"completed"`
}

type getProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the project identifier"`
	Sort      string `json:"sort,omitempty" jsonschema:"order tasks by start or end date instead of list order"`
	Desc      bool   `json:"desc,omitempty" jsonschema:"sort descending"`
}

type projectOutput struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Status    string       `json:"status"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
	Tasks     []taskOutput `json:"tasks"`
}

type layoutInput struct {
	ProjectID string  `json:"project_id" jsonschema:"required,the project identifier"`
	From      string  `json:"from,omitempty" jsonschema:"first visible day (YYYY-MM-DD). Defaults to today."`
	To        string  `json:"to,omitempty" jsonschema:"last visible day (YYYY-MM-DD). Defaults to 30 days after from."`
	Width     float64 `json:"width,omitempty" jsonschema:"horizontal budget in geometry units. Defaults to 1200 pixels or 120 cells."`
	Geometry  string  `json:"geometry,omitempty" jsonschema:"pixel (default) or terminal"`
}

type barOutput struct {
	TaskID          string  `json:"task_id"`
	Name            string  `json:"name"`
	Row             int     `json:"row"`
	X               float64 `json:"x"`
	Width           float64 `json:"width"`
	Y               float64 `json:"y"`
	ProgressWidth   float64 `json:"progress_width"`
	Visible         bool    `json:"visible"`
	StartOffsetDays int     `json:"start_offset_days"`
	DurationDays    int     `json:"duration_days"`
}

type headerOutput struct {
	Date  string  `json:"date"`
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

type layoutOutput struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	TotalDays int            `json:"total_days"`
	DayWidth  float64        `json:"day_width"`
	Origin    float64        `json:"origin"`
	Bars      []barOutput    `json:"bars"`
	Header    []headerOutput `json:"header"`
}

type updateTaskInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,the project identifier"`
	TaskID    string `json:"task_id" jsonschema:"required,the task identifier"`
	StartDate string `json:"start_date,omitempty" jsonschema:"new start date (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"new end date (YYYY-MM-DD)"`
	Progress  *int   `json:"progress,omitempty" jsonschema:"new progress percentage, 0 to 100"`
}

type previewGestureInput struct {
	ProjectID string  `json:"project_id" jsonschema:"required,the project identifier"`
	From      string  `json:"from,omitempty" jsonschema:"first visible day (YYYY-MM-DD). Defaults to today."`
	To        string  `json:"to,omitempty" jsonschema:"last visible day (YYYY-MM-DD). Defaults to 30 days after from."`
	Width     float64 `json:"width,omitempty" jsonschema:"horizontal budget in geometry units"`
	Geometry  string  `json:"geometry,omitempty" jsonschema:"pixel (default) or terminal"`
	TaskID    string  `json:"task_id" jsonschema:"required,the task being dragged"`
	Kind      string  `json:"kind" jsonschema:"required,move, resize-start, resize-end or set-progress"`
	AnchorX   float64 `json:"anchor_x" jsonschema:"surface x where the pointer went down"`
	X         float64 `json:"x" jsonschema:"current surface x of the pointer"`
}

type previewGestureOutput struct {
	Apply     bool   `json:"apply"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Progress  *int   `json:"progress,omitempty"`
}

type exportProjectOutput struct {
	FileName string `json:"file_name"`
	JSON     string `json:"json"`
}

type importProjectInput struct {
	JSON string `json:"json" jsonschema:"required,an exported project document"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type inventoryOutput struct {
	Projects         int            `json:"projects"`
	ProjectsByStatus map[string]int `json:"projects_by_status"`
	Tasks            int            `json:"tasks"`
	TasksCompleted   int            `json:"tasks_completed"`
	AverageProgress  float64        `json:"average_progress"`
}

type metricsOutput struct {
	ProjectsCreated   int             `json:"projects_created"`
	ProjectsDeleted   int             `json:"projects_deleted"`
	ProjectsImported  int             `json:"projects_imported"`
	TasksCreated      int             `json:"tasks_created"`
	TasksDeleted      int             `json:"tasks_deleted"`
	TasksCompleted    int             `json:"tasks_completed"`
	Gestures          int             `json:"gestures"`
	GesturesByKind    map[string]int  `json:"gestures_by_kind"`
	GesturesCancelled int             `json:"gestures_cancelled"`
	EventCount        int             `json:"event_count"`
	OldestEvent       string          `json:"oldest_event,omitempty"`
	NewestEvent       string          `json:"newest_event,omitempty"`
	Inventory         inventoryOutput `json:"inventory"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	ProjectID   string `json:"project_id"`
	TaskID      string `json:"task_id,omitempty"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with their status and task count, oldest first.",
	}, s.handleListProjects)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_project",
		Description: "Get a project and its tasks. Tasks are in row order unless sort is start or end.",
	}, s.handleGetProject)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "layout_timeline",
		Description: "Compute the timeline layout of a project for a date window: day width, one bar per task and the date header.",
	}, s.handleLayoutTimeline)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task",
		Description: "Change a task's start date, end date or progress. The result must keep start on or before end and progress within 0-100.",
	}, s.handleUpdateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "preview_gesture",
		Description: "Compute the update a timeline drag would produce without saving it. Returns apply=false when a resize would cross the other edge.",
	}, s.handlePreviewGesture)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "export_project",
		Description: "Export a project as indented JSON together with its default file name.",
	}, s.handleExportProject)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "import_project",
		Description: "Import an exported project document as a new project. Malformed documents are rejected without writing anything.",
	}, s.handleImportProject)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log (projects, tasks, completions, timeline gestures) plus a count of stored projects and tasks.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return schedule alerts: overdue tasks, tasks due soon and stale active projects.",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleListProjects(_ context.Context, _ *gomcp.CallToolRequest, _ listProjectsInput) (*gomcp.CallToolResult, listProjectsOutput, error) {
	summaries, err := s.projects.ListProjects()
	if err != nil {
		return errorResult(fmt.Sprintf("listing projects: %s", err)), listProjectsOutput{}, nil
	}

	out := listProjectsOutput{
		Projects: make([]projectSummaryOutput, len(summaries)),
		Count:    len(summaries),
	}
	for i, p := range summaries {
		out.Projects[i] = summaryToOutput(p)
	}
	return nil, out, nil
}

func (s *Server) handleGetProject(_ context.Context, _ *gomcp.CallToolRequest, input getProjectInput) (*gomcp.CallToolResult, projectOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), projectOutput{}, nil
	}

	var sort *core.SortState
	if input.Sort != "" {
		key, err := core.ParseSortKey(input.Sort)
		if err != nil {
			return errorResult(err.Error()), projectOutput{}, nil
		}
		sort = &core.SortState{Key: key, Direction: core.Ascending}
		if input.Desc {
			sort.Direction = core.Descending
		}
	}

	p, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), projectOutput{}, nil
	}

	tasks := core.SortTasks(p.Tasks, sort)
	out := projectOutput{
		ID:        p.ID,
		Title:     p.Title,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		Tasks:     make([]taskOutput, len(tasks)),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleLayoutTimeline(_ context.Context, _ *gomcp.CallToolRequest, input layoutInput) (*gomcp.CallToolResult, layoutOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), layoutOutput{}, nil
	}
	frame, err := s.layout(input)
	if err != nil {
		return errorResult(err.Error()), layoutOutput{}, nil
	}
	return nil, frameToOutput(frame), nil
}

func (s *Server) handleUpdateTask(_ context.Context, _ *gomcp.CallToolRequest, input updateTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.ProjectID == "" || input.TaskID == "" {
		return errorResult("project_id and task_id are required"), taskOutput{}, nil
	}

	var patch models.TaskPatch
	if input.StartDate != "" {
		d, err := models.ParseDate(input.StartDate)
		if err != nil {
			return errorResult(fmt.Sprintf("start_date: %s", err)), taskOutput{}, nil
		}
		patch.StartDate = &d
	}
	if input.EndDate != "" {
		d, err := models.ParseDate(input.EndDate)
		if err != nil {
			return errorResult(fmt.Sprintf("end_date: %s", err)), taskOutput{}, nil
		}
		patch.EndDate = &d
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return errorResult("progress must be between 0 and 100"), taskOutput{}, nil
		}
		patch.Progress = input.Progress
	}
	if patch.IsEmpty() {
		return errorResult("nothing to update: set start_date, end_date or progress"), taskOutput{}, nil
	}

	p, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), taskOutput{}, nil
	}
	i := p.TaskIndex(input.TaskID)
	if i < 0 {
		return errorResult(fmt.Sprintf("task %s not found in project %s", input.TaskID, input.ProjectID)), taskOutput{}, nil
	}
	if next := p.Tasks[i].Apply(patch); next.EndDate.Before(next.StartDate) {
		return errorResult(fmt.Sprintf("end date %s would precede start date %s", next.EndDate, next.StartDate)), taskOutput{}, nil
	}

	t, err := s.projects.UpdateTask(input.ProjectID, input.TaskID, patch)
	if err != nil {
		return errorResult(fmt.Sprintf("updating task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	return nil, taskToOutput(*t), nil
}

func (s *Server) handlePreviewGesture(_ context.Context, _ *gomcp.CallToolRequest, input previewGestureInput) (*gomcp.CallToolResult, previewGestureOutput, error) {
	if input.ProjectID == "" || input.TaskID == "" {
		return errorResult("project_id and task_id are required"), previewGestureOutput{}, nil
	}
	kind, err := timeline.ParseDragKind(input.Kind)
	if err != nil {
		return errorResult(err.Error()), previewGestureOutput{}, nil
	}

	frame, err := s.layout(layoutInput{
		ProjectID: input.ProjectID,
		From:      input.From,
		To:        input.To,
		Width:     input.Width,
		Geometry:  input.Geometry,
	})
	if err != nil {
		return errorResult(err.Error()), previewGestureOutput{}, nil
	}
	bar, ok := frame.Bar(input.TaskID)
	if !ok {
		return errorResult(fmt.Sprintf("task %s not found in project %s", input.TaskID, input.ProjectID)), previewGestureOutput{}, nil
	}

	session := timeline.DragSession{TaskID: input.TaskID, Kind: kind, AnchorX: input.AnchorX, Snapshot: bar.Task}
	patch, apply, err := timeline.Preview(session, timeline.Point{X: input.X}, frame)
	if err != nil {
		return errorResult(fmt.Sprintf("previewing %s: %s", kind, err)), previewGestureOutput{}, nil
	}

	out := previewGestureOutput{Apply: apply, Progress: patch.Progress}
	if patch.StartDate != nil {
		out.StartDate = patch.StartDate.String()
	}
	if patch.EndDate != nil {
		out.EndDate = patch.EndDate.String()
	}
	return nil, out, nil
}

func (s *Server) handleExportProject(_ context.Context, _ *gomcp.CallToolRequest, input projectIDInput) (*gomcp.CallToolResult, exportProjectOutput, error) {
	if input.ProjectID == "" {
		return errorResult("project_id is required"), exportProjectOutput{}, nil
	}
	p, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting project %s: %s", input.ProjectID, err)), exportProjectOutput{}, nil
	}
	data, err := s.projects.ExportProject(input.ProjectID)
	if err != nil {
		return errorResult(fmt.Sprintf("exporting project %s: %s", input.ProjectID, err)), exportProjectOutput{}, nil
	}
	return nil, exportProjectOutput{FileName: core.ExportFileName(p.Title), JSON: string(data)}, nil
}

func (s *Server) handleImportProject(_ context.Context, _ *gomcp.CallToolRequest, input importProjectInput) (*gomcp.CallToolResult, projectSummaryOutput, error) {
	if input.JSON == "" {
		return errorResult("json is required"), projectSummaryOutput{}, nil
	}
	p, err := s.projects.ImportProject([]byte(input.JSON))
	if err != nil {
		return errorResult(fmt.Sprintf("importing project: %s", err)), projectSummaryOutput{}, nil
	}
	return nil, summaryToOutput(p.Summary()), nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := ParseSince(sinceStr, s.now())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		ProjectsCreated:   metrics.ProjectsCreated,
		ProjectsDeleted:   metrics.ProjectsDeleted,
		ProjectsImported:  metrics.ProjectsImported,
		TasksCreated:      metrics.TasksCreated,
		TasksDeleted:      metrics.TasksDeleted,
		TasksCompleted:    metrics.TasksCompleted,
		Gestures:          metrics.Gestures,
		GesturesByKind:    metrics.GesturesByKind,
		GesturesCancelled: metrics.GesturesCancelled,
		EventCount:        metrics.EventCount,
	}
	if out.GesturesByKind == nil {
		out.GesturesByKind = make(map[string]int)
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	inv, err := s.inventory()
	if err != nil {
		return errorResult(fmt.Sprintf("counting projects: %s", err)), emptyMetricsOutput(), nil
	}
	out.Inventory = inv
	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			ProjectID:   a.ProjectID,
			TaskID:      a.TaskID,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

const defaultWindowDays = 30

// layout loads the project and lays it out for the requested window.
func (s *Server) layout(input layoutInput) (*timeline.Frame, error) {
	geometry, width := timeline.PixelGeometry(), 1200.0
	switch input.Geometry {
	case "", "pixel":
	case "terminal":
		geometry, width = timeline.TerminalGeometry(), 120
	default:
		return nil, fmt.Errorf("unknown geometry %q: want pixel or terminal", input.Geometry)
	}
	if input.Width > 0 {
		width = input.Width
	}

	window, err := timeline.ParseWindow(input.From, input.To, s.today(), defaultWindowDays)
	if err != nil {
		return nil, err
	}

	p, err := s.projects.GetProject(input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", input.ProjectID, err)
	}
	frame, err := timeline.NewEngine(geometry).Layout(p.Tasks, window, width)
	if err != nil {
		return nil, fmt.Errorf("laying out project %s: %w", input.ProjectID, err)
	}
	return frame, nil
}

func (s *Server) inventory() (inventoryOutput, error) {
	summaries, err := s.projects.ListProjects()
	if err != nil {
		return inventoryOutput{}, err
	}
	projects := make([]models.Project, 0, len(summaries))
	for _, sum := range summaries {
		p, err := s.projects.GetProject(sum.ID)
		if err != nil {
			return inventoryOutput{}, err
		}
		projects = append(projects, *p)
	}
	inv := observability.TakeInventory(projects)
	out := inventoryOutput{
		Projects:         inv.Projects,
		ProjectsByStatus: make(map[string]int, len(inv.ProjectsByStatus)),
		Tasks:            inv.Tasks,
		TasksCompleted:   inv.TasksCompleted,
		AverageProgress:  inv.AverageProgress,
	}
	for status, n := range inv.ProjectsByStatus {
		out.ProjectsByStatus[string(status)] = n
	}
	return out, nil
}

func summaryToOutput(p models.ProjectSummary) projectSummaryOutput {
	return projectSummaryOutput{
		ID:        p.ID,
		Title:     p.Title,
		Status:    string(p.Status),
		TaskCount: p.TaskCount,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:        t.ID,
		Name:      t.Name,
		StartDate: t.StartDate.String(),
		EndDate:   t.EndDate.String(),
		Progress:  t.Progress,
		Color:     t.Color.Hex(),
		Completed: t.Completed,
	}
}

func frameToOutput(f *timeline.Frame) layoutOutput {
	out := layoutOutput{
		From:      f.Window.Start.String(),
		To:        f.Window.End.String(),
		TotalDays: f.TotalDays,
		DayWidth:  f.DayWidth,
		Origin:    f.Origin(),
		Bars:      make([]barOutput, len(f.Bars)),
		Header:    make([]headerOutput, len(f.Header)),
	}
	for i, b := range f.Bars {
		out.Bars[i] = barOutput{
			TaskID:          b.Task.ID,
			Name:            b.Task.Name,
			Row:             b.Row,
			X:               b.X,
			Width:           b.Width,
			Y:               b.Y,
			ProgressWidth:   b.ProgressWidth(),
			Visible:         b.Visible,
			StartOffsetDays: b.StartOffsetDays,
			DurationDays:    b.DurationDays,
		}
	}
	for i, h := range f.Header {
		out.Header[i] = headerOutput{Date: h.Date.String(), X: h.X, Label: h.Label}
	}
	return out
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		GesturesByKind: make(map[string]int),
		Inventory:      inventoryOutput{ProjectsByStatus: make(map[string]int)},
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// ParseSince parses a human-friendly duration string like "7d", "30d", or
// "24h" into the corresponding time before now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	now = now.UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
