package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rayhan0x01/gantt-maestro/internal/tui"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"github.com/spf13/cobra"
)

// Dashboard panel indices.
const (
	panelProjects = iota
	panelMetrics
	panelAlerts
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	projects    []projectRow
	metricsData *metricsSnapshot
	alerts      []alertSnapshot

	// State.
	cursor        int
	selectID      string
	confirmDelete bool
	open          string
	status        string
	loading       bool
	err           error
}

type projectRow struct {
	summary  models.ProjectSummary
	progress float64
	done     int
}

type metricsSnapshot struct {
	projectsCreated int
	tasksCreated    int
	tasksCompleted  int
	gestures        int
	eventCount      int
}

type alertSnapshot struct {
	severity string
	message  string
	time     string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	projects []projectRow
	metrics  *metricsSnapshot
	alerts   []alertSnapshot
	err      error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	statCardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)

	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true)

	statusActive    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusCompleted = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	statusDraft     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// newDashboardModel returns a dashboard that selects selectID once data is
// loaded.
func newDashboardModel(selectID string) dashboardModel {
	return dashboardModel{
		activePanel: panelProjects,
		loading:     true,
		selectID:    selectID,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}
		if m.activePanel == panelProjects {
			return m.updateProjects(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.projects = msg.projects
		m.metricsData = msg.metrics
		m.alerts = msg.alerts
		m.err = nil
		m.restoreCursor()
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case "enter", "o":
		if p, ok := m.current(); ok {
			m.open = p.summary.ID
			return m, tea.Quit
		}
	case "n":
		p, err := ProjectMgr.CreateProject("")
		if err != nil {
			m.err = err
			return m, nil
		}
		m.open = p.ID
		return m, tea.Quit
	case "s":
		p, ok := m.current()
		if !ok {
			return m, nil
		}
		next := nextStatus(p.summary.Status)
		if _, err := ProjectMgr.SetProjectStatus(p.summary.ID, next); err != nil {
			m.err = err
			return m, nil
		}
		m.selectID = p.summary.ID
		m.status = fmt.Sprintf("%s is now %s", p.summary.Title, next)
		return m, loadData
	case "d":
		if _, ok := m.current(); ok {
			m.confirmDelete = true
		}
	}
	return m, nil
}

func (m dashboardModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	p, ok := m.current()
	if !ok || (msg.String() != "y" && msg.String() != "Y") {
		m.status = ""
		return m, nil
	}
	if err := ProjectMgr.DeleteProject(p.summary.ID); err != nil {
		m.err = err
		return m, nil
	}
	m.status = fmt.Sprintf("Deleted %s", p.summary.Title)
	return m, loadData
}

func (m dashboardModel) current() (projectRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.projects) {
		return projectRow{}, false
	}
	return m.projects[m.cursor], true
}

// restoreCursor keeps the cursor on selectID after a reload, or in range.
func (m *dashboardModel) restoreCursor() {
	if m.selectID != "" {
		for i, p := range m.projects {
			if p.summary.ID == m.selectID {
				m.cursor = i
				m.selectID = ""
				return
			}
		}
		m.selectID = ""
	}
	if m.cursor >= len(m.projects) {
		m.cursor = len(m.projects) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func nextStatus(s models.ProjectStatus) models.ProjectStatus {
	switch s {
	case models.ProjectDraft:
		return models.ProjectActive
	case models.ProjectActive:
		return models.ProjectCompleted
	default:
		return models.ProjectDraft
	}
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" Gantt Maestro ")
	help := helpStyle.Render("tab: switch panel | ↑/↓: select | enter: open | n: new | s: status | d: delete | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	stats := m.renderStats()
	projectsPanel := m.renderProjectsPanel()
	metricsPanel := m.renderMetricsPanel()
	alertsPanel := m.renderAlertsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Projects on the left, metrics and alerts stacked on the right.
		sideWidth := availableWidth / 3
		mainWidth := availableWidth - sideWidth
		projectsPanel = m.applyPanelStyle(panelProjects, projectsPanel, mainWidth-4)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, sideWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, sideWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, projectsPanel,
			lipgloss.JoinVertical(lipgloss.Left, metricsPanel, alertsPanel))
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		projectsPanel = m.applyPanelStyle(panelProjects, projectsPanel, panelWidth)
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, projectsPanel, metricsPanel, alertsPanel)
	}

	footer := help
	switch {
	case m.confirmDelete:
		if p, ok := m.current(); ok {
			footer = warnStyle.Render(fmt.Sprintf("Delete %q and its %d tasks? (y/N)", p.summary.Title, p.summary.TaskCount))
		}
	case m.status != "":
		footer = m.status + "\n" + help
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, stats, body, footer)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderStats() string {
	counts := map[models.ProjectStatus]int{}
	for _, p := range m.projects {
		counts[p.summary.Status]++
	}
	card := func(label string, n int) string {
		return statCardStyle.Render(fmt.Sprintf("%s\n%d", label, n))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Projects", len(m.projects)),
		card("Active Projects", counts[models.ProjectActive]),
		card("Completed Projects", counts[models.ProjectCompleted]),
	)
}

func (m dashboardModel) renderProjectsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Your Projects"))
	b.WriteString("\n")

	if len(m.projects) == 0 {
		b.WriteString("  No projects yet. Press n to create one.")
		return b.String()
	}

	for i, p := range m.projects {
		s := p.summary
		line := fmt.Sprintf("%-28s %s %3d/%-3d done %s %s",
			truncateText(s.Title, 28),
			styleForStatus(s.Status).Render(fmt.Sprintf("%-9s", s.Status)),
			p.done, s.TaskCount,
			progressBar(p.progress, 10),
			s.UpdatedAt.Local().Format("Jan 02 15:04"))
		if i == m.cursor && m.activePanel == panelProjects {
			line = cursorStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m dashboardModel) renderMetricsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Metrics (7d)"))
	b.WriteString("\n")

	if m.metricsData == nil {
		b.WriteString("  No metrics available.")
		return b.String()
	}

	md := m.metricsData
	lines := []struct {
		label string
		value int
	}{
		{"Events", md.eventCount},
		{"Projects", md.projectsCreated},
		{"Tasks", md.tasksCreated},
		{"Completed", md.tasksCompleted},
		{"Drags", md.gestures},
	}

	for _, l := range lines {
		b.WriteString(fmt.Sprintf("  %-14s %d\n", l.label, l.value))
	}

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(a.severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(a.severity)))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

// progressBar renders pct (0-100) as a bar width cells wide.
func progressBar(pct float64, width int) string {
	filled := int(pct/100*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func styleForStatus(status models.ProjectStatus) lipgloss.Style {
	switch status {
	case models.ProjectActive:
		return statusActive
	case models.ProjectCompleted:
		return statusCompleted
	case models.ProjectDraft:
		return statusDraft
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadData() tea.Msg {
	var result dataLoadedMsg

	if ProjectMgr != nil {
		summaries, err := ProjectMgr.ListProjects()
		if err != nil {
			result.err = fmt.Errorf("loading projects: %w", err)
			return result
		}
		result.projects = make([]projectRow, 0, len(summaries))
		for _, s := range summaries {
			row := projectRow{summary: s}
			if p, err := ProjectMgr.GetProject(s.ID); err == nil && len(p.Tasks) > 0 {
				total := 0
				for _, t := range p.Tasks {
					total += t.Progress
					if t.Completed {
						row.done++
					}
				}
				row.progress = float64(total) / float64(len(p.Tasks))
			}
			result.projects = append(result.projects, row)
		}
	}

	// Load metrics from MetricsCalc.
	if MetricsCalc != nil {
		since := time.Now().UTC().AddDate(0, 0, -7)
		metrics, err := MetricsCalc.Calculate(since)
		if err != nil {
			result.err = fmt.Errorf("loading metrics: %w", err)
			return result
		}
		result.metrics = &metricsSnapshot{
			projectsCreated: metrics.ProjectsCreated,
			tasksCreated:    metrics.TasksCreated,
			tasksCompleted:  metrics.TasksCompleted,
			gestures:        metrics.Gestures,
			eventCount:      metrics.EventCount,
		}
	}

	// Load alerts from AlertEngine.
	if AlertEngine != nil {
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			result.err = fmt.Errorf("loading alerts: %w", err)
			return result
		}
		result.alerts = make([]alertSnapshot, 0, len(alerts))

		// Sort alerts by severity: high first, then medium, then low.
		sort.SliceStable(alerts, func(i, j int) bool {
			return severityRank(string(alerts[i].Severity)) < severityRank(string(alerts[j].Severity))
		})

		for _, a := range alerts {
			result.alerts = append(result.alerts, alertSnapshot{
				severity: string(a.Severity),
				message:  a.Message,
				time:     a.TriggeredAt.Format("2006-01-02 15:04 UTC"),
			})
		}
	}

	return result
}

func severityRank(s string) int {
	switch s {
	case "high":
		return 0
	case "medium":
		return 1
	case "low":
		return 2
	default:
		return 3
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard of projects, metrics and alerts",
	Long: `Launch an interactive terminal dashboard listing every project with its
status and progress, next to metrics and alerts.

Select a project with the arrow keys and press enter to open it in the chart
editor; quitting the editor returns here. Press n to create a project, s to
cycle its status and d to delete it. Switch panels with Tab, refresh with r,
quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProjects(); err != nil {
			return err
		}
		selectID := ""
		for {
			final, err := runProgram(newDashboardModel(selectID), tea.WithAltScreen())
			if err != nil {
				return err
			}
			dm, ok := final.(dashboardModel)
			if !ok || dm.open == "" {
				return nil
			}

			cfg := timelineConfig()
			chart, err := tui.NewChart(ProjectMgr, dm.open, tui.Options{
				Geometry:              terminalGeometry(),
				WindowDays:            cfg.WindowDays,
				AlwaysShowAffordances: cfg.AlwaysShowAffordances,
				Events:                Events,
			})
			if err != nil {
				return err
			}
			if _, err := runProgram(chart, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus()); err != nil {
				return fmt.Errorf("running chart editor: %w", err)
			}
			selectID = dm.open
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
