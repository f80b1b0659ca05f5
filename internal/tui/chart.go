// Package tui implements the interactive chart editor: a timeline pane that
// takes mouse drags, a task table and a task dialog, all driven by
// bubbletea.
package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/internal/timeline"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// Screen rows above the timeline pane: the title bar and the window line.
const timelineTop = 2

const defaultWidth = 80

// Options configures a chart editor.
type Options struct {
	Geometry timeline.Geometry
	// Window is the initial visible range. A zero window starts today and
	// spans WindowDays further days.
	Window                timeline.DateWindow
	WindowDays            int
	AlwaysShowAffordances bool
	Events                core.EventLogger
	Today                 func() models.Date
}

// Chart is the bubbletea model of the chart editor for one project. Every
// edit goes through the ProjectManager and the view is rebuilt from what it
// returns.
type Chart struct {
	pm     core.ProjectManager
	events core.EventLogger
	today  func() models.Date

	engine *timeline.Engine
	interp *timeline.Interpreter
	frame  *timeline.Frame

	project  *models.Project
	window   timeline.DateWindow
	aff      timeline.Affordances
	hoverDay int
	scrollX  int
	sort     *core.SortState
	selected string

	rowDrag    string
	dropTarget string

	dialog *taskDialog
	rename *textinput.Model

	width  int
	status string
	err    error
}

// NewChart opens projectID, creating it as an untitled draft when missing.
func NewChart(pm core.ProjectManager, projectID string, opts Options) (*Chart, error) {
	p, err := pm.EnsureProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("opening chart: %w", err)
	}

	today := opts.Today
	if today == nil {
		today = models.Today
	}
	window := opts.Window
	if window.Start.IsZero() || window.End.IsZero() {
		days := opts.WindowDays
		if days <= 0 {
			days = 30
		}
		start := today()
		window = timeline.DateWindow{Start: start, End: start.AddDays(days)}
	}
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("opening chart: %w", err)
	}

	m := &Chart{
		pm:       pm,
		events:   opts.Events,
		today:    today,
		engine:   timeline.NewEngine(opts.Geometry),
		project:  p,
		window:   window,
		aff:      timeline.Affordances{Always: opts.AlwaysShowAffordances},
		hoverDay: -1,
		width:    defaultWidth,
	}
	m.interp = timeline.NewInterpreter(m.applyPatch)
	if len(p.Tasks) > 0 {
		m.selected = p.Tasks[0].ID
	}
	m.relayout()
	return m, nil
}

// Project returns the project as last loaded.
func (m *Chart) Project() models.Project { return *m.project }

// Window returns the visible date range.
func (m *Chart) Window() timeline.DateWindow { return m.window }

func (m *Chart) Init() tea.Cmd {
	return tea.SetWindowTitle("gantt · " + m.project.Title)
}

// applyPatch is the gesture interpreter's update callback.
func (m *Chart) applyPatch(taskID string, patch models.TaskPatch) {
	if _, err := m.pm.UpdateTask(m.project.ID, taskID, patch); err != nil {
		m.err = err
		return
	}
	m.reload()
}

func (m *Chart) reload() {
	p, err := m.pm.GetProject(m.project.ID)
	if err != nil {
		m.err = err
		return
	}
	m.project = p
	if m.selected != "" && p.TaskIndex(m.selected) < 0 {
		m.selected = ""
	}
	if m.aff.Hovered != "" && p.TaskIndex(m.aff.Hovered) < 0 {
		m.aff.Hovered = ""
	}
	m.relayout()
}

func (m *Chart) relayout() {
	f, err := m.engine.Layout(m.project.Tasks, m.window, float64(m.width))
	if err != nil {
		m.err = err
		return
	}
	m.frame = f
	m.interp.SetFrame(f)
	m.scrollBy(0)
}

// scrollBy moves the visible slice of the timeline by n columns, keeping it
// inside the frame.
func (m *Chart) scrollBy(n int) {
	m.scrollX = min(max(m.scrollX+n, 0), m.pane().maxScroll())
}

// scrollStep is one day's worth of columns.
func (m *Chart) scrollStep() int {
	if m.frame == nil {
		return 1
	}
	return max(1, int(math.Ceil(m.frame.DayWidth)))
}

// rows returns the tasks in table order.
func (m *Chart) rows() []models.Task {
	return core.SortTasks(m.project.Tasks, m.sort)
}

func (m *Chart) selectedTask() (models.Task, bool) {
	for _, t := range m.project.Tasks {
		if t.ID == m.selected {
			return t, true
		}
	}
	return models.Task{}, false
}

func (m *Chart) pane() timelinePane {
	dragging := ""
	if s, ok := m.interp.Session(); ok {
		dragging = s.TaskID
	}
	return timelinePane{frame: m.frame, aff: m.aff, hoverDay: m.hoverDay, dragging: dragging, width: m.width, scroll: m.scrollX}
}

// Screen row helpers. The table header sits one blank line below the
// timeline pane.
func (m *Chart) timelineBottom() int { return timelineTop + m.pane().height() }
func (m *Chart) tableHeaderRow() int { return m.timelineBottom() + 1 }

func (m *Chart) rowAt(y int) (models.Task, bool) {
	i := y - m.tableHeaderRow() - 1
	rows := m.rows()
	if i < 0 || i >= len(rows) {
		return models.Task{}, false
	}
	return rows[i], true
}

func (m *Chart) logGesture(s timeline.DragSession, outcome string) {
	if m.events == nil {
		return
	}
	_ = m.events.LogEvent("gesture.finished", map[string]any{
		"project_id": m.project.ID,
		"task_id":    s.TaskID,
		"kind":       string(s.Kind),
		"outcome":    outcome,
	})
}

func (m *Chart) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.relayout()
		return m, nil

	case tea.BlurMsg:
		if s, ok := m.interp.CaptureLost(); ok {
			m.logGesture(s, "cancelled")
		}
		m.rowDrag, m.dropTarget = "", ""
		return m, nil

	case tea.MouseMsg:
		if m.dialog == nil && m.rename == nil {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.dialog != nil:
			return m, m.updateDialog(msg)
		case m.rename != nil:
			return m, m.updateRename(msg)
		}
		return m.handleKey(msg)
	}

	// Cursor blink and friends go to whichever input is open.
	switch {
	case m.dialog != nil:
		return m, m.dialog.Update(msg)
	case m.rename != nil:
		var cmd tea.Cmd
		*m.rename, cmd = m.rename.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Chart) handleMouse(msg tea.MouseMsg) {
	p := surfacePoint(msg.X, msg.Y-timelineTop, m.scrollX)
	inTimeline := msg.Y >= timelineTop && msg.Y < m.timelineBottom()

	switch msg.Action {
	case tea.MouseActionPress:
		switch {
		case msg.Button == tea.MouseButtonWheelLeft,
			msg.Shift && msg.Button == tea.MouseButtonWheelUp:
			m.scrollBy(-m.scrollStep())
			return
		case msg.Button == tea.MouseButtonWheelRight,
			msg.Shift && msg.Button == tea.MouseButtonWheelDown:
			m.scrollBy(m.scrollStep())
			return
		case msg.Button != tea.MouseButtonLeft:
			return
		}
		m.err, m.status = nil, ""
		switch {
		case inTimeline:
			hit, ok := m.frame.HitTest(p, m.aff)
			if !ok {
				return
			}
			if err := m.interp.PointerDown(p, hit.TaskID, hit.Kind); err != nil {
				if !errors.Is(err, timeline.ErrBusy) {
					m.err = err
				}
				return
			}
			m.aff.Hovered = hit.TaskID
			m.selected = hit.TaskID
		case msg.Y == m.tableHeaderRow():
			if c := columnAt(msg.X); c >= 0 && tableColumns[c].sort != "" {
				m.sort = m.sort.Toggle(tableColumns[c].sort)
			}
		default:
			t, ok := m.rowAt(msg.Y)
			if !ok {
				return
			}
			m.selected = t.ID
			if columnAt(msg.X) == colGrip {
				if m.sort != nil {
					m.status = "Clear the sort (x) to reorder tasks"
					return
				}
				m.rowDrag = t.ID
			}
		}

	case tea.MouseActionMotion:
		if s, dragging := m.interp.Session(); dragging {
			if err := m.interp.PointerMove(p); err != nil {
				if _, still := m.interp.Session(); !still {
					m.logGesture(s, "cancelled")
				}
				m.err = err
			}
			return
		}
		if m.rowDrag != "" {
			m.dropTarget = ""
			if t, ok := m.rowAt(msg.Y); ok && t.ID != m.rowDrag {
				m.dropTarget = t.ID
			}
			return
		}
		m.aff.Hovered, m.hoverDay = "", -1
		if inTimeline {
			if id, ok := m.frame.HoverTarget(p); ok {
				m.aff.Hovered = id
			}
			m.hoverDay = m.frame.DayAt(p.X)
		}

	case tea.MouseActionRelease:
		if s, ok := m.interp.PointerUp(); ok {
			m.logGesture(s, "committed")
		}
		if m.rowDrag != "" {
			if t, ok := m.rowAt(msg.Y); ok {
				m.moveTask(m.rowDrag, t.ID)
			}
			m.rowDrag, m.dropTarget = "", ""
		}
	}
}

func (m *Chart) moveTask(fromID, toID string) {
	if _, err := m.pm.ReorderTask(m.project.ID, fromID, toID, m.sort); err != nil {
		if errors.Is(err, core.ErrSortActive) {
			m.status = "Clear the sort (x) to reorder tasks"
			return
		}
		m.err = err
		return
	}
	m.reload()
}

// moveSelected swaps the selected row with its neighbour delta rows away.
func (m *Chart) moveSelected(delta int) {
	if m.sort != nil {
		m.status = "Clear the sort (x) to reorder tasks"
		return
	}
	rows := m.rows()
	for i, t := range rows {
		if t.ID != m.selected {
			continue
		}
		if j := i + delta; j >= 0 && j < len(rows) {
			m.moveTask(t.ID, rows[j].ID)
		}
		return
	}
}

func (m *Chart) moveSelection(delta int) {
	rows := m.rows()
	if len(rows) == 0 {
		return
	}
	i := 0
	for k, t := range rows {
		if t.ID == m.selected {
			i = k + delta
		}
	}
	m.selected = rows[min(max(i, 0), len(rows)-1)].ID
}

func (m *Chart) setWindow(w timeline.DateWindow) {
	if w.Validate() != nil {
		return
	}
	m.window = w
	m.relayout()
}

func (m *Chart) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err, m.status = nil, ""
	w := m.window

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if s, ok := m.interp.PointerCancel(); ok {
			m.logGesture(s, "cancelled")
		}
		m.rowDrag, m.dropTarget = "", ""

	case "left":
		m.setWindow(w.Shift(-1))
	case "right":
		m.setWindow(w.Shift(1))
	case "[":
		m.setWindow(w.Shift(-7))
	case "]":
		m.setWindow(w.Shift(7))
	case "+", "=":
		m.setWindow(timeline.DateWindow{Start: w.Start, End: w.End.AddDays(1)})
	case "-":
		m.setWindow(timeline.DateWindow{Start: w.Start, End: w.End.AddDays(-1)})
	case "t":
		m.setWindow(timeline.NewWindow(m.today(), w.Days()))
		m.scrollBy(-m.scrollX)

	case "shift+left", "H":
		m.scrollBy(-m.scrollStep())
	case "shift+right", "L":
		m.scrollBy(m.scrollStep())
	case "home":
		m.scrollBy(-m.scrollX)
	case "end":
		m.scrollBy(m.pane().maxScroll())

	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "K":
		m.moveSelected(-1)
	case "J":
		m.moveSelected(1)

	case "s":
		m.sort = m.sort.Toggle(core.SortByStart)
	case "S":
		m.sort = m.sort.Toggle(core.SortByEnd)
	case "x":
		m.sort = nil

	case "a":
		m.dialog = newTaskDialog(m.pm.TaskForm().Blank(), "")
		return m, textinput.Blink
	case "e", "enter":
		if t, ok := m.selectedTask(); ok {
			m.dialog = newTaskDialog(core.InputFromTask(t), t.ID)
			return m, textinput.Blink
		}
	case "d":
		if t, ok := m.selectedTask(); ok {
			if err := m.pm.DeleteTask(m.project.ID, t.ID); err != nil {
				m.err = err
				break
			}
			m.status = fmt.Sprintf("Deleted %q", t.Name)
			m.reload()
		}
	case "c":
		if t, ok := m.selectedTask(); ok {
			if _, err := m.pm.ToggleTaskCompleted(m.project.ID, t.ID); err != nil {
				m.err = err
				break
			}
			m.reload()
		}
	case "r":
		ti := textinput.New()
		ti.Prompt = "Title: "
		ti.CharLimit = 120
		ti.SetValue(m.project.Title)
		ti.Focus()
		m.rename = &ti
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Chart) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.dialog = nil
		return nil
	case "enter":
		m.saveDialog()
		return nil
	}
	return m.dialog.Update(msg)
}

func (m *Chart) saveDialog() {
	d := m.dialog
	in := d.input()

	if d.taskID == "" {
		t, err := m.pm.AddTask(m.project.ID, in)
		if err != nil {
			d.setError(err)
			return
		}
		m.selected = t.ID
	} else {
		t, err := m.pm.TaskForm().Validate(in)
		if err != nil {
			d.setError(err)
			return
		}
		t.ID = d.taskID
		if _, err := m.pm.SaveTask(m.project.ID, t); err != nil {
			d.setError(err)
			return
		}
	}
	m.dialog = nil
	m.reload()
}

func (m *Chart) updateRename(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.rename = nil
		return nil
	case "enter":
		p, err := m.pm.RenameProject(m.project.ID, m.rename.Value())
		if err != nil {
			m.err = err
			return nil
		}
		m.project, m.rename = p, nil
		m.relayout()
		return tea.SetWindowTitle("gantt · " + p.Title)
	}
	var cmd tea.Cmd
	*m.rename, cmd = m.rename.Update(msg)
	return cmd
}

func (m *Chart) View() string {
	var b strings.Builder

	title := ansi.Truncate(m.project.Title, max(10, m.width-24), "…")
	b.WriteString(titleStyle.Render("Gantt Maestro │ " + title))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(m.windowLine()))
	b.WriteString("\n")

	for _, line := range m.pane().render() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderTableHeader(m.sort))
	b.WriteString("\n")
	rows := m.rows()
	for _, t := range rows {
		b.WriteString(renderTableRow(t, t.ID == m.selected, t.ID == m.dropTarget))
		b.WriteString("\n")
	}
	if len(rows) == 0 {
		b.WriteString(helpStyle.Render("No tasks yet. Press a to add one."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.dialog != nil:
		b.WriteString(m.dialog.View())
		b.WriteString("\n")
	case m.rename != nil:
		b.WriteString(m.rename.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(infoStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("←/→ [/] shift • H/L scroll • +/- resize • t today • a add • e edit • d delete • c complete • s/S sort • x unsort • J/K move • r rename • q quit"))
	return b.String()
}

func (m *Chart) windowLine() string {
	w := m.window
	line := fmt.Sprintf("%s to %s · %d days", w.Start.Format("Jan 02, 2006"), w.End.Format("Jan 02, 2006"), w.Days())
	if v := m.pane(); v.maxScroll() > 0 {
		first := max(0, m.frame.DayAt(float64(m.scrollX)+0.5))
		last := m.frame.DayAt(float64(m.scrollX+m.width) - 0.5)
		if last < 0 {
			last = m.frame.TotalDays - 1
		}
		line += fmt.Sprintf(" · showing %s to %s", w.Start.AddDays(first).Format("Jan 02"), w.Start.AddDays(last).Format("Jan 02"))
	}
	if m.frame == nil || m.aff.Hovered == "" {
		return line
	}
	if b, ok := m.frame.Bar(m.aff.Hovered); ok {
		t := b.Task
		line += fmt.Sprintf(" · %s: %s to %s, %d%%", t.Name, t.StartDate.Format("Jan 02"), t.EndDate.Format("Jan 02"), t.Progress)
	}
	return line
}
