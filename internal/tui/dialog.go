package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// Dialog fields, in focus order. The keys match core.FieldError.Field.
const (
	fieldName = iota
	fieldStart
	fieldEnd
	fieldProgress
	fieldColor
	fieldCount
)

var (
	fieldKeys   = [fieldCount]string{"name", "start", "end", "progress", "color"}
	fieldLabels = [fieldCount]string{"Name", "Start", "End", "Progress", "Color"}
)

// taskDialog edits one task. An empty taskID means a new task.
type taskDialog struct {
	taskID    string
	completed bool
	inputs    []textinput.Model
	focus     int
	errField  string
	errMsg    string
}

func newTaskDialog(in core.TaskInput, taskID string) *taskDialog {
	values := [fieldCount]string{in.Name, in.StartDate, in.EndDate, in.Progress, in.Color}
	placeholders := [fieldCount]string{"Task name", "YYYY-MM-DD", "YYYY-MM-DD", "0-100", "#3b82f6"}

	d := &taskDialog{taskID: taskID, completed: in.Completed, inputs: make([]textinput.Model, fieldCount)}
	for i := range d.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 64
		ti.Width = 30
		ti.SetValue(values[i])
		d.inputs[i] = ti
	}
	d.inputs[fieldName].Focus()
	return d
}

func (d *taskDialog) title() string {
	if d.taskID == "" {
		return "Add Task"
	}
	return "Edit Task"
}

// input returns the dialog content as typed.
func (d *taskDialog) input() core.TaskInput {
	return core.TaskInput{
		Name:      d.inputs[fieldName].Value(),
		StartDate: d.inputs[fieldStart].Value(),
		EndDate:   d.inputs[fieldEnd].Value(),
		Progress:  d.inputs[fieldProgress].Value(),
		Color:     d.inputs[fieldColor].Value(),
		Completed: d.completed,
	}
}

func (d *taskDialog) setFocus(i int) tea.Cmd {
	d.inputs[d.focus].Blur()
	d.focus = (i + fieldCount) % fieldCount
	return d.inputs[d.focus].Focus()
}

// cyclePalette replaces the colour with the next palette entry.
func (d *taskDialog) cyclePalette() {
	next := 0
	if c, err := models.ParseColor(d.inputs[fieldColor].Value()); err == nil {
		if i := models.PaletteIndex(c); i >= 0 {
			next = (i + 1) % len(models.Palette)
		}
	}
	d.inputs[fieldColor].SetValue(models.Palette[next].Hex())
}

// setError shows err next to the field it names.
func (d *taskDialog) setError(err error) {
	var fe *core.FieldError
	if errors.As(err, &fe) {
		d.errField, d.errMsg = fe.Field, fe.Message
		for i, k := range fieldKeys {
			if k == fe.Field {
				d.setFocus(i)
			}
		}
		return
	}
	d.errField, d.errMsg = "", err.Error()
}

// Update handles focus movement and palette cycling and forwards the rest
// to the focused input. Enter and Esc belong to the chart.
func (d *taskDialog) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return d.setFocus(d.focus + 1)
		case "shift+tab", "up":
			return d.setFocus(d.focus - 1)
		case "ctrl+n":
			d.cyclePalette()
			return nil
		}
	}
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return cmd
}

func (d *taskDialog) View() string {
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(d.title()))
	b.WriteString("\n\n")
	for i, in := range d.inputs {
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		b.WriteString(in.View())
		if i == fieldColor {
			if c, err := models.ParseColor(in.Value()); err == nil {
				b.WriteString(" " + swatch(c))
			}
		}
		if d.errField == fieldKeys[i] {
			b.WriteString("  " + errorStyle.Render(d.errMsg))
		}
		b.WriteString("\n")
	}
	if d.errField == "" && d.errMsg != "" {
		b.WriteString(errorStyle.Render(d.errMsg) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: save • esc: cancel • tab: next field • ctrl+n: next colour"))
	return dialogStyle.Render(b.String())
}
