package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

type column struct {
	title string
	width int
	sort  core.SortKey
}

const (
	colGrip = iota
	colName
	colStart
	colEnd
	colProgress
	colColor
	colStatus
)

var tableColumns = []column{
	colGrip:     {title: "", width: 2},
	colName:     {title: "Name", width: 24},
	colStart:    {title: "Start", width: 15, sort: core.SortByStart},
	colEnd:      {title: "End", width: 15, sort: core.SortByEnd},
	colProgress: {title: "%", width: 6},
	colColor:    {title: "Color", width: 7},
	colStatus:   {title: "Status", width: 12},
}

const tableDateLayout = "Jan 02, 2006"

// columnAt returns the table column under terminal column x, or -1.
func columnAt(x int) int {
	left := 0
	for i, c := range tableColumns {
		if x >= left && x < left+c.width {
			return i
		}
		left += c.width
	}
	return -1
}

func pad(s string, width int) string {
	s = ansi.Truncate(s, width-1, "…")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func renderTableHeader(sort *core.SortState) string {
	var b strings.Builder
	for _, c := range tableColumns {
		title := c.title
		if c.sort != "" {
			title += " " + sort.Arrow(c.sort)
		}
		b.WriteString(tableHeaderStyle.Render(pad(title, c.width)))
	}
	return b.String()
}

func renderTableRow(t models.Task, selected, dropTarget bool) string {
	name := pad(t.Name, tableColumns[colName].width)
	switch {
	case selected:
		name = selectedRowStyle.Render(name)
	case dropTarget:
		name = dropTargetStyle.Render(name)
	}

	status := statusInProgress.Render("In Progress")
	if t.Completed {
		status = statusDone.Render("Completed")
	}

	cells := []string{
		gripStyle.Render(pad("⠿", tableColumns[colGrip].width)),
		name,
		pad(t.StartDate.Format(tableDateLayout), tableColumns[colStart].width),
		pad(t.EndDate.Format(tableDateLayout), tableColumns[colEnd].width),
		pad(fmt.Sprintf("%d%%", t.Progress), tableColumns[colProgress].width),
		swatch(t.Color) + strings.Repeat(" ", tableColumns[colColor].width-2),
		status,
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
