package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	headerDayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	headerMonthStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hoverDayStyle    = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))
	guideStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	trackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedRowStyle = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	dropTargetStyle  = lipgloss.NewStyle().Underline(true)
	gripStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	dialogStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)
	labelStyle = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("250"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// barStyle paints the body of a task bar in the task colour.
func barStyle(c models.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(c.Hex()))
}

// progressStyle paints the completed part of a bar a shade lighter.
func progressStyle(c models.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(c.Lighter(0.9).Hex()))
}

func swatch(c models.Color) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
}
