package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rayhan0x01/gantt-maestro/internal/timeline"
	"github.com/rayhan0x01/gantt-maestro/internal/tui"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"github.com/spf13/cobra"
)

var (
	chartFrom   string
	chartTo     string
	chartAlways bool
)

// runProgram starts a bubbletea program. Tests replace it to avoid taking
// over the terminal.
var runProgram = func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	return tea.NewProgram(m, opts...).Run()
}

var chartCmd = &cobra.Command{
	Use:   "chart [project]",
	Short: "Open the interactive Gantt chart editor",
	Long: `Open a project in the chart editor. Without a project a new untitled
project is created. A project ID that does not exist yet is created as an
untitled draft.

Mouse: drag a bar to move it, drag its edge grips to resize, drag the track
under a hovered bar to set progress, drag the table grip to reorder rows and
click the Start/End headers to sort. The key bindings are listed at the
bottom of the editor.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProjects(); err != nil {
			return err
		}

		projectID, err := chartProjectID(args)
		if err != nil {
			return err
		}

		cfg := timelineConfig()
		window, err := timeline.ParseWindow(chartFrom, chartTo, models.Today(), cfg.WindowDays)
		if err != nil {
			return err
		}

		chart, err := tui.NewChart(ProjectMgr, projectID, tui.Options{
			Geometry:              terminalGeometry(),
			Window:                window,
			WindowDays:            cfg.WindowDays,
			AlwaysShowAffordances: chartAlways || cfg.AlwaysShowAffordances,
			Events:                Events,
		})
		if err != nil {
			return err
		}

		_, err = runProgram(chart,
			tea.WithAltScreen(),
			tea.WithMouseAllMotion(),
			tea.WithReportFocus(),
		)
		if err != nil {
			return fmt.Errorf("running chart editor: %w", err)
		}
		return nil
	},
}

// chartProjectID resolves the optional project argument. An unknown
// reference is used as the ID of a project to create.
func chartProjectID(args []string) (string, error) {
	if len(args) == 0 {
		p, err := ProjectMgr.CreateProject("")
		if err != nil {
			return "", err
		}
		return p.ID, nil
	}
	if p, err := resolveProject(args[0]); err == nil {
		return p.ID, nil
	}
	return args[0], nil
}

// timelineConfig returns the timeline section of the loaded config, or the
// defaults when no config was loaded.
func timelineConfig() models.TimelineConfig {
	cfg := models.TimelineConfig{WindowDays: 30, MinDayWidth: 4, AbbreviateAfterDays: 14}
	if Config == nil {
		return cfg
	}
	if Config.Timeline.WindowDays > 0 {
		cfg.WindowDays = Config.Timeline.WindowDays
	}
	if Config.Timeline.MinDayWidth > 0 {
		cfg.MinDayWidth = Config.Timeline.MinDayWidth
	}
	if Config.Timeline.AbbreviateAfterDays > 0 {
		cfg.AbbreviateAfterDays = Config.Timeline.AbbreviateAfterDays
	}
	cfg.AlwaysShowAffordances = Config.Timeline.AlwaysShowAffordances
	return cfg
}

// terminalGeometry applies the configured day width and header threshold to
// the terminal measurements.
func terminalGeometry() timeline.Geometry {
	cfg := timelineConfig()
	g := timeline.TerminalGeometry()
	g.MinDayWidth = cfg.MinDayWidth
	g.AbbreviateAfter = cfg.AbbreviateAfterDays
	return g
}

func init() {
	chartCmd.Flags().StringVar(&chartFrom, "from", "", "First visible day (YYYY-MM-DD), defaults to today")
	chartCmd.Flags().StringVar(&chartTo, "to", "", "Last visible day (YYYY-MM-DD), defaults to timeline.window_days after --from")
	chartCmd.Flags().BoolVar(&chartAlways, "handles", false, "Always show resize grips and progress tracks")
	rootCmd.AddCommand(chartCmd)
}
