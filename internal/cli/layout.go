package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rayhan0x01/gantt-maestro/internal/timeline"
	"github.com/rayhan0x01/gantt-maestro/internal/tui"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	layoutFrom     string
	layoutTo       string
	layoutWidth    float64
	layoutGeometry string
	layoutFormat   string
)

// layoutDoc is the machine-readable form of a frame.
type layoutDoc struct {
	Project  string      `json:"project" yaml:"project"`
	From     string      `json:"from" yaml:"from"`
	To       string      `json:"to" yaml:"to"`
	Days     int         `json:"days" yaml:"days"`
	DayWidth float64     `json:"day_width" yaml:"day_width"`
	Origin   float64     `json:"origin" yaml:"origin"`
	Bars     []layoutBar `json:"bars" yaml:"bars"`
}

type layoutBar struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Row           int     `json:"row" yaml:"row"`
	Start         string  `json:"start" yaml:"start"`
	End           string  `json:"end" yaml:"end"`
	X             float64 `json:"x" yaml:"x"`
	Y             float64 `json:"y" yaml:"y"`
	Width         float64 `json:"width" yaml:"width"`
	ProgressWidth float64 `json:"progress_width" yaml:"progress_width"`
	Visible       bool    `json:"visible" yaml:"visible"`
}

var layoutCmd = &cobra.Command{
	Use:   "layout <project>",
	Short: "Print a project's timeline layout",
	Long: `Lay out a project for a date window and print it. The text format draws the
chart once without the editor; json and yaml print the computed bar
positions, in cells for the terminal geometry or pixels for the pixel
geometry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}

		geometry := terminalGeometry()
		width := 120.0
		switch layoutGeometry {
		case "terminal":
		case "pixel":
			if layoutFormat == "text" {
				return fmt.Errorf("the text format draws terminal cells; use --format json or yaml with --geometry pixel")
			}
			geometry, width = timeline.PixelGeometry(), 1200
		default:
			return fmt.Errorf("unknown geometry %q: want terminal or pixel", layoutGeometry)
		}
		if layoutWidth > 0 {
			width = layoutWidth
		}

		window, err := timeline.ParseWindow(layoutFrom, layoutTo, models.Today(), timelineConfig().WindowDays)
		if err != nil {
			return err
		}
		frame, err := timeline.NewEngine(geometry).Layout(p.Tasks, window, width)
		if err != nil {
			return err
		}

		switch layoutFormat {
		case "text":
			fmt.Printf("%s  %s to %s\n\n", p.Title, window.Start.Format("Jan 02, 2006"), window.End.Format("Jan 02, 2006"))
			fmt.Println(tui.RenderTimeline(frame, int(width)))
			return nil
		case "json":
			data, err := json.MarshalIndent(newLayoutDoc(p, frame), "", "  ")
			if err != nil {
				return fmt.Errorf("formatting layout as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		case "yaml":
			data, err := yaml.Marshal(newLayoutDoc(p, frame))
			if err != nil {
				return fmt.Errorf("formatting layout as YAML: %w", err)
			}
			fmt.Print(string(data))
			return nil
		default:
			return fmt.Errorf("unknown format %q: want text, json or yaml", layoutFormat)
		}
	},
}

func newLayoutDoc(p *models.Project, f *timeline.Frame) layoutDoc {
	doc := layoutDoc{
		Project:  p.Title,
		From:     f.Window.Start.String(),
		To:       f.Window.End.String(),
		Days:     f.TotalDays,
		DayWidth: f.DayWidth,
		Origin:   f.Origin(),
		Bars:     make([]layoutBar, len(f.Bars)),
	}
	for i, b := range f.Bars {
		doc.Bars[i] = layoutBar{
			ID:            b.Task.ID,
			Name:          b.Task.Name,
			Row:           b.Row,
			Start:         b.Task.StartDate.String(),
			End:           b.Task.EndDate.String(),
			X:             b.X,
			Y:             b.Y,
			Width:         b.Width,
			ProgressWidth: b.ProgressWidth(),
			Visible:       b.Visible,
		}
	}
	return doc
}

func init() {
	layoutCmd.Flags().StringVar(&layoutFrom, "from", "", "First visible day (YYYY-MM-DD), defaults to today")
	layoutCmd.Flags().StringVar(&layoutTo, "to", "", "Last visible day (YYYY-MM-DD)")
	layoutCmd.Flags().Float64Var(&layoutWidth, "width", 0, "Horizontal budget (default 120 cells or 1200 pixels)")
	layoutCmd.Flags().StringVar(&layoutGeometry, "geometry", "terminal", "terminal or pixel")
	layoutCmd.Flags().StringVarP(&layoutFormat, "format", "f", "text", "text, json or yaml")
	rootCmd.AddCommand(layoutCmd)
}
