package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	ganttmcp "github.com/rayhan0x01/gantt-maestro/internal/mcp"
	"github.com/rayhan0x01/gantt-maestro/internal/observability"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"github.com/spf13/cobra"
)

var (
	metricsJSON  bool
	metricsSince string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display project, task and timeline metrics",
	Long: `Display aggregated metrics derived from the event log, followed by a count
of the projects and tasks currently stored.

Metrics include projects created, deleted and imported, tasks created and
completed, and timeline drags by kind.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (observability may be disabled)")
		}

		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		var inv *observability.Inventory
		if ProjectMgr != nil {
			i, err := takeInventory()
			if err != nil {
				return fmt.Errorf("counting projects: %w", err)
			}
			inv = &i
		}

		if metricsJSON {
			data, err := json.MarshalIndent(struct {
				*observability.Metrics
				Inventory *observability.Inventory `json:"inventory,omitempty"`
			}{metrics, inv}, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		// Table format.
		fmt.Printf("Metrics (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Printf("  %-24s %d\n", "Events recorded:", metrics.EventCount)
		fmt.Printf("  %-24s %d\n", "Projects created:", metrics.ProjectsCreated)
		fmt.Printf("  %-24s %d\n", "Projects imported:", metrics.ProjectsImported)
		fmt.Printf("  %-24s %d\n", "Projects deleted:", metrics.ProjectsDeleted)
		fmt.Printf("  %-24s %d\n", "Tasks created:", metrics.TasksCreated)
		fmt.Printf("  %-24s %d\n", "Tasks completed:", metrics.TasksCompleted)
		fmt.Printf("  %-24s %d\n", "Tasks deleted:", metrics.TasksDeleted)
		fmt.Printf("  %-24s %d (%d cancelled)\n", "Timeline drags:", metrics.Gestures, metrics.GesturesCancelled)

		if len(metrics.GesturesByKind) > 0 {
			fmt.Println("\n  Drags by kind:")
			kinds := make([]string, 0, len(metrics.GesturesByKind))
			for kind := range metrics.GesturesByKind {
				kinds = append(kinds, kind)
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				fmt.Printf("    %-20s %d\n", kind+":", metrics.GesturesByKind[kind])
			}
		}

		if metrics.OldestEvent != nil {
			fmt.Printf("\n  %-24s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Printf("  %-24s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		if inv != nil {
			fmt.Printf("\nStored now\n\n")
			fmt.Printf("  %-24s %d\n", "Projects:", inv.Projects)
			for _, status := range []models.ProjectStatus{models.ProjectActive, models.ProjectDraft, models.ProjectCompleted} {
				if n := inv.ProjectsByStatus[status]; n > 0 {
					fmt.Printf("    %-20s %d\n", string(status)+":", n)
				}
			}
			fmt.Printf("  %-24s %d (%d completed)\n", "Tasks:", inv.Tasks, inv.TasksCompleted)
			fmt.Printf("  %-24s %.0f%%\n", "Average progress:", inv.AverageProgress)
		}

		return nil
	},
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past. Blank means 7d.
func parseSinceDuration(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "7d"
	}
	return ganttmcp.ParseSince(s, time.Now())
}

// takeInventory loads every project and counts them.
func takeInventory() (observability.Inventory, error) {
	summaries, err := ProjectMgr.ListProjects()
	if err != nil {
		return observability.Inventory{}, err
	}
	projects := make([]models.Project, 0, len(summaries))
	for _, s := range summaries {
		p, err := ProjectMgr.GetProject(s.ID)
		if err != nil {
			return observability.Inventory{}, err
		}
		projects = append(projects, *p)
	}
	return observability.TakeInventory(projects), nil
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
