package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects (new, list, show, rename, status, delete)",
	Long: `Create, inspect and remove projects.

Commands that take a <project> accept the project ID, a unique ID prefix or
the project title.`,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new project",
	Long: `Create an empty draft project. Without a title it is named "Untitled Project".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProjects(); err != nil {
			return err
		}
		title := ""
		if len(args) == 1 {
			title = args[0]
		}
		p, err := ProjectMgr.CreateProject(title)
		if err != nil {
			return err
		}
		fmt.Printf("Created project %s\n", p.ID)
		fmt.Printf("  Title:  %s\n", p.Title)
		fmt.Printf("  Status: %s\n", p.Status)
		return nil
	},
}

var projectListJSON bool

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all projects, oldest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProjects(); err != nil {
			return err
		}
		summaries, err := ProjectMgr.ListProjects()
		if err != nil {
			return err
		}

		if projectListJSON {
			data, err := json.MarshalIndent(summaries, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting projects as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(summaries) == 0 {
			fmt.Println("No projects yet. Create one with: gantt project new <title>")
			return nil
		}
		fmt.Printf("%-10s %-30s %-10s %6s  %s\n", "ID", "TITLE", "STATUS", "TASKS", "UPDATED")
		for _, s := range summaries {
			fmt.Printf("%-10s %-30s %-10s %6d  %s\n",
				shortID(s.ID), truncateText(s.Title, 30), s.Status, s.TaskCount,
				s.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var (
	projectShowSort string
	projectShowDesc bool
)

var projectShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Show a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		sort, err := sortFromFlags(projectShowSort, projectShowDesc)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", p.Title)
		fmt.Printf("  ID:      %s\n", p.ID)
		fmt.Printf("  Status:  %s\n", p.Status)
		fmt.Printf("  Created: %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("  Updated: %s\n\n", p.UpdatedAt.Local().Format("2006-01-02 15:04"))
		printTaskTable(core.SortTasks(p.Tasks, sort))
		return nil
	},
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <project> <title>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		renamed, err := ProjectMgr.RenameProject(p.ID, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %q to %q\n", p.Title, renamed.Title)
		return nil
	},
}

var projectStatusCmd = &cobra.Command{
	Use:       "status <project> <active|completed|draft>",
	Short:     "Set a project's status",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(models.ProjectActive), string(models.ProjectCompleted), string(models.ProjectDraft)},
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		status := models.ProjectStatus(strings.ToLower(args[1]))
		if _, err := ProjectMgr.SetProjectStatus(p.ID, status); err != nil {
			return err
		}
		fmt.Printf("Project %q is now %s\n", p.Title, status)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete <project>",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all of its tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		if err := ProjectMgr.DeleteProject(p.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted project %q (%d tasks)\n", p.Title, len(p.Tasks))
		return nil
	},
}

// sortFromFlags turns --sort/--desc into a sort state. An empty key keeps
// list order.
func sortFromFlags(key string, desc bool) (*core.SortState, error) {
	if key == "" {
		return nil, nil
	}
	k, err := core.ParseSortKey(key)
	if err != nil {
		return nil, err
	}
	s := &core.SortState{Key: k, Direction: core.Ascending}
	if desc {
		s.Direction = core.Descending
	}
	return s, nil
}

func printTaskTable(tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Println("  No tasks.")
		return
	}
	fmt.Printf("  %-10s %-24s %-10s %-10s %5s  %-8s %s\n", "ID", "NAME", "START", "END", "%", "COLOR", "STATUS")
	for _, t := range tasks {
		status := "In Progress"
		if t.Completed {
			status = "Completed"
		}
		fmt.Printf("  %-10s %-24s %-10s %-10s %5d  %-8s %s\n",
			shortID(t.ID), truncateText(t.Name, 24), t.StartDate, t.EndDate, t.Progress, t.Color.Hex(), status)
	}
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	projectListCmd.Flags().BoolVar(&projectListJSON, "json", false, "Output projects as JSON")
	projectShowCmd.Flags().StringVar(&projectShowSort, "sort", "", "Order tasks by start or end date")
	projectShowCmd.Flags().BoolVar(&projectShowDesc, "desc", false, "Sort descending")

	projectCmd.AddCommand(projectNewCmd, projectListCmd, projectShowCmd, projectRenameCmd, projectStatusCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
