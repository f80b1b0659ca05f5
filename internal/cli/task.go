package cli

import (
	"fmt"
	"strconv"

	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage tasks (add, edit, delete, complete, list, move, shift)",
	Long: `Add, change and reorder the tasks of a project.

A <task> is the task ID, a unique ID prefix or the task name. Task order is
row order on the chart; "task move" changes it.`,
}

// Flag values shared by "task add" and "task edit".
var (
	taskNameFlag      string
	taskStartFlag     string
	taskEndFlag       string
	taskProgressFlag  int
	taskColorFlag     string
	taskCompletedFlag bool
)

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&taskNameFlag, "name", "n", "", "Task name")
	cmd.Flags().StringVar(&taskStartFlag, "start", "", "Start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&taskEndFlag, "end", "", "End date (YYYY-MM-DD), defaults to a week after today")
	cmd.Flags().IntVarP(&taskProgressFlag, "progress", "p", 0, "Progress percentage, 0 to 100")
	cmd.Flags().StringVarP(&taskColorFlag, "color", "c", "", "Bar colour as #rrggbb")
	cmd.Flags().BoolVar(&taskCompletedFlag, "completed", false, "Mark the task completed")
}

// inputFromFlags overlays the flags the user set on base.
func inputFromFlags(cmd *cobra.Command, base core.TaskInput) core.TaskInput {
	in := base
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = taskNameFlag
	}
	if flags.Changed("start") {
		in.StartDate = taskStartFlag
	}
	if flags.Changed("end") {
		in.EndDate = taskEndFlag
	}
	if flags.Changed("progress") {
		in.Progress = strconv.Itoa(taskProgressFlag)
	}
	if flags.Changed("color") {
		in.Color = taskColorFlag
	}
	if flags.Changed("completed") {
		in.Completed = taskCompletedFlag
	}
	return in
}

var taskAddCmd = &cobra.Command{
	Use:   "add <project> [name]",
	Short: "Add a task to the end of a project",
	Long: `Add a task. Blank fields take the configured defaults: the start is today,
the end is tasks.default_duration_days later and the colour is
tasks.default_color.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		in := inputFromFlags(cmd, core.TaskInput{})
		if len(args) == 2 && !cmd.Flags().Changed("name") {
			in.Name = args[1]
		}
		t, err := ProjectMgr.AddTask(p.ID, in)
		if err != nil {
			return err
		}
		fmt.Printf("Added task %s to %s\n", t.ID, p.Title)
		printTask(*t)
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <project> <task>",
	Short: "Change a task's fields",
	Long:  `Change a task. Only the flags given are changed; the result is validated like a new task.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		cur, err := resolveTask(p, args[1])
		if err != nil {
			return err
		}
		in := inputFromFlags(cmd, core.InputFromTask(cur))
		next, err := ProjectMgr.TaskForm().Validate(in)
		if err != nil {
			return fmt.Errorf("editing task %s: %w", cur.Name, err)
		}
		next.ID = cur.ID
		if next.Equal(cur) {
			fmt.Println("Nothing to change.")
			return nil
		}
		t, err := ProjectMgr.SaveTask(p.ID, next)
		if err != nil {
			return err
		}
		fmt.Printf("Updated task %s\n", t.ID)
		printTask(*t)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <project> <task>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		t, err := resolveTask(p, args[1])
		if err != nil {
			return err
		}
		if err := ProjectMgr.DeleteTask(p.ID, t.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted task %q from %s\n", t.Name, p.Title)
		return nil
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <project> <task>",
	Short: "Toggle a task between completed and in progress",
	Long:  `Toggle completion. Completing a task sets its progress to 100.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		t, err := resolveTask(p, args[1])
		if err != nil {
			return err
		}
		updated, err := ProjectMgr.ToggleTaskCompleted(p.ID, t.ID)
		if err != nil {
			return err
		}
		if updated.Completed {
			fmt.Printf("Completed %q\n", updated.Name)
		} else {
			fmt.Printf("Reopened %q\n", updated.Name)
		}
		return nil
	},
}

var (
	taskListSort string
	taskListDesc bool
)

var taskListCmd = &cobra.Command{
	Use:     "list <project>",
	Aliases: []string{"ls"},
	Short:   "List a project's tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		sort, err := sortFromFlags(taskListSort, taskListDesc)
		if err != nil {
			return err
		}
		printTaskTable(core.SortTasks(p.Tasks, sort))
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <project> <task> <target>",
	Short: "Move a task to the row of another task",
	Long: `Move a task so that it takes the position of <target>. Moving down places it
after the target, moving up places it before.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		from, err := resolveTask(p, args[1])
		if err != nil {
			return err
		}
		to, err := resolveTask(p, args[2])
		if err != nil {
			return err
		}
		changed, err := ProjectMgr.ReorderTask(p.ID, from.ID, to.ID, nil)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Println("Nothing to move.")
			return nil
		}
		fmt.Printf("Moved %q to row %d\n", from.Name, p.TaskIndex(to.ID)+1)
		return nil
	},
}

var taskShiftCmd = &cobra.Command{
	Use:   "shift <project> <task> <days>",
	Short: "Move a task's dates by a number of days",
	Long:  `Shift both dates of a task, keeping its duration. Negative days move it earlier.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("days must be a whole number, got %q", args[2])
		}
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		t, err := resolveTask(p, args[1])
		if err != nil {
			return err
		}
		start, end := t.StartDate.AddDays(days), t.EndDate.AddDays(days)
		updated, err := ProjectMgr.UpdateTask(p.ID, t.ID, models.TaskPatch{StartDate: &start, EndDate: &end})
		if err != nil {
			return err
		}
		fmt.Printf("%s now runs %s to %s\n", updated.Name, updated.StartDate, updated.EndDate)
		return nil
	},
}

func printTask(t models.Task) {
	fmt.Printf("  Name:     %s\n", t.Name)
	fmt.Printf("  Dates:    %s to %s (%d days)\n", t.StartDate, t.EndDate, t.DurationDays())
	fmt.Printf("  Progress: %d%%\n", t.Progress)
	fmt.Printf("  Color:    %s\n", t.Color.Hex())
	if t.Completed {
		fmt.Printf("  Status:   Completed\n")
	}
}

func init() {
	addTaskFlags(taskAddCmd)
	addTaskFlags(taskEditCmd)
	taskListCmd.Flags().StringVar(&taskListSort, "sort", "", "Order by start or end date")
	taskListCmd.Flags().BoolVar(&taskListDesc, "desc", false, "Sort descending")

	taskCmd.AddCommand(taskAddCmd, taskEditCmd, taskDeleteCmd, taskCompleteCmd, taskListCmd, taskMoveCmd, taskShiftCmd)
	rootCmd.AddCommand(taskCmd)
}
