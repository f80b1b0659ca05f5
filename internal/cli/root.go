package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "gantt",
	Short: "Gantt Maestro - terminal Gantt charts",
	Long: `Gantt Maestro (gantt) keeps projects as ordered lists of dated tasks and
draws them as an interactive Gantt chart in the terminal.

Bars can be dragged to move a task, their edges dragged to resize it, and
the track below a bar dragged to set its progress. Projects are stored in
projects.yaml under the data directory and can be exported as JSON.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gantt %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
