package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	ganttmcp "github.com/rayhan0x01/gantt-maestro/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the gantt MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gantt MCP server on stdio",
	Long: `Start the gantt MCP server on stdio transport.

The server exposes projects and the timeline engine as MCP tools that AI
assistants can call: list_projects, get_project, layout_timeline,
update_task, preview_gesture, export_project, import_project, get_metrics
and get_alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ProjectMgr == nil {
			return errNotInitialized
		}

		srv := ganttmcp.NewServer(ProjectMgr, MetricsCalc, AlertEngine, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
