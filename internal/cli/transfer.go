package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Export a project as JSON",
	Long: `Write a project as two-space indented JSON. The file is named after the
project title with spaces replaced by underscores, e.g. "Launch Plan" becomes
Launch_Plan.json. Use -o to choose another path, or -o - for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolveProject(args[0])
		if err != nil {
			return err
		}
		data, err := ProjectMgr.ExportProject(p.ID)
		if err != nil {
			return err
		}

		if exportOutput == "-" {
			_, err := os.Stdout.Write(append(data, '\n'))
			return err
		}
		path := exportOutput
		if path == "" {
			path = core.ExportFileName(p.Title)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("Exported %q (%d tasks) to %s\n", p.Title, len(p.Tasks), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a project from an exported JSON file",
	Long: `Import an exported project as a new project. The copy gets a fresh ID and
" (Imported)" is appended to its title. A file that is not an exported
project is rejected without changing anything. Use - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireProjects(); err != nil {
			return err
		}
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(filepath.Clean(args[0]))
		}
		if err != nil {
			return fmt.Errorf("reading import: %w", err)
		}

		p, err := ProjectMgr.ImportProject(data)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %q as project %s (%d tasks)\n", p.Title, p.ID, len(p.Tasks))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path (default: <Title>.json, - for stdout)")
	rootCmd.AddCommand(exportCmd, importCmd)
}
