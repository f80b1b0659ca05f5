package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rayhan0x01/gantt-maestro/internal/core"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate the .ganttconfig file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := Config
		if cfg == nil {
			cfg = core.DefaultGlobalConfig()
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("formatting config as YAML: %w", err)
		}
		fmt.Printf("# %s\n", filepath.Join(BasePath, core.ConfigFileName))
		fmt.Print(string(data))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load .ganttconfig and report invalid values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := core.NewConfigurationManager(BasePath)
		cfg, err := mgr.LoadGlobalConfig()
		if err != nil {
			return err
		}
		if err := mgr.ValidateConfig(cfg); err != nil {
			return err
		}
		fmt.Println("Configuration is valid.")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .ganttconfig with the default settings",
	Long: `Write a .ganttconfig containing the default settings to the base
directory. Commands run in that directory or below it use the file. An
existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(BasePath, core.ConfigFileName)
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}

		data, err := yaml.Marshal(core.DefaultGlobalConfig())
		if err != nil {
			return fmt.Errorf("formatting config as YAML: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing .ganttconfig")
	configCmd.AddCommand(configShowCmd, configValidateCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
