// Package core contains the business logic for Gantt Maestro: configuration,
// project and task lifecycle, task list ordering, and task form validation.
package core

import (
	"fmt"
	"strings"

	"github.com/rayhan0x01/gantt-maestro/pkg/models"
	"github.com/spf13/viper"
)

// ConfigFileName is the base name of the global configuration file.
const ConfigFileName = ".ganttconfig"

// ConfigurationManager defines the interface for loading and validating the
// global .ganttconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(config *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .ganttconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		Timeline: models.TimelineConfig{
			WindowDays:            30,
			MinDayWidth:           4,
			AlwaysShowAffordances: false,
			AbbreviateAfterDays:   14,
		},
		Tasks: models.TaskDefaults{
			DefaultColor:        models.DefaultColor.Hex(),
			DefaultDurationDays: 7,
		},
		Alerts: models.AlertConfig{
			DueSoonDays: 3,
			StaleDays:   14,
		},
		Observability: models.ObservabilityConfig{Enabled: true},
	}
}

// LoadGlobalConfig reads the .ganttconfig file from the base path using
// Viper. If the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("timeline.window_days", cfg.Timeline.WindowDays)
	v.SetDefault("timeline.min_day_width", cfg.Timeline.MinDayWidth)
	v.SetDefault("timeline.always_show_affordances", cfg.Timeline.AlwaysShowAffordances)
	v.SetDefault("timeline.abbreviate_after_days", cfg.Timeline.AbbreviateAfterDays)
	v.SetDefault("tasks.default_color", cfg.Tasks.DefaultColor)
	v.SetDefault("tasks.default_duration_days", cfg.Tasks.DefaultDurationDays)
	v.SetDefault("alerts.due_soon_days", cfg.Alerts.DueSoonDays)
	v.SetDefault("alerts.stale_days", cfg.Alerts.StaleDays)
	v.SetDefault("observability.enabled", cfg.Observability.Enabled)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	cfg.Timeline.WindowDays = v.GetInt("timeline.window_days")
	cfg.Timeline.MinDayWidth = v.GetFloat64("timeline.min_day_width")
	cfg.Timeline.AlwaysShowAffordances = v.GetBool("timeline.always_show_affordances")
	cfg.Timeline.AbbreviateAfterDays = v.GetInt("timeline.abbreviate_after_days")
	cfg.Tasks.DefaultColor = v.GetString("tasks.default_color")
	cfg.Tasks.DefaultDurationDays = v.GetInt("tasks.default_duration_days")
	cfg.Alerts.DueSoonDays = v.GetInt("alerts.due_soon_days")
	cfg.Alerts.StaleDays = v.GetInt("alerts.stale_days")
	cfg.Observability.Enabled = v.GetBool("observability.enabled")

	return cfg, nil
}

// ValidateConfig checks the provided configuration for invalid values and
// returns an error listing every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.Timeline.WindowDays < 1 {
		errs = append(errs, fmt.Sprintf("timeline.window_days must be positive, got %d", cfg.Timeline.WindowDays))
	}
	if cfg.Timeline.MinDayWidth <= 0 {
		errs = append(errs, fmt.Sprintf("timeline.min_day_width must be positive, got %v", cfg.Timeline.MinDayWidth))
	}
	if cfg.Timeline.AbbreviateAfterDays < 1 {
		errs = append(errs, fmt.Sprintf("timeline.abbreviate_after_days must be positive, got %d", cfg.Timeline.AbbreviateAfterDays))
	}
	if _, err := models.ParseColor(cfg.Tasks.DefaultColor); err != nil {
		errs = append(errs, fmt.Sprintf("tasks.default_color %q is not a #rrggbb colour", cfg.Tasks.DefaultColor))
	}
	if cfg.Tasks.DefaultDurationDays < 0 {
		errs = append(errs, fmt.Sprintf("tasks.default_duration_days must be non-negative, got %d", cfg.Tasks.DefaultDurationDays))
	}
	if cfg.Alerts.DueSoonDays < 0 {
		errs = append(errs, fmt.Sprintf("alerts.due_soon_days must be non-negative, got %d", cfg.Alerts.DueSoonDays))
	}
	if cfg.Alerts.StaleDays < 0 {
		errs = append(errs, fmt.Sprintf("alerts.stale_days must be non-negative, got %d", cfg.Alerts.StaleDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
