package models

// TimelineConfig holds timeline rendering settings.
type TimelineConfig struct {
	WindowDays            int     `yaml:"window_days" mapstructure:"window_days"`
	MinDayWidth           float64 `yaml:"min_day_width" mapstructure:"min_day_width"`
	AlwaysShowAffordances bool    `yaml:"always_show_affordances" mapstructure:"always_show_affordances"`
	AbbreviateAfterDays   int     `yaml:"abbreviate_after_days" mapstructure:"abbreviate_after_days"`
}

// TaskDefaults holds defaults applied to new tasks.
type TaskDefaults struct {
	DefaultColor        string `yaml:"default_color" mapstructure:"default_color"`
	DefaultDurationDays int    `yaml:"default_duration_days" mapstructure:"default_duration_days"`
}

// AlertConfig holds schedule alert thresholds.
type AlertConfig struct {
	DueSoonDays int `yaml:"due_soon_days" mapstructure:"due_soon_days"`
	StaleDays   int `yaml:"stale_days" mapstructure:"stale_days"`
}

// ObservabilityConfig toggles the event log, metrics and alerts.
type ObservabilityConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// GlobalConfig holds system-wide settings read from .ganttconfig via Viper.
type GlobalConfig struct {
	Timeline      TimelineConfig      `yaml:"timeline" mapstructure:"timeline"`
	Tasks         TaskDefaults        `yaml:"tasks" mapstructure:"tasks"`
	Alerts        AlertConfig         `yaml:"alerts" mapstructure:"alerts"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}
