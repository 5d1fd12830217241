// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/report"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// UI modes.
const (
	UIMenu = "menu"
	UITUI  = "tui"
)

// Default values.
const (
	DefaultUI               = UIMenu
	DefaultDescriptionWidth = report.DefaultDescriptionWidth
	DefaultConfirmDelete    = true
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Config holds the full configuration for todo.
type Config struct {
	// Front end
	UI               string `toml:"ui"`
	DescriptionWidth int    `toml:"description_width"`
	ConfirmDelete    bool   `toml:"confirm_delete"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	// LogDir enables per-session log files; empty logs to stderr.
	LogDir string `toml:"log_dir"`
}

// Validate checks enumerated settings and numeric bounds.
func (c *Config) Validate() error {
	switch c.UI {
	case UIMenu, UITUI:
	default:
		return fmt.Errorf("invalid ui %q, must be one of: menu, tui", c.UI)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error, fatal", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q, must be one of: text, json, logfmt", c.LogFormat)
	}
	if c.DescriptionWidth < report.MinDescriptionWidth {
		return fmt.Errorf("description_width must be at least %d, got %d", report.MinDescriptionWidth, c.DescriptionWidth)
	}
	return nil
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
