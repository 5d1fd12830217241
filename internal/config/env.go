package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envPrefix is prepended to every environment variable name.
const envPrefix = "TODO_"

// loadFromEnv overrides config from TODO_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	lookup := func(field string) (string, bool) {
		v := os.Getenv(envPrefix + strings.ToUpper(field))
		return v, v != ""
	}

	if v, ok := lookup("ui"); ok {
		cfg.UI = v
		set("ui")
	}
	if v, ok := lookup("description_width"); ok {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sDESCRIPTION_WIDTH: %w", envPrefix, err)
		}
		cfg.DescriptionWidth = i
		set("description_width")
	}
	if v, ok := lookup("confirm_delete"); ok {
		cfg.ConfirmDelete = boolFromString(v)
		set("confirm_delete")
	}

	// Logging configuration
	if v, ok := lookup("log_level"); ok {
		cfg.LogLevel = v
		set("log_level")
	}
	if v, ok := lookup("log_format"); ok {
		cfg.LogFormat = v
		set("log_format")
	}
	if v, ok := lookup("log_timestamps"); ok {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v, ok := lookup("log_caller"); ok {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
	if v, ok := lookup("log_dir"); ok {
		cfg.LogDir = v
		set("log_dir")
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
