package config

import (
	"flag"
)

// flagFields maps CLI flag names to config field names.
var flagFields = map[string]string{
	"ui":                "ui",
	"description-width": "description_width",
	"confirm-delete":    "confirm_delete",
	"log-level":         "log_level",
	"log-format":        "log_format",
	"log-timestamps":    "log_timestamps",
	"log-caller":        "log_caller",
	"log-dir":           "log_dir",
}

// parseFlags defines global flags bound to cfg and parses args.
// If sources is non-nil, explicitly set flags are recorded.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}

	// Front end
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "Front end (menu, tui)")
	fs.IntVar(&cfg.DescriptionWidth, "description-width", cfg.DescriptionWidth, "Description column width in listings")
	fs.BoolVar(&cfg.ConfirmDelete, "confirm-delete", cfg.ConfirmDelete, "Ask for confirmation before deleting")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Write session logs to this directory instead of stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
