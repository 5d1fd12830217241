package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by TODO_* environment variables or CLI flags

# Front end: "menu" (numbered text menu) or "tui" (full-screen terminal UI)
ui = "menu"

# Width of the description column in task listings (minimum 4)
description_width = 30

# Ask for y/n confirmation before deleting a task
confirm_delete = true

# Logging
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false

# Write one log file per session to this directory instead of stderr
# (supports ~ and $VAR expansion)
# log_dir = "~/.todo/logs"
`
}
