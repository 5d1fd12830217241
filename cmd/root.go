// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/console"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/report"
	"github.com/nibzard/todo-go/internal/script"
	"github.com/nibzard/todo-go/internal/store"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams bundles the standard streams so commands can be tested.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, std streams) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(std.err)
	fs.Usage = func() {
		printUsage(fs, std.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, std.out)
		return nil
	}
	if *showVersion {
		return versionCommand(std.out)
	}

	// With no subcommand the configured front end starts.
	subcommand := cfg.UI
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "menu", "tui", "run", "demo":
	case "config":
		return configCommand(cws, remainingArgs, std)
	case "schema":
		fmt.Fprint(std.out, script.Schema())
		return nil
	case "logs":
		return logsCommand(cfg, remainingArgs, std)
	case "version":
		return versionCommand(std.out)
	case "help":
		printUsage(fs, std.out)
		return nil
	default:
		fmt.Fprintf(std.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, std.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}

	logger, closeLog, err := setupLogger(cfg, std.err)
	if err != nil {
		return err
	}
	defer closeLog()

	svc := todo.New(store.New(), todo.WithLogger(logger))
	logger.Debug("starting", "command", subcommand, "config", cws.GetConfigFile())

	switch subcommand {
	case "menu":
		return menuCommand(ctx, cfg, svc, logger, remainingArgs, std)
	case "tui":
		return tuiCommand(ctx, cfg, svc, logger, remainingArgs)
	case "run":
		return runCommand(ctx, cfg, svc, remainingArgs, std)
	default:
		return demoCommand(ctx, cfg, svc, remainingArgs, std)
	}
}

// setupLogger logs to a per-session file when log_dir is set, else to w.
func setupLogger(cfg *config.Config, w io.Writer) (*log.Logger, func(), error) {
	if cfg.LogDir == "" {
		return logging.NewFromConfig(w, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller), func() {}, nil
	}

	session, err := logging.NewSession(cfg.LogDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session log: %w", err)
	}
	logger := logging.NewFromConfig(session.Writer(), cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	logger.Info("session started", "id", session.ID, "version", Version)
	return logger, func() {
		logger.Info("session finished", "id", session.ID)
		_ = session.Close()
	}, nil
}

// menuCommand runs the numbered text menu on the standard streams.
func menuCommand(ctx context.Context, cfg *config.Config, svc *todo.Service, logger *log.Logger, args []string, std streams) error {
	fs := flag.NewFlagSet("todo menu", flag.ContinueOnError)
	fs.SetOutput(std.err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	c := console.New(svc, std.in, std.out, console.Options{
		DescriptionWidth: cfg.DescriptionWidth,
		ConfirmDelete:    cfg.ConfirmDelete,
		Logger:           logger,
	})
	return c.Run(ctx)
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, svc *todo.Service, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("todo tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return ui.RunTUI(ctx, svc,
		ui.WithConfirmDelete(cfg.ConfirmDelete),
		ui.WithDescriptionWidth(cfg.DescriptionWidth),
		ui.WithLogger(logger),
	)
}

// reportFlags are shared by run and demo.
type reportFlags struct {
	path   string
	format string
}

func (r *reportFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&r.path, "report", "", "Write a report of the final task list to this file")
	fs.StringVar(&r.format, "format", "", "Report format (text|json|csv|pdf, default from file extension)")
}

// runCommand executes a script file.
func runCommand(ctx context.Context, cfg *config.Config, svc *todo.Service, args []string, std streams) error {
	fs := flag.NewFlagSet("todo run", flag.ContinueOnError)
	fs.SetOutput(std.err)
	var rf reportFlags
	rf.register(fs)

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("run requires exactly one script file")
	}

	s, err := script.Load(positional[0])
	if err != nil {
		return err
	}
	return executeScript(ctx, cfg, svc, s, rf, std)
}

// demoCommand runs the built-in demonstration script.
func demoCommand(ctx context.Context, cfg *config.Config, svc *todo.Service, args []string, std streams) error {
	fs := flag.NewFlagSet("todo demo", flag.ContinueOnError)
	fs.SetOutput(std.err)
	var rf reportFlags
	rf.register(fs)

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}

	s, err := script.Demo()
	if err != nil {
		return err
	}
	return executeScript(ctx, cfg, svc, s, rf, std)
}

func executeScript(ctx context.Context, cfg *config.Config, svc *todo.Service, s *script.Script, rf reportFlags, std streams) error {
	format := report.FormatFromPath(rf.path)
	if rf.format != "" {
		f, err := report.ParseFormat(rf.format)
		if err != nil {
			return err
		}
		format = f
	}

	result, err := script.Run(ctx, svc, s, std.out)
	if err != nil {
		return err
	}

	if rf.path != "" {
		doc := report.NewDocument(reportTitle(s), svc.List(), time.Now())
		doc.Run = &report.RunSummary{Name: s.Name, Steps: len(result.Steps), Failed: result.Failed}
		if err := report.WriteFile(rf.path, format, doc, report.Options{DescriptionWidth: cfg.DescriptionWidth}); err != nil {
			return err
		}
		fmt.Fprintf(std.out, "Report written to %s\n", rf.path)
	}

	if !result.OK() {
		return fmt.Errorf("%d of %d steps failed", result.Failed, len(result.Steps))
	}
	return nil
}

func reportTitle(s *script.Script) string {
	if s.Name == "" {
		return "Task Report"
	}
	return "Task Report: " + s.Name
}

// parseInterspersed allows flags before and after positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string, std streams) error {
	fs := flag.NewFlagSet("todo config", flag.ContinueOnError)
	fs.SetOutput(std.err)
	example := fs.Bool("example", false, "Print an example configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(std.out, config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Fprintln(std.out, "# No config files found; using defaults")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(std.out, "# Read: %s\n", f)
	}
	if err := toml.NewEncoder(std.out).Encode(cws.Config); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	fields := make([]string, 0, len(cws.Sources))
	for field := range cws.Sources {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	fmt.Fprintln(std.out)
	fmt.Fprintln(std.out, "# Sources:")
	for _, field := range fields {
		fmt.Fprintf(std.out, "#   %-18s %s\n", field, cws.Sources[field])
	}
	return nil
}

// logsCommand prints the latest session log.
func logsCommand(cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("todo logs", flag.ContinueOnError)
	fs.SetOutput(std.err)
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.LogDir == "" {
		fmt.Fprintln(std.out, "Session logs are disabled; set log_dir to enable them.")
		return nil
	}

	logPath, err := logging.FindLatestLog(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(std.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(std.out, "Log: %s\n\n", logPath)
	return logging.TailLog(std.out, logPath, *n)
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - An in-memory todo list manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu           Numbered text menu (default when ui = \"menu\")")
	fmt.Fprintln(w, "  tui            Full-screen terminal UI (default when ui = \"tui\")")
	fmt.Fprintln(w, "  run <script>   Run a YAML or JSON script of task operations")
	fmt.Fprintln(w, "  demo           Run the built-in demonstration script")
	fmt.Fprintln(w, "  schema         Print the JSON Schema for scripts")
	fmt.Fprintln(w, "  config         Show the effective configuration")
	fmt.Fprintln(w, "  logs           Show the latest session log")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w, "  help           Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run/Demo Options:")
	fmt.Fprintln(w, "  -report string")
	fmt.Fprintln(w, "        Write a report of the final task list to this file")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintf(w, "        Report format (%s, default from file extension)\n", formatList())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example configuration file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}

func formatList() string {
	formats := report.Formats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	return strings.Join(names, "|")
}
