// Package ui provides the full-screen terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/report"
	"github.com/nibzard/todo-go/internal/task"
	"github.com/nibzard/todo-go/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	confirmDelete    bool
	descriptionWidth int
	logger           *log.Logger
}

// WithConfirmDelete controls whether d asks for confirmation.
func WithConfirmDelete(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.confirmDelete = enabled
	}
}

// WithDescriptionWidth sets the truncation width of the description column.
func WithDescriptionWidth(width int) TUIOption {
	return func(c *tuiConfig) {
		if width >= report.MinDescriptionWidth {
			c.descriptionWidth = width
		}
	}
}

// WithLogger sets the logger for unexpected errors.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// RunTUI starts the TUI on the terminal.
func RunTUI(ctx context.Context, svc *todo.Service, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	return runProgram(ctx, NewModel(svc, opts...))
}

func runProgram(ctx context.Context, model *Model) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type inputMode int

const (
	modeList inputMode = iota
	modeAddTitle
	modeAddDescription
	modeEditTitle
	modeConfirmDelete
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model of the task list.
type Model struct {
	svc    *todo.Service
	cfg    tuiConfig
	tasks  []task.Task
	cursor int

	mode         inputMode
	input        string
	pendingTitle string

	message  string
	isError  bool
	showHelp bool
}

// NewModel creates a model over svc.
func NewModel(svc *todo.Service, opts ...TUIOption) *Model {
	cfg := tuiConfig{
		confirmDelete:    true,
		descriptionWidth: report.DefaultDescriptionWidth,
		logger:           logging.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &Model{svc: svc, cfg: cfg}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAddTitle, modeAddDescription, modeEditTitle:
		m.handleInput(key)
		return m, nil
	case modeConfirmDelete:
		m.handleConfirm(key)
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "?", "h":
		m.showHelp = !m.showHelp
	case "a":
		m.startInput(modeAddTitle, "")
	case "e":
		if t, ok := m.selected(); ok {
			m.startInput(modeEditTitle, t.Title)
		}
	case " ", "x":
		if t, ok := m.selected(); ok {
			updated, err := m.svc.Toggle(t.ID)
			m.notify(err, fmt.Sprintf("Task %d marked as %s", updated.ID, updated.Status))
		}
	case "d":
		if t, ok := m.selected(); ok {
			if m.cfg.confirmDelete {
				m.mode = modeConfirmDelete
				m.setMessage(fmt.Sprintf("Delete task %d %q? (y/n)", t.ID, t.Title), false)
			} else {
				m.deleteSelected()
			}
		}
	}
	return m, nil
}

func (m *Model) startInput(mode inputMode, initial string) {
	m.mode = mode
	m.input = initial
	m.message = ""
	m.isError = false
}

func (m *Model) handleInput(key tea.KeyMsg) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.input = ""
		m.pendingTitle = ""
		m.setMessage("Cancelled", false)
	case tea.KeyEnter:
		m.submitInput()
	case tea.KeyBackspace:
		if m.input != "" {
			_, size := utf8.DecodeLastRuneInString(m.input)
			m.input = m.input[:len(m.input)-size]
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
}

func (m *Model) submitInput() {
	value := m.input
	m.input = ""

	switch m.mode {
	case modeAddTitle:
		if _, err := m.svc.ValidateTitle(value); err != nil {
			m.notify(err, "")
			m.input = value
			return
		}
		m.pendingTitle = value
		m.mode = modeAddDescription
	case modeAddDescription:
		m.mode = modeList
		created, err := m.svc.Add(m.pendingTitle, value)
		m.pendingTitle = ""
		m.notify(err, fmt.Sprintf("Task created with ID: %d", created.ID))
		if err == nil {
			m.selectID(created.ID)
		}
	case modeEditTitle:
		m.mode = modeList
		t, ok := m.selected()
		if !ok {
			return
		}
		_, changed, err := m.svc.Update(t.ID, &value, nil)
		switch {
		case err != nil:
			m.notify(err, "")
		case !changed:
			m.setMessage("No changes made. Task remains unchanged", false)
		default:
			m.notify(nil, fmt.Sprintf("Task %d updated successfully", t.ID))
		}
	}
}

func (m *Model) handleConfirm(key tea.KeyMsg) {
	m.mode = modeList
	switch strings.ToLower(key.String()) {
	case "y":
		m.deleteSelected()
	default:
		m.setMessage("Deletion cancelled. Task remains", false)
	}
}

func (m *Model) deleteSelected() {
	t, ok := m.selected()
	if !ok {
		return
	}
	_, err := m.svc.Delete(t.ID)
	m.notify(err, fmt.Sprintf("Task %d deleted successfully", t.ID))
}

// notify refreshes the list and shows either err or the success message.
func (m *Model) notify(err error, success string) {
	m.refresh()
	switch {
	case err == nil:
		m.setMessage(success, false)
	case errors.Is(err, todo.ErrValidation), errors.Is(err, todo.ErrNotFound):
		m.setMessage("Error: "+err.Error(), true)
	default:
		m.cfg.logger.Error("tui action failed", "error", err)
		m.setMessage("Unexpected error: "+err.Error(), true)
	}
}

func (m *Model) setMessage(msg string, isError bool) {
	m.message = msg
	m.isError = isError
}

func (m *Model) refresh() {
	m.tasks = m.svc.List()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) selectID(id int) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	m.writeTasks(&b)
	m.writePrompt(&b)
	writeStats(&b, todo.ComputeStats(m.tasks))
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "Todo"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *Model) writeTasks(b *strings.Builder) {
	if len(m.tasks) == 0 {
		b.WriteString("  No tasks yet. Press a to add one.\n\n")
		return
	}
	for i, t := range m.tasks {
		line := formatTask(t, m.cfg.descriptionWidth)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render("> " + line)
		case t.IsComplete():
			line = doneStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func (m *Model) writePrompt(b *strings.Builder) {
	switch m.mode {
	case modeAddTitle:
		b.WriteString("Title: " + m.input + "_\n")
	case modeAddDescription:
		b.WriteString("Description (Enter to skip): " + m.input + "_\n")
	case modeEditTitle:
		b.WriteString("New title: " + m.input + "_\n")
	}
	if m.message != "" {
		if m.isError {
			b.WriteString(errorStyle.Render(m.message) + "\n")
		} else {
			b.WriteString(m.message + "\n")
		}
	}
	if m.mode != modeList || m.message != "" {
		b.WriteString("\n")
	}
}

func writeStats(b *strings.Builder, stats todo.Stats) {
	b.WriteString(fmt.Sprintf("Total: %d tasks | Completed: %d | Remaining: %d\n\n",
		stats.Total, stats.Completed, stats.Remaining))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  j, down      Move down\n")
	b.WriteString("  k, up        Move up\n")
	b.WriteString("  a            Add a task\n")
	b.WriteString("  e            Edit the selected title\n")
	b.WriteString("  space, x     Toggle complete/incomplete\n")
	b.WriteString("  d            Delete the selected task\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  esc          Cancel input\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(helpStyle.Render("Press ? for help | q to quit") + "\n")
}

func formatTask(t task.Task, descWidth int) string {
	line := fmt.Sprintf("[%d] %s %s", t.ID, t.Status.Symbol(), t.Title)
	if t.Description == "" {
		return line
	}
	return line + "  " + report.Truncate(t.Description, descWidth)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
