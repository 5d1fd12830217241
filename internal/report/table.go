package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nibzard/todo-go/internal/task"
	"github.com/nibzard/todo-go/internal/todo"
)

const (
	// DefaultDescriptionWidth is the description column width when none is configured.
	DefaultDescriptionWidth = 30
	// MinDescriptionWidth leaves room for one character and "...".
	MinDescriptionWidth = 4

	ruleWidth  = 70
	titleWidth = 25
)

// WriteTable prints tasks as the fixed-width listing followed by a summary line.
func WriteTable(w io.Writer, tasks []task.Task, descWidth int) {
	if descWidth < MinDescriptionWidth {
		descWidth = DefaultDescriptionWidth
	}
	rule := strings.Repeat("-", ruleWidth)

	fmt.Fprintf(w, "%-4s %-8s %-*s %-*s\n", "ID", "Status", titleWidth, "Title", descWidth, "Description")
	fmt.Fprintln(w, rule)
	for _, t := range tasks {
		fmt.Fprintf(w, "%-4d %-8s %-*s %-*s\n", t.ID, t.Status.Symbol(), titleWidth, t.Title, descWidth, Truncate(describe(t), descWidth))
	}
	fmt.Fprintln(w, rule)

	stats := todo.ComputeStats(tasks)
	fmt.Fprintf(w, "Total: %d tasks | Completed: %d | Remaining: %d\n\n", stats.Total, stats.Completed, stats.Remaining)
}

func describe(t task.Task) string {
	if t.Description == "" {
		return "(no description)"
	}
	return t.Description
}

// Truncate shortens s to width characters, ending in "..." when cut.
func Truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}
