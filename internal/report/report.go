// Package report renders the task list as text, JSON, CSV or PDF.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/todo-go/internal/task"
	"github.com/nibzard/todo-go/internal/todo"
)

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatCSV, FormatPDF}
}

// ParseFormat normalizes a format name. "txt" is accepted for text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown report format %q, must be one of: text, json, csv, pdf", s)
}

// FormatFromPath picks a format from the file extension, defaulting to text.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatText
}

// RunSummary describes the script run a report was produced after.
type RunSummary struct {
	Name   string `json:"name,omitempty"`
	Steps  int    `json:"steps"`
	Failed int    `json:"failed"`
}

// Document is everything a report shows.
type Document struct {
	Title       string      `json:"title"`
	GeneratedAt time.Time   `json:"generated_at"`
	Stats       todo.Stats  `json:"stats"`
	Tasks       []task.Task `json:"tasks"`
	Run         *RunSummary `json:"run,omitempty"`
}

// NewDocument builds a document over tasks, deriving the statistics.
func NewDocument(title string, tasks []task.Task, now time.Time) Document {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return Document{
		Title:       title,
		GeneratedAt: now,
		Stats:       todo.ComputeStats(tasks),
		Tasks:       tasks,
	}
}

// Options tune rendering.
type Options struct {
	// DescriptionWidth truncates descriptions in the text and PDF tables.
	DescriptionWidth int
}

// Write renders doc in the given format.
func Write(w io.Writer, format Format, doc Document, opts Options) error {
	if opts.DescriptionWidth < MinDescriptionWidth {
		opts.DescriptionWidth = DefaultDescriptionWidth
	}
	switch format {
	case FormatText:
		return writeText(w, doc, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatCSV:
		return writeCSV(w, doc)
	case FormatPDF:
		return writePDF(w, doc, opts)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// WriteFile renders doc to path, creating or truncating the file.
func WriteFile(path string, format Format, doc Document, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()

	if err := Write(f, format, doc, opts); err != nil {
		return fmt.Errorf("write %s report: %w", format, err)
	}
	return nil
}

func writeText(w io.Writer, doc Document, opts Options) error {
	if doc.Title != "" {
		fmt.Fprintln(w, doc.Title)
		fmt.Fprintln(w, strings.Repeat("=", len(doc.Title)))
	}
	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "Generated: %s\n", doc.GeneratedAt.Format(time.RFC3339))
	}
	if doc.Run != nil {
		fmt.Fprintf(w, "Script: %s (%d steps, %d failed)\n", runName(doc.Run), doc.Run.Steps, doc.Run.Failed)
	}
	fmt.Fprintln(w)

	if len(doc.Tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks yet")
		return err
	}
	WriteTable(w, doc.Tasks, opts.DescriptionWidth)
	return nil
}

func writeCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "status", "title", "description", "created_at"}); err != nil {
		return err
	}
	for _, t := range doc.Tasks {
		record := []string{
			strconv.Itoa(t.ID),
			string(t.Status),
			t.Title,
			t.Description,
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func runName(r *RunSummary) string {
	if r.Name == "" {
		return "unnamed"
	}
	return r.Name
}
