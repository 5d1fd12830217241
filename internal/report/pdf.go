package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nibzard/todo-go/internal/task"
)

// Column widths in mm on an A4 portrait page (190mm usable).
var pdfColumns = []struct {
	header string
	width  float64
}{
	{"ID", 14},
	{"Status", 26},
	{"Title", 70},
	{"Description", 80},
}

func writePDF(w io.Writer, doc Document, opts Options) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented titles survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := doc.Title
	if title == "" {
		title = "Task Report"
	}
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr(title))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	if !doc.GeneratedAt.IsZero() {
		pdf.Cell(0, 6, "Generated: "+doc.GeneratedAt.Format(time.RFC3339))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Total: %d tasks | Completed: %d | Remaining: %d",
		doc.Stats.Total, doc.Stats.Completed, doc.Stats.Remaining))
	pdf.Ln(6)
	if doc.Run != nil {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Script: %s (%d steps, %d failed)", runName(doc.Run), doc.Run.Steps, doc.Run.Failed)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if len(doc.Tasks) == 0 {
		pdf.Cell(0, 6, "No tasks yet")
		return pdf.Output(w)
	}

	pdf.SetFont("Arial", "B", 10)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, t := range doc.Tasks {
		cells := []string{
			strconv.Itoa(t.ID),
			statusLabel(t.Status),
			Truncate(t.Title, 40),
			Truncate(describe(t), opts.DescriptionWidth),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, tr(cells[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// statusLabel avoids the check mark glyphs, which core fonts lack.
func statusLabel(s task.Status) string {
	if s == task.StatusComplete {
		return "done"
	}
	return "open"
}
