package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"

	"todo-list/internal/domain"
	"todo-list/internal/errors"
)

// Format is an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", errors.NewInvalidInputError("format", s, "unsupported format, use csv, json or pdf")
	}
}

// Exporter writes a task collection in one of the supported formats
type Exporter struct {
	now func() time.Time
}

// NewExporter creates an exporter using the wall clock for ages
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Export writes tasks to w in the given format
func (e *Exporter) Export(w io.Writer, tasks []domain.Task, format Format) error {
	switch format {
	case FormatCSV:
		return e.writeCSV(w, tasks)
	case FormatJSON:
		return e.writeJSON(w, tasks)
	case FormatPDF:
		return e.writePDF(w, tasks)
	default:
		return errors.NewInvalidInputError("format", string(format), "unsupported format, use csv, json or pdf")
	}
}

func (e *Exporter) writeCSV(w io.Writer, tasks []domain.Task) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"ID", "Date", "Task", "Status"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.CreatedAt,
			t.Name,
			t.Status.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeJSON emits the persisted record shape so exports can be re-imported
func (e *Exporter) writeJSON(w io.Writer, tasks []domain.Task) error {
	records := domain.NewTaskMapper().ToRecordSlice(tasks)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func (e *Exporter) writePDF(w io.Writer, tasks []domain.Task) error {
	now := e.now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(12)

	widths := []float64{45, 85, 25, 35}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range []string{"Date", "Task", "Status", "Age"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		cells := []string{
			t.CreatedAt,
			t.Name,
			t.Status.String(),
			humanize.RelTime(t.Created(), now, "ago", "from now"),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("%s tasks", humanize.Comma(int64(len(tasks)))))

	return pdf.Output(w)
}
