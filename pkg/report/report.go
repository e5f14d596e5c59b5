// Package report renders scoped evidence sets into investigator
// deliverables, PDF via go-pdf/fpdf and CSV via the standard library.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caseboard/ufdr/backend/pkg/evidence"

	"github.com/go-pdf/fpdf"
)

// pdfRecordLimit bounds the record table so a large export still
// yields a readable document. The CSV carries the full set.
const pdfRecordLimit = 60

// Params describes one report request.
type Params struct {
	Title       string
	Question    string
	Answer      string
	Scope       string
	GeneratedAt time.Time
	Records     []evidence.Record
}

// RenderPDF produces an A4 report: header, question and answer, flag
// summary, then a bounded record table.
func RenderPDF(params Params) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	title := params.Title
	if title == "" {
		title = "Evidence Report"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", params.GeneratedAt.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	if params.Scope != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Scope: %s", params.Scope), "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if params.Question != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, "Question", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, params.Question, "", "L", false)
		pdf.Ln(2)
	}

	if params.Answer != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, "Answer", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, params.Answer, "", "L", false)
		pdf.Ln(2)
	}

	writeFlagSummary(pdf, params.Records)
	writeRecordTable(pdf, params.Records)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFlagSummary(pdf *fpdf.Fpdf, records []evidence.Record) {
	counts := make(map[evidence.FlagKind]int)
	flagged := 0
	for _, record := range records {
		if len(record.Flags) > 0 {
			flagged++
		}
		for _, flag := range record.Flags {
			counts[flag]++
		}
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Flag Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("%d of %d records carry at least one flag.", flagged, len(records)), "", 1, "L", false, 0, "")

	flags := make([]string, 0, len(counts))
	for flag := range counts {
		flags = append(flags, string(flag))
	}
	sort.Strings(flags)
	for _, flag := range flags {
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %d", flag, counts[evidence.FlagKind(flag)]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func writeRecordTable(pdf *fpdf.Fpdf, records []evidence.Record) {
	pdf.SetFont("Helvetica", "B", 11)
	heading := fmt.Sprintf("Records (%d)", len(records))
	if len(records) > pdfRecordLimit {
		heading = fmt.Sprintf("Records (first %d of %d)", pdfRecordLimit, len(records))
		records = records[:pdfRecordLimit]
	}
	pdf.CellFormat(0, 6, heading, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(16, 6, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(34, 6, "From", "1", 0, "L", true, 0, "")
	pdf.CellFormat(34, 6, "To", "1", 0, "L", true, 0, "")
	pdf.CellFormat(32, 6, "Timestamp", "1", 0, "L", true, 0, "")
	pdf.CellFormat(48, 6, "Content", "1", 0, "L", true, 0, "")
	pdf.CellFormat(26, 6, "Flags", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, record := range records {
		pdf.CellFormat(16, 6, string(record.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(34, 6, truncate(record.From, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(34, 6, truncate(record.To, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(32, 6, truncate(record.Timestamp, 19), "1", 0, "L", false, 0, "")
		pdf.CellFormat(48, 6, truncate(record.Content, 32), "1", 0, "L", false, 0, "")
		pdf.CellFormat(26, 6, truncate(joinFlags(record.Flags), 18), "1", 1, "L", false, 0, "")
	}
}

// RenderCSV writes the full record set with one row per record.
func RenderCSV(records []evidence.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"type", "from", "to", "timestamp", "content", "country", "durationSeconds", "source", "sourceFile", "flags"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		row := []string{
			string(record.Type),
			record.From,
			record.To,
			record.Timestamp,
			record.Content,
			record.Country,
			strconv.FormatFloat(record.DurationSeconds, 'f', -1, 64),
			record.Source,
			record.SourceFile,
			joinFlags(record.Flags),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a requested report name to a safe
// attachment filename, never empty.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "report"
	}
	return name
}

func joinFlags(flags []evidence.FlagKind) string {
	parts := make([]string, 0, len(flags))
	for _, flag := range flags {
		parts = append(parts, string(flag))
	}
	return strings.Join(parts, "|")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
