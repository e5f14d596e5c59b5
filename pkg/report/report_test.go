package report

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

func sampleRecords() []evidence.Record {
	return []evidence.Record{
		{
			Type:      evidence.TypeCall,
			From:      "+919812345678",
			To:        "+14155552671",
			Timestamp: "2024-03-01T10:00:00Z",
			Flags:     []evidence.FlagKind{evidence.FlagForeign, evidence.FlagLongCall},
			Source:    "Phone",
		},
		{
			Type:    evidence.TypeChat,
			From:    "+919812345678",
			Content: "payment, comma included",
			Source:  "WhatsApp",
		},
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(Params{
		Title:       "Case 42",
		Question:    "who called abroad?",
		Answer:      "One foreign long call was found.",
		Scope:       "dump.xml",
		GeneratedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		Records:     sampleRecords(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Errorf("output does not look like a PDF")
	}
}

func TestRenderCSV(t *testing.T) {
	data, err := RenderCSV(sampleRecords())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][9] != "FOREIGN|LONG_CALL" {
		t.Errorf("flags column = %q", rows[1][9])
	}
	if rows[2][4] != "payment, comma included" {
		t.Errorf("content with comma mangled: %q", rows[2][4])
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"case 42 report", "case_42_report"},
		{"../../etc/passwd", "etc_passwd"},
		{"", "report"},
		{"___", "report"},
		{"fine-name.pdf", "fine-name.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
