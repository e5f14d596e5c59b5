package normalize

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

// ParseCSV reads a header row plus data rows, one raw object per row,
// in file order. Short rows leave the remaining columns absent rather
// than failing; the normalizer treats absence as empty anyway.
func ParseCSV(data []byte, sourceFile string) ([]evidence.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []evidence.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV export: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records := make([]evidence.Record, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV export: %w", err)
		}

		raw := make(map[string]any, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			raw[name] = row[i]
		}
		records = append(records, Normalize(raw, sourceFile))
	}
	return records, nil
}
