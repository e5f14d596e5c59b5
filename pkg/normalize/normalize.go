// Package normalize turns heterogeneous forensic-extraction exports
// (JSON, XML, CSV, no fixed schema) into canonical evidence records.
//
// The format adapters are thin: each one only produces raw key-value
// rows in file order and hands them to Normalize. Feeding semantically
// equivalent rows through any adapter yields the same canonical record,
// modulo the adapter-specific metadata payload.
package normalize

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

// ErrUnsupportedFormat is returned for export files that are neither
// XML, CSV, nor JSON. This is the one fatal input error at the
// ingestion boundary; everything else is best-effort extraction.
var ErrUnsupportedFormat = errors.New("unsupported file type, use XML, CSV, or JSON")

// ParseExport parses one export file into canonical records. Content
// that looks like XML is parsed as XML regardless of extension, with
// the recursive element-discovery fallback for non-standard shapes;
// otherwise the file extension decides the adapter.
func ParseExport(fileName string, data []byte) ([]evidence.Record, error) {
	sourceFile := filepath.Base(fileName)

	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<") {
		return ParseXML(data, sourceFile)
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".json":
		return ParseJSON(data, sourceFile)
	case ".xml":
		return ParseXML(data, sourceFile)
	case ".csv":
		return ParseCSV(data, sourceFile)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, sourceFile)
	}
}

// asRawObject coerces one parsed row into the raw object shape the
// normalizer consumes. Rows that are not objects behave as empty ones;
// the permissive normalizer then emits a default record that the
// anchor filter discards downstream.
func asRawObject(row any) map[string]any {
	if m, ok := row.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
