package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

// jsonRowKeys are the container keys tried, in order, when a JSON
// export wraps its rows in an object instead of a bare array.
var jsonRowKeys = []string{"records", "evidence", "items"}

// ParseJSON accepts either a bare array of rows or an object exposing
// the rows under one of the known container keys.
func ParseJSON(data []byte, sourceFile string) ([]evidence.Record, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON export: %w", err)
	}

	var rows []any
	switch v := parsed.(type) {
	case []any:
		rows = v
	case map[string]any:
		for _, key := range jsonRowKeys {
			if list, ok := v[key].([]any); ok {
				rows = list
				break
			}
		}
	}

	records := make([]evidence.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Normalize(asRawObject(row), sourceFile))
	}
	return records, nil
}
