package normalize

import (
	"fmt"

	"github.com/caseboard/ufdr/backend/pkg/evidence"

	"github.com/clbanning/mxj/v2"
)

var (
	xmlRootKeys = []string{"ufdr", "records", "export"}
	xmlRowKeys  = []string{"record", "records", "item", "items"}
)

func init() {
	// Merge attributes into the element map instead of prefixing them,
	// so attribute-carried fields resolve like any other key.
	mxj.PrependAttrWithHyphen(false)
}

// ParseXML locates a repeated record element under one of the plausible
// root names. When the expected shape is absent it falls back to a
// depth-first enumeration of every object-valued node in the parsed
// tree, keeping only candidates whose normalized output has at least
// one anchor field. Recall over precision: non-standard UFDR export
// shapes still yield records. Only unparsable XML fails.
func ParseXML(data []byte, sourceFile string) ([]evidence.Record, error) {
	tree, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML export: %w", err)
	}

	root := map[string]any(tree)
	for _, key := range xmlRootKeys {
		if m, ok := root[key].(map[string]any); ok {
			root = m
			break
		}
	}

	var rows []any
	for _, key := range xmlRowKeys {
		switch v := root[key].(type) {
		case []any:
			rows = v
		case map[string]any:
			rows = []any{v}
		default:
			continue
		}
		break
	}

	if len(rows) == 0 {
		return recordsFromTree(map[string]any(tree), sourceFile), nil
	}

	records := make([]evidence.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Normalize(asRawObject(row), sourceFile))
	}
	return records, nil
}

// recordsFromTree normalizes every object node of a parsed tree and
// keeps the anchored results.
func recordsFromTree(tree map[string]any, sourceFile string) []evidence.Record {
	records := make([]evidence.Record, 0)
	for _, candidate := range CollectObjects(tree) {
		record := Normalize(candidate, sourceFile)
		if record.HasAnchor() {
			records = append(records, record)
		}
	}
	return records
}
