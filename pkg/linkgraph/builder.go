// Package linkgraph derives a deduplicated relationship graph from
// normalized evidence records and lays out a bounded view of it for
// rendering. Both stages recompute from scratch on every invocation
// and hold no cross-call state, so independent callers can run them
// concurrently.
package linkgraph

import (
	"sort"
	"strings"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
	"github.com/caseboard/ufdr/backend/pkg/normalize"
)

// PseudoNodePrefix marks synthetic nodes that stand in for a platform
// or application when no participant identity can be resolved.
const PseudoNodePrefix = "APP:"

// Node categories.
const (
	CategoryLocal   = "local"
	CategoryForeign = "foreign"
	CategoryApp     = "app"
)

const homeCountryPrefix = "+91"

// Node is one participant (or platform pseudo-node) in the link graph.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Connections int    `json:"connections"`
	Category    string `json:"category"`
	VisualSize  int    `json:"visualSize"`
}

// Edge is an aggregated, undirected relationship between two nodes.
// Weight counts contributing records; Flags is the union of their
// flag sets.
type Edge struct {
	Source string              `json:"source"`
	Target string              `json:"target"`
	Weight int                 `json:"weight"`
	Flags  []evidence.FlagKind `json:"flags"`
}

var (
	alternateFromKeys = []string{"name_or_number", "Name_or_Number", "Contact_or_Number"}
	alternateToKeys   = []string{"to", "To", "recipient"}
)

// Build aggregates chat and call records into a node set and a
// weighted, undirected edge set. Records without two distinct
// non-empty endpoints are dropped; a missing endpoint is replaced by
// an APP: pseudo-node when the other side resolved to a participant.
// Output order follows first appearance, so identical batches produce
// identical graphs.
func Build(records []evidence.Record) ([]Node, []Edge) {
	nodeIndex := make(map[string]*Node)
	nodeOrder := make([]string, 0)
	edgeIndex := make(map[string]*Edge)
	edgeOrder := make([]string, 0)

	for _, record := range records {
		if record.Type != evidence.TypeChat && record.Type != evidence.TypeCall {
			continue
		}

		meta := normalize.NewKeyResolver(record.Metadata)

		from := strings.TrimSpace(record.From)
		if from == "" {
			from = meta.ResolveString(alternateFromKeys...)
		}
		to := strings.TrimSpace(record.To)
		if to == "" {
			to = meta.ResolveString(alternateToKeys...)
		}

		platform := strings.TrimSpace(record.Source)
		if platform == "" {
			platform = normalize.ResolvePlatform(record.Metadata)
		}

		sourceNode := from
		if sourceNode == "" {
			sourceNode = PseudoNodePrefix + platform
		}
		targetNode := to
		if targetNode == "" && from != "" {
			targetNode = PseudoNodePrefix + platform
		}

		if sourceNode == "" || targetNode == "" || sourceNode == targetNode {
			continue
		}

		key := edgeKey(sourceNode, targetNode)
		edge, ok := edgeIndex[key]
		if !ok {
			edge = &Edge{Source: sourceNode, Target: targetNode}
			edgeIndex[key] = edge
			edgeOrder = append(edgeOrder, key)
		}
		edge.Weight++
		edge.Flags = unionFlags(edge.Flags, record.Flags)

		for _, id := range []string{sourceNode, targetNode} {
			node, ok := nodeIndex[id]
			if !ok {
				node = &Node{
					ID:       id,
					Label:    strings.TrimPrefix(id, PseudoNodePrefix),
					Category: categorize(id),
				}
				nodeIndex[id] = node
				nodeOrder = append(nodeOrder, id)
			}
			node.Connections++
		}
	}

	nodes := make([]Node, 0, len(nodeOrder))
	for _, id := range nodeOrder {
		node := *nodeIndex[id]
		node.VisualSize = clamp(node.Connections*2, 8, 42)
		nodes = append(nodes, node)
	}

	edges := make([]Edge, 0, len(edgeOrder))
	for _, key := range edgeOrder {
		edges = append(edges, *edgeIndex[key])
	}
	return nodes, edges
}

// edgeKey is direction-agnostic: both orientations of a pair map to
// the same aggregation bucket.
func edgeKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "::" + pair[1]
}

func categorize(id string) string {
	switch {
	case strings.HasPrefix(id, PseudoNodePrefix):
		return CategoryApp
	case strings.HasPrefix(id, "+") && !strings.HasPrefix(id, homeCountryPrefix):
		return CategoryForeign
	default:
		return CategoryLocal
	}
}

func unionFlags(existing, incoming []evidence.FlagKind) []evidence.FlagKind {
	for _, flag := range incoming {
		seen := false
		for _, have := range existing {
			if have == flag {
				seen = true
				break
			}
		}
		if !seen {
			existing = append(existing, flag)
		}
	}
	return existing
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
