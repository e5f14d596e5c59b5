package linkgraph

import (
	"math"
	"sort"
)

// Layout geometry. The canvas is sized for the investigation view;
// positions are plain coordinates, not percentages.
const (
	layoutCenterX    = 360.0
	layoutCenterY    = 280.0
	layoutBaseRadius = 120.0
	layoutRingStep   = 60.0
	ringCapacity     = 16
)

// Density bounds for the filtered edge set.
const (
	minVisibleEdges  = 24
	maxFallbackEdges = 140
)

// hubFloor is how many of the highest-degree nodes stay visible even
// when none of their edges survive the weight filter.
const hubFloor = 10

// PositionedNode is a visible node with its computed canvas position.
type PositionedNode struct {
	Node
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FilterAndLayout reduces a full graph to a renderable view and
// assigns radial positions. Nodes are capped at max(maxNodes, 20) by
// descending degree; edges below minWeight are dropped unless that
// would leave the view too sparse, in which case the heaviest edges
// are taken instead. The result is deterministic for a given input.
func FilterAndLayout(nodes []Node, edges []Edge, maxNodes, minWeight int) ([]PositionedNode, []Edge) {
	limit := maxNodes
	if limit < 20 {
		limit = 20
	}

	ranked := make([]Node, len(nodes))
	copy(ranked, nodes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Connections > ranked[j].Connections
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	visibleIDs := make(map[string]bool, len(ranked))
	for _, node := range ranked {
		visibleIDs[node.ID] = true
	}

	candidates := make([]Edge, 0, len(edges))
	for _, edge := range edges {
		if visibleIDs[edge.Source] && visibleIDs[edge.Target] {
			candidates = append(candidates, edge)
		}
	}

	visibleEdges := make([]Edge, 0, len(candidates))
	for _, edge := range candidates {
		if edge.Weight >= minWeight {
			visibleEdges = append(visibleEdges, edge)
		}
	}
	if len(visibleEdges) < minVisibleEdges {
		// Too sparse to read as a graph. Backfill with the heaviest
		// relationships regardless of the requested weight floor.
		heaviest := make([]Edge, len(candidates))
		copy(heaviest, candidates)
		sort.SliceStable(heaviest, func(i, j int) bool {
			return heaviest[i].Weight > heaviest[j].Weight
		})
		if len(heaviest) > maxFallbackEdges {
			heaviest = heaviest[:maxFallbackEdges]
		}
		visibleEdges = heaviest
	}

	connected := make(map[string]bool, len(visibleEdges)*2)
	for _, edge := range visibleEdges {
		connected[edge.Source] = true
		connected[edge.Target] = true
	}
	for i, node := range ranked {
		if i >= hubFloor {
			break
		}
		connected[node.ID] = true
	}

	visible := make([]Node, 0, len(connected))
	for _, node := range ranked {
		if connected[node.ID] {
			visible = append(visible, node)
		}
	}

	return layoutRadial(visible), visibleEdges
}

// layoutRadial places the highest-degree node at the canvas center and
// the rest on concentric rings of up to ringCapacity nodes, spread
// evenly over each ring's actual occupancy.
func layoutRadial(nodes []Node) []PositionedNode {
	positioned := make([]PositionedNode, 0, len(nodes))
	for i, node := range nodes {
		if i == 0 {
			positioned = append(positioned, PositionedNode{Node: node, X: layoutCenterX, Y: layoutCenterY})
			continue
		}

		ring := (i-1)/ringCapacity + 1
		indexInRing := (i - 1) % ringCapacity
		occupancy := len(nodes) - 1 - (ring-1)*ringCapacity
		if occupancy > ringCapacity {
			occupancy = ringCapacity
		}
		if occupancy < 1 {
			occupancy = 1
		}

		angle := float64(indexInRing) / float64(occupancy) * 2 * math.Pi
		radius := layoutBaseRadius + float64(ring)*layoutRingStep

		positioned = append(positioned, PositionedNode{
			Node: node,
			X:    layoutCenterX + math.Cos(angle)*radius,
			Y:    layoutCenterY + math.Sin(angle)*radius,
		})
	}
	return positioned
}
