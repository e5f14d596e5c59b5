package linkgraph

import (
	"reflect"
	"testing"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

func chat(from, to string) evidence.Record {
	return evidence.Record{Type: evidence.TypeChat, From: from, To: to, Source: "WhatsApp"}
}

func TestBuildAggregatesUndirected(t *testing.T) {
	records := []evidence.Record{
		chat("A", "B"),
		chat("B", "A"),
		{Type: evidence.TypeCall, From: "A", To: "C", Source: "Phone"},
	}

	nodes, edges := Build(records)

	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	ab := findEdge(t, edges, "A", "B")
	if ab.Weight != 2 {
		t.Errorf("A-B weight = %d, want 2 (both directions aggregate)", ab.Weight)
	}
	ac := findEdge(t, edges, "A", "C")
	if ac.Weight != 1 {
		t.Errorf("A-C weight = %d, want 1", ac.Weight)
	}

	a := findNode(t, nodes, "A")
	if a.Connections != 3 {
		t.Errorf("A connections = %d, want 3", a.Connections)
	}
	b := findNode(t, nodes, "B")
	if b.Connections != 2 {
		t.Errorf("B connections = %d, want 2", b.Connections)
	}
	c := findNode(t, nodes, "C")
	if c.Connections != 1 {
		t.Errorf("C connections = %d, want 1", c.Connections)
	}
}

func TestBuildSkipsNonCommunication(t *testing.T) {
	records := []evidence.Record{
		{Type: evidence.TypeContact, From: "A", To: "B"},
		chat("", ""),
		chat("A", "A"),
	}
	nodes, edges := Build(records)
	if len(nodes) != 0 || len(edges) != 0 {
		t.Fatalf("expected empty graph, got %d nodes, %d edges", len(nodes), len(edges))
	}
}

func TestBuildPlatformPseudoNode(t *testing.T) {
	records := []evidence.Record{
		{Type: evidence.TypeChat, From: "+919812345678", Source: "Telegram"},
	}
	nodes, edges := Build(records)

	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	app := findNode(t, nodes, "APP:Telegram")
	if app.Category != CategoryApp {
		t.Errorf("category = %q, want %q", app.Category, CategoryApp)
	}
	if app.Label != "Telegram" {
		t.Errorf("label = %q, want bare platform name", app.Label)
	}
}

func TestBuildMetadataFallbacks(t *testing.T) {
	records := []evidence.Record{
		{
			Type:     evidence.TypeChat,
			Source:   "Signal",
			Metadata: map[string]any{"name_or_number": "+14155552671", "recipient": "+919812345678"},
		},
	}
	_, edges := Build(records)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	findEdge(t, edges, "+14155552671", "+919812345678")
}

func TestBuildCategories(t *testing.T) {
	records := []evidence.Record{
		chat("+919812345678", "+14155552671"),
		chat("alice", "+919812345678"),
	}
	nodes, _ := Build(records)

	tests := []struct {
		id   string
		want string
	}{
		{"+919812345678", CategoryLocal},
		{"+14155552671", CategoryForeign},
		{"alice", CategoryLocal},
	}
	for _, tt := range tests {
		if got := findNode(t, nodes, tt.id).Category; got != tt.want {
			t.Errorf("category(%s) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestBuildVisualSizeClamped(t *testing.T) {
	records := make([]evidence.Record, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, chat("hub", peerName(i)))
	}
	nodes, _ := Build(records)

	hub := findNode(t, nodes, "hub")
	if hub.VisualSize != 42 {
		t.Errorf("hub visualSize = %d, want clamp ceiling 42", hub.VisualSize)
	}
	peer := findNode(t, nodes, peerName(0))
	if peer.VisualSize != 8 {
		t.Errorf("peer visualSize = %d, want clamp floor 8", peer.VisualSize)
	}
}

func TestBuildEdgeFlagUnion(t *testing.T) {
	records := []evidence.Record{
		{Type: evidence.TypeChat, From: "A", To: "B", Flags: []evidence.FlagKind{evidence.FlagCrypto}},
		{Type: evidence.TypeChat, From: "B", To: "A", Flags: []evidence.FlagKind{evidence.FlagCrypto, evidence.FlagLink}},
	}
	_, edges := Build(records)
	ab := findEdge(t, edges, "A", "B")
	want := []evidence.FlagKind{evidence.FlagCrypto, evidence.FlagLink}
	if !reflect.DeepEqual(ab.Flags, want) {
		t.Errorf("edge flags = %v, want union %v", ab.Flags, want)
	}
}

func TestBuildDeterministicOrder(t *testing.T) {
	records := []evidence.Record{
		chat("C", "D"),
		chat("A", "B"),
		chat("C", "A"),
	}
	firstNodes, firstEdges := Build(records)
	for i := 0; i < 5; i++ {
		nodes, edges := Build(records)
		if !reflect.DeepEqual(nodes, firstNodes) || !reflect.DeepEqual(edges, firstEdges) {
			t.Fatalf("run %d produced a different graph", i)
		}
	}
	if firstNodes[0].ID != "C" || firstNodes[1].ID != "D" {
		t.Errorf("nodes should appear in first-seen order, got %s, %s", firstNodes[0].ID, firstNodes[1].ID)
	}
}

func peerName(i int) string {
	return string(rune('a'+i%26)) + "peer"
}

func findNode(t *testing.T, nodes []Node, id string) Node {
	t.Helper()
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %q not found", id)
	return Node{}
}

func findEdge(t *testing.T, edges []Edge, a, b string) Edge {
	t.Helper()
	for _, e := range edges {
		if (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a) {
			return e
		}
	}
	t.Fatalf("edge %q-%q not found", a, b)
	return Edge{}
}
