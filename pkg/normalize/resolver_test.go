package normalize

import "testing"

func TestKeyResolverExactBeforeNormalized(t *testing.T) {
	raw := map[string]any{
		"Record_Type": "call",
		"recordtype":  "chat",
	}
	r := NewKeyResolver(raw)

	// "recordtype" is an exact key, so it wins over the normalized
	// match for the earlier candidate "Record_Type".
	got := r.ResolveString("record type", "recordtype")
	if got != "chat" {
		t.Fatalf("expected exact match to win, got %q", got)
	}
}

func TestKeyResolverExactPassBeatsEarlierNormalized(t *testing.T) {
	raw := map[string]any{
		"Message Content": "normalized only",
		"body":            "exact",
	}
	// "Message Content" only matches via normalization, so the later
	// exact candidate "body" must win the first pass.
	got := NewKeyResolver(raw).ResolveString("message_content", "body")
	if got != "exact" {
		t.Fatalf("expected exact pass to win, got %q", got)
	}
}

func TestKeyResolverNormalizedLookup(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		candidate string
		want      string
	}{
		{"underscores", map[string]any{"name_or_number": "+919812345678"}, "nameOrNumber", "+919812345678"},
		{"spaces", map[string]any{"Call Duration": "610"}, "callduration", "610"},
		{"hyphens", map[string]any{"from-number": "+14155552671"}, "fromnumber", "+14155552671"},
		{"mixed case", map[string]any{"TIMESTAMP": "2024-01-01"}, "timestamp", "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewKeyResolver(tt.raw).ResolveString(tt.candidate)
			if got != tt.want {
				t.Errorf("ResolveString(%q) = %q, want %q", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestKeyResolverNilValuesAndMisses(t *testing.T) {
	r := NewKeyResolver(map[string]any{"from": nil, "to": "+14155552671"})

	if _, ok := r.Resolve("from"); ok {
		t.Error("nil value should not resolve")
	}
	if _, ok := r.Resolve("missing"); ok {
		t.Error("absent key should not resolve")
	}
	if got := r.ResolveString("from", "to"); got != "+14155552671" {
		t.Errorf("expected fallthrough past nil candidate, got %q", got)
	}
}

func TestKeyResolverNilMap(t *testing.T) {
	r := NewKeyResolver(nil)
	if got := r.ResolveString("anything"); got != "" {
		t.Errorf("nil map should resolve to empty, got %q", got)
	}
}
