package interpreter

import (
	"reflect"
	"testing"
)

func TestBuildRuleFilter(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     Filter
	}{
		{
			name:     "type keyword",
			question: "show me all calls",
			want:     Filter{Types: []string{"call"}},
		},
		{
			name:     "flag keyword",
			question: "any messages about bitcoin?",
			want:     Filter{Types: []string{"chat"}, Flags: []string{"CRYPTO"}},
		},
		{
			name:     "suspicious expands to any-of",
			question: "list suspicious activity",
			want:     Filter{AnyFlags: []string{"CRYPTO", "FOREIGN", "LONG_CALL", "LINK"}},
		},
		{
			name:     "phone entity",
			question: "who talked to +919812345678",
			want:     Filter{Entities: []string{"+919812345678"}},
		},
		{
			name:     "wildcard entity",
			question: "records involving +91XXXXX43210",
			want:     Filter{Entities: []string{"+91XXXXX43210"}},
		},
		{
			name:     "handle entity",
			question: "what did @cryptoking say",
			want:     Filter{Flags: []string{"CRYPTO"}, Entities: []string{"@cryptoking"}},
		},
		{
			name:     "strict pair",
			question: "calls from +919812345678 to +14155552671",
			want:     Filter{Types: []string{"call"}, From: "+919812345678", To: "+14155552671"},
		},
		{
			name:     "last week",
			question: "chats from last week",
			want:     Filter{Types: []string{"chat"}, LastDays: 7},
		},
		{
			name:     "last n days",
			question: "calls in the last 3 days",
			want:     Filter{Types: []string{"call"}, LastDays: 3},
		},
		{
			name:     "unrecognized question",
			question: "tell me everything",
			want:     Filter{Entities: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildRuleFilter(tt.question)
			if len(got.Entities) == 0 {
				got.Entities = nil
			}
			if len(tt.want.Entities) == 0 {
				tt.want.Entities = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildRuleFilter(%q) = %+v, want %+v", tt.question, got, tt.want)
			}
		})
	}
}

func TestSuppressUnmentionedFlags(t *testing.T) {
	t.Run("strict pair drops implicit flags", func(t *testing.T) {
		filter := Filter{
			From:     "+919812345678",
			To:       "+14155552671",
			AnyFlags: []string{"CRYPTO", "FOREIGN"},
		}
		SuppressUnmentionedFlags("calls from +919812345678 to +14155552671", &filter)
		if filter.AnyFlags != nil {
			t.Errorf("expected implicit flags suppressed, got %v", filter.AnyFlags)
		}
	})

	t.Run("mentioned flag survives", func(t *testing.T) {
		filter := Filter{
			From:  "+919812345678",
			To:    "+14155552671",
			Flags: []string{"CRYPTO"},
		}
		SuppressUnmentionedFlags("bitcoin chats from +919812345678 to +14155552671", &filter)
		if !reflect.DeepEqual(filter.Flags, []string{"CRYPTO"}) {
			t.Errorf("mentioned flag should survive, got %v", filter.Flags)
		}
	})

	t.Run("no pair leaves filter alone", func(t *testing.T) {
		filter := Filter{Flags: []string{"FOREIGN"}}
		SuppressUnmentionedFlags("anything", &filter)
		if !reflect.DeepEqual(filter.Flags, []string{"FOREIGN"}) {
			t.Errorf("non-pair filter changed: %v", filter.Flags)
		}
	})
}

func TestLocalAnswer(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := LocalAnswer(EvidenceSummary{}); got != "No records matched the question." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		sum := EvidenceSummary{
			Total:   7,
			ByType:  map[string]int{"call": 4, "chat": 3},
			ByFlag:  map[string]int{"FOREIGN": 2, "CRYPTO": 1},
			Flagged: 3,
		}
		want := "Found 7 matching records: 4 calls, 3 chats. 3 carry flags: CRYPTO (1), FOREIGN (2)."
		if got := LocalAnswer(sum); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("singular", func(t *testing.T) {
		sum := EvidenceSummary{Total: 1, ByType: map[string]int{"call": 1}}
		if got := LocalAnswer(sum); got != "Found 1 matching records: 1 call." {
			t.Errorf("got %q", got)
		}
	})
}

func TestCanonicalizeFilter(t *testing.T) {
	got := canonicalizeFilter(Filter{
		Types:    []string{"Call", "video", "CHAT"},
		Flags:    []string{"crypto", "bogus"},
		AnyFlags: []string{"foreign", "FOREIGN"},
		Entities: []string{" +919812345678 ", ""},
		LastDays: -2,
	})
	want := Filter{
		Types:    []string{"call", "chat"},
		Flags:    []string{"CRYPTO"},
		AnyFlags: []string{"FOREIGN"},
		Entities: []string{"+919812345678"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("canonicalizeFilter = %+v, want %+v", got, want)
	}
}

func TestUnmarshalFlexible(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"strict", `{"types":["call"],"lastDays":7}`},
		{"fenced", "```json\n{\"types\":[\"call\"],\"lastDays\":7}\n```"},
		{"double encoded", `"{\"types\":[\"call\"],\"lastDays\":7}"`},
		{"malformed", `{types: ["call"], lastDays: 7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var filter Filter
			if err := UnmarshalFlexible(tt.input, &filter); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(filter.Types) != 1 || filter.Types[0] != "call" || filter.LastDays != 7 {
				t.Errorf("parsed %+v", filter)
			}
		})
	}
}
