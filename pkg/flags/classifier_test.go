package flags

import (
	"reflect"
	"testing"

	"github.com/caseboard/ufdr/backend/pkg/evidence"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		record evidence.Record
		want   []evidence.FlagKind
	}{
		{
			name:   "btc address in content",
			record: evidence.Record{Type: evidence.TypeChat, Content: "send to bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"},
			want:   []evidence.FlagKind{evidence.FlagCrypto},
		},
		{
			name:   "crypto keyword",
			record: evidence.Record{Type: evidence.TypeChat, Content: "move it to my Wallet tonight"},
			want:   []evidence.FlagKind{evidence.FlagCrypto},
		},
		{
			name:   "eth address in metadata only",
			record: evidence.Record{Type: evidence.TypeChat, Content: "check this", Metadata: map[string]any{"note": "pay 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"}},
			want:   []evidence.FlagKind{evidence.FlagCrypto},
		},
		{
			name:   "foreign sender",
			record: evidence.Record{Type: evidence.TypeCall, From: "+14155552671", To: "+919812345678"},
			want:   []evidence.FlagKind{evidence.FlagForeign},
		},
		{
			name:   "home country both sides",
			record: evidence.Record{Type: evidence.TypeCall, From: "+919812345678", To: "+919900112233"},
			want:   []evidence.FlagKind{},
		},
		{
			name:   "no prefix is not foreign",
			record: evidence.Record{Type: evidence.TypeChat, From: "alice", To: "bob"},
			want:   []evidence.FlagKind{},
		},
		{
			name:   "url in content",
			record: evidence.Record{Type: evidence.TypeChat, Content: "open HTTPS://example.com/invite now"},
			want:   []evidence.FlagKind{evidence.FlagLink},
		},
		{
			name:   "long call at threshold",
			record: evidence.Record{Type: evidence.TypeCall, DurationSeconds: 610},
			want:   []evidence.FlagKind{evidence.FlagLongCall},
		},
		{
			name:   "short call",
			record: evidence.Record{Type: evidence.TypeCall, DurationSeconds: 599},
			want:   []evidence.FlagKind{},
		},
		{
			name:   "long chat is not a long call",
			record: evidence.Record{Type: evidence.TypeChat, DurationSeconds: 900},
			want:   []evidence.FlagKind{},
		},
		{
			name:   "phone number in text",
			record: evidence.Record{Type: evidence.TypeChat, Content: "reach me on 98765 43210 after dark"},
			want:   []evidence.FlagKind{evidence.FlagPhoneInText},
		},
		{
			name: "multiple flags",
			record: evidence.Record{
				Type:            evidence.TypeCall,
				From:            "+14155552671",
				Content:         "bitcoin drop at https://example.com, call +91-98765-43210",
				DurationSeconds: 1200,
			},
			want: []evidence.FlagKind{
				evidence.FlagCrypto,
				evidence.FlagForeign,
				evidence.FlagLink,
				evidence.FlagLongCall,
				evidence.FlagPhoneInText,
			},
		},
		{
			name:   "clean record",
			record: evidence.Record{Type: evidence.TypeChat, From: "+919812345678", Content: "see you at the market"},
			want:   []evidence.FlagKind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.record)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	record := evidence.Record{
		Type:            evidence.TypeCall,
		From:            "+14155552671",
		Content:         "usdt transfer via https://pay.example",
		DurationSeconds: 700,
		Metadata:        map[string]any{"b": "zzz", "a": float64(3), "nested": map[string]any{"k": "v"}},
	}

	first := Classify(record)
	for i := 0; i < 5; i++ {
		if got := Classify(record); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %v vs %v", i, got, first)
		}
	}
}

func TestClassifierForHomePrefix(t *testing.T) {
	classify := ClassifierFor("+1")

	us := evidence.Record{Type: evidence.TypeChat, From: "+14155552671"}
	if got := classify(us); len(got) != 0 {
		t.Errorf("+1 should be home under a +1 classifier, got %v", got)
	}

	in := evidence.Record{Type: evidence.TypeChat, From: "+919812345678"}
	if got := classify(in); !reflect.DeepEqual(got, []evidence.FlagKind{evidence.FlagForeign}) {
		t.Errorf("+91 should be foreign under a +1 classifier, got %v", got)
	}
}
