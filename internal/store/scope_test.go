package store

import (
	"regexp"
	"testing"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		sourceFile string
		want       Scope
	}{
		{"all", "all", "", Scope{Kind: ScopeAll}},
		{"file", "file", "dump.xml", Scope{Kind: ScopeFile, SourceFile: "dump.xml"}},
		{"file without name falls back", "file", "  ", Scope{Kind: ScopeLatest}},
		{"latest", "latest", "", Scope{Kind: ScopeLatest}},
		{"default", "", "", Scope{Kind: ScopeLatest}},
		{"unknown", "everything", "", Scope{Kind: ScopeLatest}},
		{"case insensitive", "ALL", "", Scope{Kind: ScopeAll}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseScope(tt.kind, tt.sourceFile); got != tt.want {
				t.Errorf("ParseScope(%q, %q) = %+v, want %+v", tt.kind, tt.sourceFile, got, tt.want)
			}
		})
	}
}

func TestEntityPattern(t *testing.T) {
	tests := []struct {
		entity  string
		match   string
		noMatch string
	}{
		{"+919812345678", "+919812345678", "+919812345679"},
		{"+91XXXXX43210", "+919876543210", "+919876543299"},
		{"98765XXXXX", "9876543210", "987654321"},
	}

	for _, tt := range tests {
		t.Run(tt.entity, func(t *testing.T) {
			re, err := regexp.Compile("(?i)" + EntityPattern(tt.entity))
			if err != nil {
				t.Fatalf("pattern does not compile: %v", err)
			}
			if !re.MatchString(tt.match) {
				t.Errorf("%q should match %q", tt.entity, tt.match)
			}
			if re.MatchString(tt.noMatch) {
				t.Errorf("%q should not match %q", tt.entity, tt.noMatch)
			}
		})
	}
}
