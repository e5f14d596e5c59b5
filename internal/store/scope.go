package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ScopeKind selects which slice of the evidence table a read
// operation sees.
type ScopeKind string

const (
	// ScopeAll reads every ingested record.
	ScopeAll ScopeKind = "all"
	// ScopeFile reads one named source file.
	ScopeFile ScopeKind = "file"
	// ScopeLatest reads the most recently ingested source file.
	ScopeLatest ScopeKind = "latest"
)

// Scope is an explicit read-scope request. It is carried as a value
// through every read path and resolved exactly once; nothing consults
// ambient upload state.
type Scope struct {
	Kind       ScopeKind `json:"kind"`
	SourceFile string    `json:"sourceFile,omitempty"`
}

// ParseScope maps request parameters to a scope. Unknown kinds and a
// file scope without a file name fall back to latest, which is also
// the default.
func ParseScope(kind, sourceFile string) Scope {
	switch ScopeKind(strings.ToLower(strings.TrimSpace(kind))) {
	case ScopeAll:
		return Scope{Kind: ScopeAll}
	case ScopeFile:
		if name := strings.TrimSpace(sourceFile); name != "" {
			return Scope{Kind: ScopeFile, SourceFile: name}
		}
	}
	return Scope{Kind: ScopeLatest}
}

// ResolveScope turns a scope into a concrete sourceFile filter, empty
// meaning unrestricted. A latest scope over an empty store resolves to
// unrestricted rather than failing.
func ResolveScope(ctx context.Context, s EvidenceStore, scope Scope) (string, error) {
	switch scope.Kind {
	case ScopeAll:
		return "", nil
	case ScopeFile:
		return scope.SourceFile, nil
	default:
		latest, err := s.LatestReadySourceFile(ctx)
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return latest.Name, nil
	}
}

// EntityPattern compiles an entity string into a POSIX-compatible
// regular expression source, treating X (either case) as a single
// digit wildcard. "+91XXXXX43210" matches any number sharing the fixed
// digits.
func EntityPattern(entity string) string {
	quoted := regexp.QuoteMeta(strings.TrimSpace(entity))
	quoted = strings.ReplaceAll(quoted, "X", `\d`)
	return strings.ReplaceAll(quoted, "x", `\d`)
}
