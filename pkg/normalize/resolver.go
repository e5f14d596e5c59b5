package normalize

import "strings"

// KeyResolver performs case and punctuation insensitive field lookups
// over a raw key-value object. Forensic exports name semantically
// identical fields inconsistently (Record_Type, recordType,
// "record type"), so a resolver is built once per raw object with a
// normalized index of its keys and queried with ordered candidate
// lists.
type KeyResolver struct {
	raw        map[string]any
	normalized map[string]any
}

// NewKeyResolver builds a resolver for raw. A nil map behaves as an
// empty object; lookups never panic.
func NewKeyResolver(raw map[string]any) *KeyResolver {
	normalized := make(map[string]any, len(raw))
	for k, v := range raw {
		nk := normalizeKey(k)
		if _, exists := normalized[nk]; !exists {
			normalized[nk] = v
		}
	}
	return &KeyResolver{raw: raw, normalized: normalized}
}

// Resolve returns the first defined value for the candidates, trying
// every candidate exactly first, then every candidate against the
// normalized-key index. The second return value is false when no
// candidate matches.
func (r *KeyResolver) Resolve(candidates ...string) (any, bool) {
	for _, key := range candidates {
		if v, ok := r.raw[key]; ok && v != nil {
			return v, true
		}
	}
	for _, key := range candidates {
		if v, ok := r.normalized[normalizeKey(key)]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ResolveString resolves candidates and coerces the result to a
// trimmed scalar string, empty if absent.
func (r *KeyResolver) ResolveString(candidates ...string) string {
	v, ok := r.Resolve(candidates...)
	if !ok {
		return ""
	}
	return coerceString(v)
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case ' ', '\t', '_', '-':
			continue
		}
		b.WriteByte(key[i])
	}
	return b.String()
}
