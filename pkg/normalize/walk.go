package normalize

import "sort"

// CollectObjects enumerates every object-valued node of a generic
// parsed tree (maps, arrays, scalars) in depth-first order, child maps
// visited in sorted key order so the enumeration is deterministic.
// Trees from parsed XML or JSON are acyclic, so the traversal is
// bounded.
func CollectObjects(node any) []map[string]any {
	var out []map[string]any
	var walk func(any)
	walk = func(n any) {
		switch v := n.(type) {
		case []any:
			for _, item := range v {
				walk(item)
			}
		case map[string]any:
			out = append(out, v)
			keys := make([]string, 0, len(v))
			for key := range v {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				walk(v[key])
			}
		}
	}
	walk(node)
	return out
}
