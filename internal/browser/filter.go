package browser

import "strings"

// Filter returns the keys of all whose name contains query, ignoring case,
// in their original order. An empty query returns all unchanged.
//
// The result depends only on its arguments so it can be recomputed after any
// change to the key set without carrying stale entries.
func Filter(all []string, query string) []string {
	if query == "" {
		return all
	}
	needle := strings.ToLower(query)
	out := make([]string, 0, len(all))
	for _, k := range all {
		if strings.Contains(strings.ToLower(k), needle) {
			out = append(out, k)
		}
	}
	return out
}
