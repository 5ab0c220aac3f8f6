package parser

import (
	"fmt"
	"strings"
)

// NormalizeHeaders makes column names usable as relation columns.
// An empty name becomes "Unnamed: <index>" and a repeated name gets a
// ".1", ".2", ... suffix. Names are compared case-insensitively because
// SQL identifiers are.
func NormalizeHeaders(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	dupes := make(map[string]int)

	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for used[strings.ToLower(candidate)] {
			dupes[name]++
			candidate = fmt.Sprintf("%s.%d", name, dupes[name])
		}
		used[strings.ToLower(candidate)] = true
		out[i] = candidate
	}

	return out
}
