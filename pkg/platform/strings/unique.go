// Package strings holds small helpers for client-supplied identifier lists.
package strings

import (
	"slices"
	"strings"
)

// Unique trims each value and drops blanks and repeats, keeping the first
// occurrence. Inputs are short client lists, so the linear scan is fine.
func Unique(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
