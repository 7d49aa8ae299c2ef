package recipe

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize collapses every run of whitespace in s to a single space and
// trims the ends. It is applied to every fragment before it enters a list.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Dedupe drops empty strings and keeps only the first occurrence of each
// value under case-insensitive comparison. Order and the casing of the
// retained entries are preserved; the result is never nil.
func Dedupe(values []string) []string {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		key := fold.String(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// splitList splits a comma-delimited value (meta keywords, JSON-LD keywords)
// into normalized, non-empty parts.
func splitList(s string) []string {
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if text := Normalize(part); text != "" {
			parts = append(parts, text)
		}
	}
	return parts
}

func normalizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Normalize(v)
	}
	return out
}
