// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice, trimming
// whitespace from each element. First-occurrence order is preserved, which
// matters for user-facing feedback where rule evaluation order is meaningful.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// JoinDeduped dedupes, trims, and joins with the given separator.
// Used to merge per-field validation messages from multiple rules into one
// display string.
func JoinDeduped(values []string, sep string) string {
	return strings.Join(DedupeAndTrim(values), sep)
}
