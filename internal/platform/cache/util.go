package cache

import (
	"strings"
)

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}

// joinKey builds a colon-separated Redis key from already-escaped parts.
func joinKey(parts ...string) string {
	return strings.Join(parts, ":")
}
