// Package display implements the CLI's post-index line filtering:
// time/attribute/grep constraints applied to a line's timestamp and text.
// Generalized from PostgreSQL-specific db/user/app attribute extraction
// to operate over whatever key=value pairs a given recognizer's message
// text happens to carry.
package display

import (
	"strings"
	"time"
)

// LineFilters holds optional time/attribute/grep constraints: zero
// values mean "no filtering for this criterion". Filters are applied in
// the order time, then attribute keys, then grep, cheapest first.
type LineFilters struct {
	Begin time.Time
	End   time.Time

	// Attributes is a set of "key=value" whitelists; a message must
	// contain "key=value" (or "key=" matching any of the listed
	// values) for every key present here.
	Attributes map[string][]string

	// Grep patterns must ALL be present in the message (literal
	// substring match).
	Grep []string
}

// Passes reports whether a message with timestamp t matches every
// configured filter.
func (f LineFilters) Passes(t time.Time, message string) bool {
	if !f.Begin.IsZero() && t.Before(f.Begin) {
		return false
	}
	if !f.End.IsZero() && t.After(f.End) {
		return false
	}

	for key, allowed := range f.Attributes {
		val := extractValue(message, key+"=")
		if val == "" || !contains(allowed, val) {
			return false
		}
	}

	for _, pattern := range f.Grep {
		if !strings.Contains(message, pattern) {
			return false
		}
	}

	return true
}

// extractValue extracts the value following "key=" in message, reading
// until the first separator character.
func extractValue(line, key string) string {
	idx := strings.Index(line, key)
	if idx == -1 {
		return ""
	}
	rest := line[idx+len(key):]
	end := strings.IndexAny(rest, " ,[]()")
	if end == -1 {
		return rest
	}
	return rest[:end]
}

func contains(list []string, val string) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}
