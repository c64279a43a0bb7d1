package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxQueryLength caps a search term in runes.
const DefaultMaxQueryLength = 256

// SanitizeQuery drops control characters and truncates the query to maxRunes.
// Spacing is preserved so that " " still counts as a search term.
func SanitizeQuery(query string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxQueryLength
	}
	if !needsSanitizing(query, maxRunes) {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))
	n := 0
	for _, r := range query {
		if n == maxRunes {
			break
		}
		if r == utf8.RuneError || (unicode.IsControl(r) && r != '\t') {
			continue
		}
		if r == '\t' {
			r = ' '
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func needsSanitizing(query string, maxRunes int) bool {
	if utf8.RuneCountInString(query) > maxRunes || !utf8.ValidString(query) {
		return true
	}
	return strings.IndexFunc(query, unicode.IsControl) >= 0
}
