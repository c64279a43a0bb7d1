package tui

import "github.com/charmbracelet/x/ansi"

// truncateEnd shortens s to at most limit terminal cells, ending with an
// ellipsis when anything was cut. Wide runes and styling are accounted for.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	return ansi.Truncate(s, limit, "…")
}

// truncateMiddle keeps both ends of s around a single ellipsis. Used for
// URLs, where host and file name matter most.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	return string(r[:left]) + "…" + string(r[len(r)-right:])
}
