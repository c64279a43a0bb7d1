package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHeader is the title row of a view, with the tagline beneath it
// when there is one. Both are cut to width.
func renderHeader(title, tagline string, width int) string {
	if width > 2 {
		title = truncateEnd(title, width-2)
		tagline = truncateEnd(tagline, width-2)
	}
	if tagline == "" {
		return HeaderStyle.Render(title)
	}
	return lipgloss.JoinVertical(lipgloss.Left, HeaderStyle.Render(title), renderMuted(tagline))
}

// renderSearchBox frames the query input. The border is highlighted while
// the input has focus.
func renderSearchBox(inputView string, focused bool, inputWidth int) string {
	border := MutedColor
	if focused {
		border = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(inputWidth + 4).
		Render(inputView)
}

// renderPane places a one-line state message (loading, error, empty,
// welcome) in the middle of the results area.
func renderPane(width, height int, message string) string {
	return lipgloss.Place(max(width, 1), max(height, 1), lipgloss.Center, lipgloss.Center, message)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHint(text string) string {
	return HelpStyle.Render(text)
}
