package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/reel/internal/debounce"
	"github.com/pders01/reel/internal/search"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

type View int

const (
	ViewBrowse View = iota
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewBrowse:
		return "browse"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

type searchDebounceFireMsg struct {
	token debounce.Token
}

type searchResultMsg struct {
	out search.Outcome
}

type searchRecordedMsg struct {
	query    string
	recorded bool
	err      error
}

type trendingLoadedMsg struct {
	entries []storage.TrendingEntry
}

type suggestionsMsg struct {
	query string
	items []string
}

type detailRenderedMsg struct {
	movieID int64
	content string
}

type statusMsg struct {
	text string
	kind StatusKind
}

type movieItem struct {
	movie tmdb.Movie
}

func (i movieItem) Title() string { return i.movie.Title }

func (i movieItem) Description() string {
	parts := []string{RatingStyle.Render(fmt.Sprintf("★ %.1f", i.movie.VoteAverage))}
	if year := i.movie.Year(); year != "" {
		parts = append(parts, year)
	}
	if lang := i.movie.Language(); lang != "" {
		parts = append(parts, lang)
	}
	return strings.Join(parts, " • ")
}

func (i movieItem) FilterValue() string { return i.movie.Title }
