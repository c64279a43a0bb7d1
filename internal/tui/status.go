package tui

import (
	"fmt"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingMovies  = "Loading movies…"
	MsgNoMovies       = "No movies found"
	MsgLoadingDetail  = "Loading details…"
	MsgRefreshing     = "Refreshing trending…"
	MsgNothingToOpen  = "Nothing to open"
	MsgNoSelection    = "Select a movie first"
	MsgTrendingHeader = "Trending searches"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 movie"
	}
	return fmt.Sprintf("%d movies", n)
}

func MsgOpened(what, target string) string {
	return fmt.Sprintf("Opened %s %s", what, truncateMiddle(target, 48))
}

func MsgTrendingSummary(n int) string {
	if n == 0 {
		return "No trending searches yet"
	}
	return fmt.Sprintf("Trending: %d searches", n)
}
