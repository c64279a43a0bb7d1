package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/search"
	"github.com/pders01/reel/internal/tmdb"
)

const storeTimeout = 5 * time.Second

// fetch runs req off the loop. The coordinator decides on the loop, in
// Apply, whether the outcome is still wanted.
func (a *App) fetch(req search.Request) tea.Cmd {
	coord := a.coord
	return func() tea.Msg {
		return searchResultMsg{out: coord.Run(req)}
	}
}

func (a *App) loadTrending() tea.Cmd {
	loader := a.trending
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, _ := loader.Load(ctx)
		return trendingLoadedMsg{entries: entries}
	}
}

func (a *App) recordSearch(out search.Outcome) tea.Cmd {
	recorder := a.recorder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		recorded, err := recorder.Record(ctx, out)
		if err != nil {
			debuglog.Errorf("recording search: %v", err)
		}
		return searchRecordedMsg{query: out.Query, recorded: recorded, err: err}
	}
}

func (a *App) suggest(raw string) tea.Cmd {
	if a.suggester == nil || strings.TrimSpace(raw) == "" {
		a.suggestions = nil
		return nil
	}
	suggester := a.suggester
	limit := a.config.Search.SuggestionLimit
	return func() tea.Msg {
		items, err := suggester.Suggest(raw, limit)
		if err != nil {
			debuglog.Warnf("suggestions for %q: %v", raw, err)
			items = nil
		}
		return suggestionsMsg{query: raw, items: items}
	}
}

// renderDetail builds the markdown card for m. The renderer is resolved on
// the loop so the command does not touch App state.
func (a *App) renderDetail(m tmdb.Movie) tea.Cmd {
	r, rerr := a.getRenderer()
	card := a.detailMarkdown(m)
	return func() tea.Msg {
		if rerr != nil {
			return detailRenderedMsg{movieID: m.ID, content: "Error initializing renderer: " + rerr.Error()}
		}
		rendered, err := r.Render(card)
		if err != nil {
			return detailRenderedMsg{movieID: m.ID, content: fmt.Sprintf("Failed to render details: %s\n\n%s", err, card)}
		}
		return detailRenderedMsg{movieID: m.ID, content: rendered}
	}
}

func (a *App) detailMarkdown(m tmdb.Movie) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.Title)

	var facts []string
	if m.ReleaseDate != "" {
		facts = append(facts, "**Released:** "+m.ReleaseDate)
	}
	facts = append(facts, fmt.Sprintf("**Rating:** %.1f/10", m.VoteAverage))
	if lang := m.Language(); lang != "" {
		facts = append(facts, "**Language:** "+lang)
	}
	facts = append(facts, fmt.Sprintf("**Popularity:** %.1f", m.Popularity))
	b.WriteString(strings.Join(facts, " • "))
	b.WriteString("\n\n")

	if poster := a.posterURL(m.PosterPath); poster != "" {
		fmt.Fprintf(&b, "[Poster](%s) • ", poster)
	}
	fmt.Fprintf(&b, "[TMDb](%s)\n\n---\n\n", a.movieURL(m.ID))

	overview := m.Overview
	if overview == "" {
		overview = "_No overview available._"
	}
	if limit := a.config.UI.Detail.MaxOverviewLength; limit > 0 {
		overview = truncateEnd(overview, limit)
	}
	b.WriteString(overview)
	b.WriteString("\n")
	return b.String()
}

func (a *App) openPoster(url string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		if url == "" {
			return statusMsg{text: MsgNothingToOpen, kind: StatusWarn}
		}
		if err := opener.OpenPoster(url); err != nil {
			return errorMsg{err: wrapErr("opening poster", err)}
		}
		return statusMsg{text: MsgOpened("poster", url), kind: StatusSuccess}
	}
}

func (a *App) openPage(url string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		if err := opener.OpenPage(url); err != nil {
			return errorMsg{err: wrapErr("opening movie page", err)}
		}
		return statusMsg{text: MsgOpened("page", url), kind: StatusSuccess}
	}
}
