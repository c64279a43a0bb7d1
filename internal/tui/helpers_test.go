package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/tmdb"
)

var (
	batman = tmdb.Movie{ID: 268, Title: "Batman", PosterPath: "/batman.jpg", Popularity: 42.5, ReleaseDate: "1989-06-23", VoteAverage: 7.2, OriginalLanguage: "en", Overview: "The Dark Knight of Gotham City begins his war on crime."}
	begins = tmdb.Movie{ID: 272, Title: "Batman Begins", PosterPath: "/begins.jpg", Popularity: 38.1}
	super  = tmdb.Movie{ID: 1924, Title: "Superman", PosterPath: "/superman.jpg", Popularity: 30}
	dune   = tmdb.Movie{ID: 438631, Title: "Dune", PosterPath: "/dune.jpg", Popularity: 99}
)

type fakeFetcher struct {
	mu      sync.Mutex
	results map[string][]tmdb.Movie
	errs    map[string]error
	calls   []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		results: map[string][]tmdb.Movie{
			"":         {dune, batman},
			"batman":   {batman, begins},
			"superman": {super},
		},
		errs: map[string]error{},
	}
}

func (f *fakeFetcher) Movies(_ context.Context, query string) ([]tmdb.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeOpener struct {
	posters []string
	pages   []string
	err     error
}

func (o *fakeOpener) OpenPoster(url string) error {
	o.posters = append(o.posters, url)
	return o.err
}

func (o *fakeOpener) OpenPage(url string) error {
	o.pages = append(o.pages, url)
	return o.err
}

// brokenTrending counts searches but cannot list them.
type brokenTrending struct {
	updates int
}

func (b *brokenTrending) UpdateSearchCount(context.Context, string, storage.Movie) error {
	b.updates++
	return nil
}

func (b *brokenTrending) GetTrending(context.Context, int) ([]storage.TrendingEntry, error) {
	return nil, errors.New("connection refused")
}

func (b *brokenTrending) Close() error { return nil }

func newTestApp(t *testing.T, deps Deps) (*App, *fakeFetcher, *fakeOpener) {
	t.Helper()
	cfg := config.TestConfig()

	fetcher, _ := deps.Fetcher.(*fakeFetcher)
	if fetcher == nil {
		fetcher = newFakeFetcher()
		deps.Fetcher = fetcher
	}
	opener, _ := deps.Opener.(*fakeOpener)
	if opener == nil {
		opener = &fakeOpener{}
		deps.Opener = opener
	}
	return NewApp(cfg, deps), fetcher, opener
}

// drain runs cmd and any batched commands it expands to. Only commands
// that complete immediately may be passed in.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle delivers the app's own messages produced by cmd, and by the
// commands those messages return, until nothing is left.
func settle(a *App, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, msg := range drain(next) {
			switch msg.(type) {
			case searchResultMsg, trendingLoadedMsg, searchRecordedMsg, suggestionsMsg,
				detailRenderedMsg, statusMsg, errorMsg:
				_, follow := a.Update(msg)
				if follow != nil {
					queue = append(queue, follow)
				}
			}
		}
	}
}

func typeText(a *App, s string) {
	for _, r := range s {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(a *App, k tea.KeyType) tea.Cmd {
	_, cmd := a.Update(tea.KeyMsg{Type: k})
	return cmd
}

// fire delivers the debounce wake-up for the most recent keystroke.
func fire(a *App) tea.Cmd {
	_, cmd := a.Update(searchDebounceFireMsg{token: a.debouncer.Token()})
	return cmd
}
