package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debounce"
	"github.com/pders01/reel/internal/media"
	"github.com/pders01/reel/internal/search"
	"github.com/pders01/reel/internal/storage"
	"github.com/pders01/reel/internal/suggest"
	"github.com/pders01/reel/internal/tmdb"
)

// Opener launches external viewers for posters and movie pages.
type Opener interface {
	OpenPoster(url string) error
	OpenPage(url string) error
}

// Deps are the collaborators the App drives. Nil fields fall back to
// defaults built from the config, except Counter and Suggester, which are
// optional.
type Deps struct {
	Fetcher   search.Fetcher
	Counter   storage.Counter
	Suggester suggest.Suggester
	Opener    Opener
	PosterURL func(posterPath string) string
}

type App struct {
	config     *config.Config
	keyHandler *KeyHandler
	keys       keyMap

	coord     *search.Coordinator
	debouncer *debounce.Timer
	recorder  *search.Recorder
	trending  *search.TrendingLoader
	suggester suggest.Suggester
	opener    Opener
	posterURL func(string) string

	searchInput textinput.Model
	resultList  list.Model
	spinner     spinner.Model
	viewport    viewport.Model
	help        help.Model

	view            View
	trendingEntries []storage.TrendingEntry
	suggestions     []string
	selected        *tmdb.Movie
	loadingDetail   bool

	width  int
	height int
	err    error
	status string
	kind   StatusKind

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(cfg *config.Config, deps Deps) *App {
	client := tmdb.FromConfig(cfg.TMDB)
	if deps.Fetcher == nil {
		deps.Fetcher = client
	}
	if deps.PosterURL == nil {
		deps.PosterURL = client.PosterURL
	}
	if deps.Opener == nil {
		deps.Opener = media.NewLauncher(cfg)
	}

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.Title = "› movies"
	resultList.SetShowStatusBar(false)
	resultList.SetFilteringEnabled(false)
	resultList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search through thousands of movies"
	si.CharLimit = cfg.Search.MaxQueryLength
	si.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:      cfg,
		keys:        newKeyMap(cfg),
		coord:       search.NewCoordinator(deps.Fetcher),
		debouncer:   debounce.New(cfg.Search.Debounce),
		recorder:    search.NewRecorder(deps.Counter, deps.Suggester, deps.PosterURL),
		trending:    search.NewTrendingLoader(deps.Counter, cfg.Trending.Limit),
		suggester:   deps.Suggester,
		opener:      deps.Opener,
		posterURL:   deps.PosterURL,
		searchInput: si,
		resultList:  resultList,
		spinner:     sp,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		view:        ViewBrowse,
	}
	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	detail := a.config.UI.Detail
	wordWrapWidth := (a.width * 9) / 10
	wordWrapWidth = min(wordWrapWidth, detail.WordWrapMaxWidth)
	wordWrapWidth = max(wordWrapWidth, detail.WordWrapMinWidth)
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Init fetches popular movies and the trending searches. Both start
// before the user types anything.
func (a *App) Init() tea.Cmd {
	a.debouncer.Reset("")
	req := a.coord.Start("")
	return tea.Batch(
		a.fetch(req),
		a.loadTrending(),
		a.spinner.Tick,
		textinput.Blink,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case searchDebounceFireMsg:
		query, changed, ok := a.debouncer.Fire(msg.token)
		if !ok || !changed {
			return a, nil
		}
		req := a.coord.Start(query)
		return a, tea.Batch(a.fetch(req), a.spinner.Tick)

	case searchResultMsg:
		if !a.coord.Apply(msg.out) {
			return a, nil
		}
		a.syncResults()
		if msg.out.ShouldRecord() {
			return a, a.recordSearch(msg.out)
		}
		return a, nil

	case searchRecordedMsg:
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("Could not save search %q: %v", msg.query, msg.err), StatusWarn)
		}
		return a, nil

	case trendingLoadedMsg:
		a.trendingEntries = msg.entries
		return a, nil

	case suggestionsMsg:
		if msg.query == a.searchInput.Value() {
			a.suggestions = msg.items
		}
		return a, nil

	case detailRenderedMsg:
		if a.view == ViewDetail && a.selected != nil && a.selected.ID == msg.movieID {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingDetail = false
		}
		return a, nil

	case statusMsg:
		a.err = nil
		a.setStatus(msg.text, msg.kind)
		return a, nil

	case errorMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if !a.coord.State().Loading && !a.loadingDetail {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.view {
	case ViewBrowse:
		a.searchInput, cmd = a.searchInput.Update(msg)
	case ViewDetail:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return a, cmd
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.help.Width = width

	a.resultList.SetSize(width, max(height-a.chromeHeight(), 5))
	a.viewport.Width = width
	a.viewport.Height = max(height-5, 3)

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = max(width-4, 1)
	}
	a.searchInput.Width = inputWidth
}

// chromeHeight is the number of rows around the result list: header,
// input frame, suggestion line, trending strip and status bar.
func (a *App) chromeHeight() int {
	return 2 + 3 + 1 + 2 + 2
}

// syncResults copies the coordinator's movies into the list.
func (a *App) syncResults() {
	movies := a.coord.State().Movies
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	a.resultList.SetItems(items)
	a.resultList.ResetSelected()
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.kind = kind
}

// selectedMovie is the movie the open keys act on: the one in the detail
// view, or the highlighted result.
func (a *App) selectedMovie() (tmdb.Movie, bool) {
	if a.view == ViewDetail && a.selected != nil {
		return *a.selected, true
	}
	if item, ok := a.resultList.SelectedItem().(movieItem); ok {
		return item.movie, true
	}
	return tmdb.Movie{}, false
}

func (a *App) movieURL(id int64) string {
	return strings.TrimRight(a.config.TMDB.MovieURL, "/") + "/" + strconv.FormatInt(id, 10)
}

func (a *App) View() string {
	var content string
	switch a.view {
	case ViewDetail:
		content = a.detailView()
	default:
		content = a.browseView()
	}

	status := a.getCustomStatusBar()
	if status == "" {
		return content
	}
	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width-1, 1)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, status)
}

func (a *App) browseView() string {
	rows := []string{
		renderHeader(CompactLogo, Tagline, a.width),
		renderSearchBox(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
	}
	if line := a.suggestionLine(); line != "" {
		rows = append(rows, line)
	}
	if strip := a.trendingStrip(); strip != "" {
		rows = append(rows, strip)
	}
	rows = append(rows, a.resultsPane())

	body := lipgloss.JoinVertical(lipgloss.Top, rows...)
	if a.height <= 0 {
		return body
	}
	return ContentWrapper(a.width, max(a.height-3, 1)).Render(body)
}

func (a *App) suggestionLine() string {
	if len(a.suggestions) == 0 || !a.searchInput.Focused() {
		return ""
	}
	return renderMuted("↳ "+strings.Join(a.suggestions, " • ")) + " " +
		renderHint("("+a.config.Keys.Bindings.AcceptSuggest+" to accept)")
}

// trendingStrip is hidden when there is nothing to show, including when
// loading trending searches failed.
func (a *App) trendingStrip() string {
	if len(a.trendingEntries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(a.trendingEntries))
	for _, e := range a.trendingEntries {
		label := e.Term
		if e.Title != "" && !strings.EqualFold(e.Title, e.Term) {
			label += " (" + e.Title + ")"
		}
		parts = append(parts, RankStyle.Render(strconv.Itoa(e.Rank))+" "+label)
	}
	line := HeaderStyle.Render(MsgTrendingHeader) + "  " + strings.Join(parts, "  ")
	if a.width > 0 {
		line = truncateEnd(line, a.width)
	}
	return line
}

func (a *App) resultsPane() string {
	height := max(a.height-a.chromeHeight(), 5)
	rs := a.coord.State().Render()
	switch rs.Kind {
	case search.KindLoading:
		return renderPane(a.width, height, a.spinner.View()+" "+MsgLoadingMovies)
	case search.KindError:
		return renderPane(a.width, height, ErrorMessageStyle.Render(rs.Message))
	case search.KindEmpty:
		return renderPane(a.width, height, renderMuted(MsgNoMovies))
	case search.KindSuccess:
		return a.resultList.View()
	default:
		return renderPane(a.width, height, GetWelcomeMessage())
	}
}

func (a *App) detailView() string {
	title := "› details"
	if a.selected != nil {
		title = "› " + a.selected.Title
	}
	header := renderHeader(title, "", a.width)
	if a.loadingDetail {
		return lipgloss.JoinVertical(lipgloss.Top, header,
			renderPane(a.width, max(a.height-5, 1), a.spinner.View()+" "+MsgLoadingDetail))
	}
	return lipgloss.JoinVertical(lipgloss.Top, header, a.viewport.View())
}

func (a *App) getCustomStatusBar() string {
	if a.err != nil {
		return StatusBarStyle.Width(a.width).Render(ErrorMessageStyle.Render("✗ " + a.err.Error()))
	}
	if a.help.ShowAll {
		return StatusBarStyle.Width(a.width).Render(a.help.View(a.keys))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	text := strings.Join(commands, " • ")
	if a.status != "" {
		text = a.kind.style().Render(a.status) + "  " + text
	}
	if text == "" {
		return ""
	}
	return StatusBarStyle.Width(a.width).Render(text)
}

// quit drops the pending debounce wake-up and aborts the in-flight fetch
// before the program exits.
func (a *App) quit() tea.Cmd {
	a.debouncer.Cancel()
	a.coord.Cancel()
	return tea.Quit
}
