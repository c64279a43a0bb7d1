package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/validation"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if model, cmd, handled := kh.handleModifierKeys(key); handled {
		return model, cmd
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewBrowse && kh.app.searchInput.Focused()
}

// handleModifierKeys handles the modifier chords, which work in every view
// and take precedence over the text input's own bindings.
func (kh *KeyHandler) handleModifierKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings
	switch key {
	case "ctrl+c":
		return kh.app, kh.app.quit(), true
	case kh.modifierKey + b.Refresh:
		kh.app.setStatus(MsgRefreshing, StatusInfo)
		return kh.app, kh.app.loadTrending(), true
	case kh.modifierKey + b.OpenPoster:
		return kh.app, kh.openSelected(false), true
	case kh.modifierKey + b.OpenPage:
		return kh.app, kh.openSelected(true), true
	case kh.modifierKey + b.ClearSearch:
		if kh.app.view != ViewBrowse {
			return kh.app, nil, false
		}
		kh.app.searchInput.Reset()
		kh.app.searchInput.Focus()
		return kh.app, kh.queryChanged(), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := kh.config.Keys.Bindings
	switch msg.String() {
	case b.Back:
		return kh.navigateBack()
	case "enter":
		if item, ok := kh.app.resultList.SelectedItem().(movieItem); ok {
			return kh.showDetail(item)
		}
		return kh.app, nil
	case b.AcceptSuggest:
		if len(kh.app.suggestions) > 0 {
			kh.app.searchInput.SetValue(kh.app.suggestions[0])
			kh.app.searchInput.CursorEnd()
			kh.app.suggestions = nil
			return kh.app, kh.queryChanged()
		}
		kh.focusResults()
		return kh.app, nil
	case "down":
		kh.focusResults()
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the search input and, when the
// value changed, schedules a debounced search.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()
	newSearchInput, cmd := kh.app.searchInput.Update(msg)
	kh.app.searchInput = newSearchInput

	if kh.app.searchInput.Value() == prev {
		return kh.app, cmd
	}
	return kh.app, tea.Batch(cmd, kh.queryChanged())
}

// queryChanged feeds the current raw value to the debouncer and schedules
// the wake-up for its token, plus a suggestion lookup.
func (kh *KeyHandler) queryChanged() tea.Cmd {
	raw := kh.app.searchInput.Value()
	query := validation.SanitizeQuery(raw, kh.config.Search.MaxQueryLength)

	token := kh.app.debouncer.Input(query, time.Now())
	wait := kh.app.debouncer.Quiet()
	fire := tea.Tick(wait, func(time.Time) tea.Msg { return searchDebounceFireMsg{token: token} })
	return tea.Batch(fire, kh.app.suggest(raw))
}

func (kh *KeyHandler) focusResults() {
	if len(kh.app.resultList.Items()) == 0 {
		return
	}
	kh.app.searchInput.Blur()
	kh.app.suggestions = nil
}

// handleCustomKeys handles the plain keys outside the text input.
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	b := kh.config.Keys.Bindings
	switch key {
	case b.Quit:
		return kh.app, kh.app.quit(), true
	case b.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case b.Help:
		kh.app.help.ShowAll = !kh.app.help.ShowAll
		return kh.app, nil, true
	case b.Focus:
		if kh.app.view == ViewDetail {
			kh.app.view = ViewBrowse
		}
		kh.app.searchInput.Focus()
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewBrowse:
		switch msg.String() {
		case "tab", "shift+tab":
			kh.app.searchInput.Focus()
			return kh.app, nil
		case "up":
			if kh.app.resultList.Index() == 0 {
				kh.app.searchInput.Focus()
				return kh.app, nil
			}
		case "enter":
			if item, ok := kh.app.resultList.SelectedItem().(movieItem); ok {
				return kh.showDetail(item)
			}
			return kh.app, nil
		}
		kh.app.resultList, cmd = kh.app.resultList.Update(msg)
		return kh.app, cmd

	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) showDetail(item movieItem) (tea.Model, tea.Cmd) {
	movie := item.movie
	kh.app.selected = &movie
	kh.app.view = ViewDetail
	kh.app.loadingDetail = true
	kh.app.searchInput.Blur()
	kh.app.suggestions = nil
	return kh.app, tea.Batch(kh.app.renderDetail(movie), kh.app.spinner.Tick)
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewDetail:
		kh.app.view = ViewBrowse
		kh.app.selected = nil
		kh.app.loadingDetail = false
		return kh.app, nil

	case ViewBrowse:
		if kh.app.help.ShowAll {
			kh.app.help.ShowAll = false
			return kh.app, nil
		}
		if len(kh.app.suggestions) > 0 {
			kh.app.suggestions = nil
			return kh.app, nil
		}
		if kh.app.searchInput.Focused() {
			kh.app.searchInput.Blur()
			return kh.app, nil
		}
		if kh.app.err != nil {
			kh.app.err = nil
			return kh.app, nil
		}
		return kh.app, kh.app.quit()

	default:
		return kh.app, kh.app.quit()
	}
}

func (kh *KeyHandler) openSelected(page bool) tea.Cmd {
	movie, ok := kh.app.selectedMovie()
	if !ok {
		return func() tea.Msg { return statusMsg{text: MsgNoSelection, kind: StatusWarn} }
	}
	if page {
		return kh.app.openPage(kh.app.movieURL(movie.ID))
	}
	return kh.app.openPoster(kh.app.posterURL(movie.PosterPath))
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	b := kh.config.Keys.Bindings
	switch kh.app.view {
	case ViewBrowse:
		if kh.app.searchInput.Focused() {
			help := []string{"enter: details", "↓: results"}
			if len(kh.app.suggestions) > 0 {
				help = append(help, b.AcceptSuggest+": accept")
			}
			return append(help, kh.modifierKey+b.ClearSearch+": clear", kh.modifierKey+b.Refresh+": trending")
		}
		return []string{
			"enter: details",
			kh.modifierKey + b.OpenPoster + ": poster",
			kh.modifierKey + b.OpenPage + ": page",
			b.Focus + ": search",
			b.Help + ": help",
		}

	case ViewDetail:
		return []string{
			kh.modifierKey + b.OpenPoster + ": poster",
			kh.modifierKey + b.OpenPage + ": page",
			b.Back + ": back",
		}

	default:
		return []string{}
	}
}
