package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/pders01/reel/internal/config"
)

// keyMap feeds the full help overlay. The bindings mirror the keys the
// KeyHandler matches on.
type keyMap struct {
	Focus   key.Binding
	Results key.Binding
	Accept  key.Binding
	Open    key.Binding
	Poster  key.Binding
	Page    key.Binding
	Refresh key.Binding
	Clear   key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	b := cfg.Keys.Bindings
	mod := cfg.Keys.Modifier + "+"
	return keyMap{
		Focus:   key.NewBinding(key.WithKeys(b.Focus), key.WithHelp(b.Focus, "search")),
		Results: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "results")),
		Accept:  key.NewBinding(key.WithKeys(b.AcceptSuggest), key.WithHelp(b.AcceptSuggest, "accept suggestion")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Poster:  key.NewBinding(key.WithKeys(mod+b.OpenPoster), key.WithHelp(mod+b.OpenPoster, "poster")),
		Page:    key.NewBinding(key.WithKeys(mod+b.OpenPage), key.WithHelp(mod+b.OpenPage, "tmdb page")),
		Refresh: key.NewBinding(key.WithKeys(mod+b.Refresh), key.WithHelp(mod+b.Refresh, "refresh trending")),
		Clear:   key.NewBinding(key.WithKeys(mod+b.ClearSearch), key.WithHelp(mod+b.ClearSearch, "clear")),
		Back:    key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Help:    key.NewBinding(key.WithKeys(b.Help), key.WithHelp(b.Help, "help")),
		Quit:    key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Open, k.Poster, k.Page, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Results, k.Accept, k.Clear},
		{k.Open, k.Poster, k.Page, k.Back},
		{k.Refresh, k.Help, k.Quit},
	}
}
