package tui

import (
	"muxsummary/internal/i18n"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap 定义仪表盘快捷键绑定
// KeyMap defines the dashboard keybindings
type KeyMap struct {
	Analyze    key.Binding
	Refresh    key.Binding
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding
	Close      key.Binding
}

// DefaultKeyMap 默认快捷键
// DefaultKeyMap returns default keybindings with help text from the locale
func DefaultKeyMap(locale *i18n.I18n) KeyMap {
	if locale == nil {
		locale = i18n.Global()
	}
	return KeyMap{
		Analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", locale.T("keys.analyze")),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", locale.T("keys.refresh")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", locale.T("keys.quit")),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", locale.T("keys.up")),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", locale.T("keys.down")),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", locale.T("keys.page_up")),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", locale.T("keys.page_down")),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", locale.T("keys.top")),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", locale.T("keys.bottom")),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("⇧↑/K", locale.T("keys.scroll_up")),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("⇧↓/J", locale.T("keys.scroll_down")),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", locale.T("keys.help")),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", locale.T("keys.close")),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Analyze, k.Refresh, k.Up, k.Down, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Analyze, k.Refresh, k.Help, k.Close, k.Quit},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.ScrollUp, k.ScrollDown},
	}
}
