package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Back       key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	GoTop        key.Binding
	GoBottom     key.Binding

	// List actions
	Search  key.Binding
	Select  key.Binding
	Refresh key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		GoTop: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		GoBottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search groups"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open group"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
	}
}

// ShortHelp returns key bindings for the hint bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Select, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.HalfPageUp, k.HalfPageDown, k.GoTop, k.GoBottom},
		{k.Search, k.Select, k.Refresh, k.Back},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
