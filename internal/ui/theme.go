package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string

	SelectionBg   string
	SelectionText string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Border)),

		BorderFocus: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BorderFocus)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		MatchText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Underline(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Border      lipgloss.Style
	BorderFocus lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	// MatchText emphasizes fuzzy-matched characters.
	MatchText lipgloss.Style
	// Selected marks the current row.
	Selected lipgloss.Style
}

var themes = []Theme{
	{
		Name:          "Dracula",
		Border:        "#6272a4",
		BorderFocus:   "#bd93f9",
		Text:          "#f8f8f2",
		Muted:         "#6272a4",
		Accent:        "#8be9fd",
		Success:       "#50fa7b",
		Warning:       "#f1fa8c",
		Danger:        "#ff5555",
		SelectionBg:   "#44475a",
		SelectionText: "#f8f8f2",
	},
	{
		Name:          "Nord",
		Border:        "#4c566a",
		BorderFocus:   "#88c0d0",
		Text:          "#eceff4",
		Muted:         "#4c566a",
		Accent:        "#88c0d0",
		Success:       "#a3be8c",
		Warning:       "#ebcb8b",
		Danger:        "#bf616a",
		SelectionBg:   "#434c5e",
		SelectionText: "#eceff4",
	},
}

// GetTheme returns the theme by name, defaulting to the first theme.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name of the theme after the given one, cycling.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}
