package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// renderHelp draws the full-screen key binding overlay. Any key closes it.
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("timber"))
	b.WriteString(m.styles.MutedText.Render("  key bindings"))
	b.WriteString("\n")

	for _, column := range m.keys.FullHelp() {
		b.WriteString("\n")
		for _, binding := range column {
			help := binding.Help()
			b.WriteString("  ")
			b.WriteString(m.styles.AccentText.Render(padRight(help.Key, 10)))
			b.WriteString(m.styles.Text.Render(help.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render("  press any key to close"))
	return b.String()
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	program := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
