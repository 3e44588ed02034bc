// Package ui implements the Bubble Tea interface for timber: a log group
// selector and a log viewer, each backed by its own background fetch run.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ewhitmore/timber/internal/config"
	"github.com/ewhitmore/timber/internal/cw"
	"github.com/ewhitmore/timber/internal/prefs"
)

// focusArea is the controller currently receiving input.
type focusArea int

const (
	focusGroups focusArea = iota
	focusViewer
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   cw.API
	Config    config.Config
	Log       logrus.FieldLogger
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	svc       cw.API
	cfg       config.Config
	log       logrus.FieldLogger
	prefsPath string

	theme  Theme
	styles Styles
	keys   keyMap
	width  int
	height int
	ready  bool

	focus    focusArea
	showHelp bool

	groups groupsState
	viewer viewerState

	initCmd tea.Cmd
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	var log logrus.FieldLogger = opts.Log
	if log == nil {
		log = logrus.New()
	}

	theme := GetTheme(opts.ThemeName)

	m := Model{
		ctx:       ctx,
		svc:       opts.Service,
		cfg:       opts.Config,
		log:       log,
		prefsPath: opts.PrefsPath,
		theme:     theme,
		styles:    theme.Styles(),
		keys:      DefaultKeyMap(),
	}
	m.initGroups()
	m.initViewer()
	m.applyTheme()
	m.initCmd = m.startGroupsFetch()
	return m
}

// Messages

// groupsDoneMsg wakes the UI when a group listing run finishes. The gen field
// discards notifications from runs that have been superseded.
type groupsDoneMsg struct{ gen int }

// queryDoneMsg wakes the UI when a log query run finishes.
type queryDoneMsg struct{ gen int }

// waitCmd blocks until done is closed, then delivers msg.
func waitCmd(done <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-done
		return msg
	}
}

// Init implements tea.Model. The initial group fetch was already launched by
// New; Init only hands Bubble Tea the commands that wait on it.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.initCmd)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.syncSizes()
		return m, nil

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case groupsDoneMsg:
		if msg.gen != m.groups.gen {
			return m, nil
		}
		m.refreshGroups()
		return m, nil

	case queryDoneMsg:
		if msg.gen != m.viewer.gen {
			return m, nil
		}
		m.refreshViewer()
		return m, nil
	}

	return m, nil
}

// handleSpinnerTick animates the active spinner and, while a fetch is in
// flight, pulls the latest partial snapshot so progress is visible between
// notifications.
func (m Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusGroups:
		if !m.groups.snap.Status.Loading() {
			return m, nil
		}
		m.groups.spin, cmd = m.groups.spin.Update(msg)
		m.refreshGroups()
	case focusViewer:
		if !m.viewer.snap.Status.Loading() {
			return m, nil
		}
		m.viewer.spin, cmd = m.viewer.spin.Update(msg)
		m.refreshViewer()
	}
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Search mode owns almost every key, so dispatch before globals.
	if m.focus == focusGroups && m.groups.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		m.applyTheme()
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil
	}

	switch m.focus {
	case focusGroups:
		return m.handleGroupsKey(msg)
	case focusViewer:
		return m.handleViewerKey(msg)
	}
	return m, nil
}

// applyTheme pushes the current styles into both tables.
func (m *Model) applyTheme() {
	m.groups.table.SetStyles(m.styles)
	m.viewer.table.SetStyles(m.styles)
}

// syncSizes propagates the terminal size to both tables. One row goes to the
// hint bar; the group list loses another to its filter line.
func (m *Model) syncSizes() {
	content := m.height - 1
	m.groups.table.SetSize(m.width, content-1)
	m.viewer.table.SetSize(m.width, content)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	content := m.renderContent()
	hints := m.renderHintBar()
	return content + "\n" + hints
}

func (m Model) renderContent() string {
	// One row is reserved for the hint bar.
	height := m.height - 1
	switch m.focus {
	case focusViewer:
		return m.renderViewer(m.width, height)
	default:
		return m.renderGroups(m.width, height)
	}
}

func (m Model) renderHintBar() string {
	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts,
			m.styles.AccentText.Render(help.Key)+" "+m.styles.MutedText.Render(help.Desc))
	}
	return truncate(strings.Join(parts, "  "), m.width)
}

// statusLabel renders a fetch status for the frame title, keeping "no data"
// visually distinct from "still loading".
func (m Model) statusLabel(status fmt.Stringer, frame string, loading bool) string {
	if loading {
		return frame + " " + status.String()
	}
	return status.String()
}
