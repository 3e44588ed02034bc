package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ewhitmore/timber/internal/fetch"
	"github.com/ewhitmore/timber/internal/match"
)

// groupsState is the log group selector: the full listing lives in the fetch
// store, the filtered view of it in the table.
type groupsState struct {
	store *fetch.Store[[]string]
	snap  fetch.Snapshot[[]string]
	gen   int

	table     Table
	filtered  []match.Result
	searching bool
	input     textinput.Model
	spin      spinner.Model
}

func (m *Model) initGroups() {
	input := textinput.New()
	input.Prompt = "/"
	input.CharLimit = 128

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m.groups = groupsState{
		store: &fetch.Store[[]string]{},
		input: input,
		spin:  spin,
	}
	m.groups.table.Title = "Log Groups"
	// The list is a selector, not a tail: the highlight starts on the first
	// group and moves independently of the scroll position.
	m.groups.table.SetCursor(0)
}

// startGroupsFetch launches a fresh listing run and returns the commands that
// animate and wait on it. Any earlier run is superseded by the bumped gen.
func (m *Model) startGroupsFetch() tea.Cmd {
	m.groups.gen++
	gen := m.groups.gen

	store := &fetch.Store[[]string]{}
	m.groups.store = store
	m.groups.snap = store.Snapshot()
	m.applyGroupFilter()

	poller := fetch.NewPoller(store, fetch.Options{
		Interval: m.cfg.PollInterval(),
		Deadline: m.cfg.QueryTimeout(),
		Log:      m.log,
	})
	// Listing is a single round trip: submit does nothing remote and the one
	// poll round fetches every page.
	go poller.Run(m.ctx, func(context.Context) (fetch.PollFunc[[]string], error) {
		return func(ctx context.Context) ([]string, bool, error) {
			names, err := m.svc.ListLogGroups(ctx)
			return names, true, err
		}, nil
	})

	return tea.Batch(m.groups.spin.Tick, waitCmd(poller.Done(), groupsDoneMsg{gen}))
}

// refreshGroups pulls the latest snapshot and rebuilds the filtered view.
func (m *Model) refreshGroups() {
	m.groups.snap = m.groups.store.Snapshot()
	m.applyGroupFilter()
}

// applyGroupFilter recomputes the filtered list wholesale from the full
// listing and the current search term, then swaps it into the table.
func (m *Model) applyGroupFilter() {
	m.groups.filtered = match.Filter(m.groups.input.Value(), m.groups.snap.Value)

	lines := make([]string, len(m.groups.filtered))
	marks := make([][]int, len(m.groups.filtered))
	for i, result := range m.groups.filtered {
		lines[i] = result.Candidate
		marks[i] = result.Positions
	}
	m.groups.table.SetLines(lines)
	m.groups.table.SetMarks(marks)
}

// selectedGroup returns the group under the highlight, or "" when there is
// nothing to select.
func (m *Model) selectedGroup() string {
	idx := m.groups.table.Current()
	if idx < 0 || idx >= len(m.groups.filtered) {
		return ""
	}
	return m.groups.filtered[idx].Candidate
}

func (m Model) handleGroupsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.groups.table.CursorUp(1)
	case key.Matches(msg, m.keys.Down):
		m.groups.table.CursorDown(1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.groups.table.CursorUp(10)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.groups.table.CursorDown(10)
	case key.Matches(msg, m.keys.GoTop):
		m.groups.table.SetCursor(0)
	case key.Matches(msg, m.keys.GoBottom):
		m.groups.table.SetCursor(m.groups.table.Count() - 1)

	case key.Matches(msg, m.keys.Search):
		m.groups.searching = true
		m.groups.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Select):
		if group := m.selectedGroup(); group != "" {
			m.focus = focusViewer
			return m, m.startQuery(group)
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startGroupsFetch()

	case key.Matches(msg, m.keys.Back):
		// Esc outside search mode drops any leftover filter.
		if m.groups.input.Value() != "" {
			m.groups.input.SetValue("")
			m.applyGroupFilter()
		}
	}
	return m, nil
}

// handleSearchKey routes input while the filter prompt is focused. Every
// keystroke re-filters from the full listing; esc restores the unfiltered
// order, enter opens the highlighted group and keeps the filter.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.groups.searching = false
		m.groups.input.Blur()
		m.groups.input.SetValue("")
		m.applyGroupFilter()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.groups.searching = false
		m.groups.input.Blur()
		if group := m.selectedGroup(); group != "" {
			m.focus = focusViewer
			return m, m.startQuery(group)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.groups.input, cmd = m.groups.input.Update(msg)
	m.applyGroupFilter()
	return m, cmd
}

func (m Model) renderGroups(width, height int) string {
	table := m.groups.table
	table.SetFocused(!m.groups.searching)
	table.Status = m.groupsStatus()
	table.Placeholder = m.groupsPlaceholder()

	return m.renderFilterLine(width) + "\n" + table.View(width, height-1)
}

// renderFilterLine shows the search prompt while searching, the active filter
// term afterward, and a hint otherwise.
func (m Model) renderFilterLine(width int) string {
	switch {
	case m.groups.searching:
		return truncate(m.groups.input.View(), width)
	case m.groups.input.Value() != "":
		return truncate(m.styles.AccentText.Render("/"+m.groups.input.Value()), width)
	default:
		return truncate(m.styles.MutedText.Render("press / to filter"), width)
	}
}

func (m Model) groupsStatus() string {
	snap := m.groups.snap
	return m.statusLabel(snap.Status, m.groups.spin.View(), snap.Status.Loading())
}

// groupsPlaceholder keeps "still loading", "nothing matched" and "the fetch
// broke" visually distinct in an empty frame.
func (m Model) groupsPlaceholder() string {
	snap := m.groups.snap
	switch {
	case snap.Status.Loading(), snap.Status == fetch.StatusIdle:
		return "loading log groups..."
	case snap.Status == fetch.StatusFailed:
		return "listing failed: " + errText(snap.Err)
	case snap.Status == fetch.StatusTimedOut:
		return "listing timed out"
	case len(snap.Value) == 0:
		return "no log groups found"
	default:
		return "no groups match " + m.groups.input.Value()
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
