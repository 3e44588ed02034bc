package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ewhitmore/timber/internal/cw"
	"github.com/ewhitmore/timber/internal/fetch"
)

var errQueryFailed = errors.New("query failed")

// viewerState is the log viewer for one selected group. Each selection owns a
// fresh store and a cancel handle for its background query run.
type viewerState struct {
	group  string
	store  *fetch.Store[[]string]
	snap   fetch.Snapshot[[]string]
	gen    int
	cancel context.CancelFunc

	table Table
	spin  spinner.Model
}

func (m *Model) initViewer() {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	m.viewer = viewerState{spin: spin}
}

// startQuery abandons any in-flight query and launches one for group over the
// configured lookback window.
func (m *Model) startQuery(group string) tea.Cmd {
	if m.viewer.cancel != nil {
		m.viewer.cancel()
	}
	m.viewer.gen++
	gen := m.viewer.gen
	m.viewer.group = group

	store := &fetch.Store[[]string]{}
	m.viewer.store = store
	m.viewer.snap = store.Snapshot()
	m.viewer.table.SetLines(nil)
	m.viewer.table.ScrollToNewest()

	ctx, cancel := context.WithCancel(m.ctx)
	m.viewer.cancel = cancel

	poller := fetch.NewPoller(store, fetch.Options{
		Interval: m.cfg.PollInterval(),
		Deadline: m.cfg.QueryTimeout(),
		Log:      m.log.WithField("group", group),
	})
	go poller.Run(ctx, m.submitQuery(group))

	return tea.Batch(m.viewer.spin.Tick, waitCmd(poller.Done(), queryDoneMsg{gen}))
}

// submitQuery builds the submit step for one query run: start the query over
// [now-lookback, now], then poll its handle until the service settles.
func (m *Model) submitQuery(group string) fetch.SubmitFunc[[]string] {
	cfg := m.cfg
	svc := m.svc
	return func(ctx context.Context) (fetch.PollFunc[[]string], error) {
		end := time.Now().UnixMilli()
		start := end - cfg.Lookback().Milliseconds()

		handle, err := svc.StartQuery(ctx, group, start, end, cfg.QueryString)
		if err != nil {
			return nil, err
		}

		return func(ctx context.Context) ([]string, bool, error) {
			result, err := svc.PollQuery(ctx, handle)
			if err != nil {
				return nil, false, err
			}
			lines := cw.ExtractLines(result.Rows)
			switch result.Status {
			case cw.StatusComplete:
				return lines, true, nil
			case cw.StatusFailed:
				return nil, false, errQueryFailed
			case cw.StatusTimedOut:
				return nil, false, fetch.ErrTimedOut
			default:
				return lines, false, nil
			}
		}, nil
	}
}

// refreshViewer pulls the latest snapshot into the table. Lines are swapped
// wholesale; the table re-clamps the scroll position on its own.
func (m *Model) refreshViewer() {
	if m.viewer.store == nil {
		return
	}
	m.viewer.snap = m.viewer.store.Snapshot()
	m.viewer.table.SetLines(m.viewer.snap.Value)
}

// closeViewer cancels the running query and returns to the group list. The
// gen bump makes the cancelled run's wake-up message a no-op.
func (m *Model) closeViewer() {
	if m.viewer.cancel != nil {
		m.viewer.cancel()
		m.viewer.cancel = nil
	}
	m.viewer.gen++
	m.viewer.group = ""
	m.viewer.store = nil
	m.viewer.snap = fetch.Snapshot[[]string]{}
	m.viewer.table.SetLines(nil)
	m.focus = focusGroups
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewer.table.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewer.table.ScrollDown(1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewer.table.ScrollUp(10)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewer.table.ScrollDown(10)
	case key.Matches(msg, m.keys.GoTop):
		m.viewer.table.ScrollToOldest()
	case key.Matches(msg, m.keys.GoBottom):
		m.viewer.table.ScrollToNewest()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startQuery(m.viewer.group)

	case key.Matches(msg, m.keys.Back):
		m.closeViewer()
	}
	return m, nil
}

func (m Model) renderViewer(width, height int) string {
	table := m.viewer.table
	table.SetFocused(true)
	table.Title = m.viewer.group
	table.Status = m.viewerStatus()
	table.Placeholder = m.viewerPlaceholder()
	return table.View(width, height)
}

func (m Model) viewerStatus() string {
	snap := m.viewer.snap
	return m.statusLabel(snap.Status, m.viewer.spin.View(), snap.Status.Loading())
}

// viewerPlaceholder distinguishes a query still running from one that
// completed with nothing in range and from one that ended badly.
func (m Model) viewerPlaceholder() string {
	snap := m.viewer.snap
	switch {
	case snap.Status.Loading(), snap.Status == fetch.StatusIdle:
		return "waiting for results..."
	case snap.Status == fetch.StatusFailed:
		return "query failed: " + errText(snap.Err)
	case snap.Status == fetch.StatusTimedOut:
		return "query timed out, press r to retry"
	default:
		return "no log lines in the lookback window"
	}
}
