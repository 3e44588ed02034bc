package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders a bounded window of an arbitrarily long line sequence inside
// a bordered frame, without copying the sequence.
//
// The window is anchored at the bottom: offset 0 shows the most recent lines
// ("tail" mental model) and scrolling up walks toward older lines. The line
// at index len(lines)-1-offset is the current line and gets the selection
// style. The line slice is swapped wholesale via SetLines, never mutated in
// place.
type Table struct {
	// Title is drawn into the top border, Status right-aligned next to it.
	Title  string
	Status string
	// Placeholder is shown inside an otherwise empty frame.
	Placeholder string

	offset int
	inner  int
	lines  []string
	marks  [][]int

	// Cursor mode replaces the bottom-anchored highlight with a selection
	// cursor that moves independently of the scroll offset. The group
	// selector uses it; the log viewer keeps the tail behavior.
	cursorOn bool
	cursor   int

	styles  Styles
	focused bool
}

// SetSize fixes the render area and re-clamps the offset. Update calls this
// on resize so that scroll math stays correct between renders.
func (t *Table) SetSize(width, height int) {
	inner := height - 2
	if inner < 0 {
		inner = 0
	}
	t.inner = inner
	t.clamp()
	if t.cursorOn {
		t.clampCursor()
	}
}

// SetStyles installs the theme styles used for borders and emphasis.
func (t *Table) SetStyles(styles Styles) {
	t.styles = styles
}

// SetFocused toggles the focus border color.
func (t *Table) SetFocused(focused bool) {
	t.focused = focused
}

// SetLines swaps in a new line sequence and re-clamps the scroll offset so it
// cannot point past the end of a shorter result set. In cursor mode the
// cursor is re-clamped the same way.
func (t *Table) SetLines(lines []string) {
	t.lines = lines
	t.marks = nil
	t.clamp()
	if t.cursorOn {
		t.clampCursor()
	}
}

// SetMarks attaches per-line matched rune positions for render emphasis.
// marks must be indexed like the current lines; nil clears emphasis.
func (t *Table) SetMarks(marks [][]int) {
	t.marks = marks
}

// Count returns the current line count.
func (t *Table) Count() int {
	return len(t.lines)
}

// Offset returns the current scroll offset.
func (t *Table) Offset() int {
	return t.offset
}

// Current returns the index of the current line, or -1 when empty. In cursor
// mode this is the selection cursor; otherwise it is the line nearest the
// bottom of the window.
func (t *Table) Current() int {
	if len(t.lines) == 0 {
		return -1
	}
	if t.cursorOn {
		return t.cursor
	}
	return len(t.lines) - 1 - t.offset
}

// SetCursor enables cursor mode and places the cursor on idx, scrolling the
// window as needed to keep it visible.
func (t *Table) SetCursor(idx int) {
	t.cursorOn = true
	t.cursor = idx
	t.clampCursor()
}

// CursorUp moves the cursor toward the first line.
func (t *Table) CursorUp(amount int) {
	if amount < 1 {
		amount = 1
	}
	t.cursor -= amount
	t.clampCursor()
}

// CursorDown moves the cursor toward the last line.
func (t *Table) CursorDown(amount int) {
	if amount < 1 {
		amount = 1
	}
	t.cursor += amount
	t.clampCursor()
}

// clampCursor bounds the cursor to [0, count-1] and scrolls the window so the
// cursor row stays visible.
func (t *Table) clampCursor() {
	count := len(t.lines)
	if count == 0 {
		t.cursor = 0
		t.offset = 0
		return
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor > count-1 {
		t.cursor = count - 1
	}
	if t.inner <= 0 {
		return
	}
	if low := count - t.inner - t.offset; t.cursor < low {
		t.offset = count - t.inner - t.cursor
	}
	if high := count - 1 - t.offset; t.cursor > high {
		t.offset = count - 1 - t.cursor
	}
	t.clamp()
}

// ScrollUp moves the window toward older lines.
func (t *Table) ScrollUp(amount int) {
	if amount < 1 {
		amount = 1
	}
	t.offset += amount
	t.clamp()
}

// ScrollDown moves the window toward newer lines.
func (t *Table) ScrollDown(amount int) {
	if amount < 1 {
		amount = 1
	}
	t.offset -= amount
	t.clamp()
}

// ScrollToNewest resets the window to the bottom.
func (t *Table) ScrollToNewest() {
	t.offset = 0
}

// ScrollToOldest scrolls the window all the way up, showing the oldest lines.
func (t *Table) ScrollToOldest() {
	t.offset = len(t.lines)
	t.clamp()
}

// clamp bounds the offset to [0, max(0, count-inner)]. Before the first
// render inner is zero, which pins the offset to the bottom; that is fine
// because scrolling only happens once frames are being drawn.
func (t *Table) clamp() {
	limit := len(t.lines) - t.inner
	if limit < 0 {
		limit = 0
	}
	if t.offset > limit {
		t.offset = limit
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// window reports the clamped start and the half-open line range [lo, hi)
// visible at the given offset for count lines in inner rows.
func window(count, inner, offset int) (start, lo, hi int) {
	if inner <= 0 || count <= 0 {
		return 0, 0, 0
	}
	start = offset
	if limit := count - inner; start > limit {
		start = limit
	}
	if start < 0 {
		start = 0
	}
	lo = count - inner - start
	if lo < 0 {
		lo = 0
	}
	hi = count - start
	return start, lo, hi
}

// View renders the frame at the given outer dimensions. Heights below one
// row render nothing; two rows are always reserved for the border.
func (t *Table) View(width, height int) string {
	if height < 1 || width < 2 {
		return ""
	}
	inner := height - 2
	if inner < 0 {
		inner = 0
	}
	t.inner = inner
	t.clamp()
	if t.cursorOn {
		t.clampCursor()
	}

	innerWidth := width - 2
	count := len(t.lines)
	_, lo, hi := window(count, inner, t.offset)
	current := t.Current()

	border := t.styles.Border
	if t.focused {
		border = t.styles.BorderFocus
	}

	var b strings.Builder
	b.WriteString(t.renderTopBorder(width, border))
	for row := 0; row < inner; row++ {
		b.WriteString("\n")
		b.WriteString(border.Render("│"))

		idx := lo + row
		switch {
		case idx < hi:
			b.WriteString(t.renderLine(idx, innerWidth, idx == current))
		case count == 0 && row == 0 && t.Placeholder != "":
			b.WriteString(t.styles.MutedText.Render(padRight(truncate(t.Placeholder, innerWidth), innerWidth)))
		default:
			b.WriteString(strings.Repeat(" ", innerWidth))
		}

		b.WriteString(border.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(t.renderBottomBorder(width, border))
	return b.String()
}

// renderLine truncates, pads and styles one visible line.
func (t *Table) renderLine(idx, width int, selected bool) string {
	text := padRight(truncate(t.lines[idx], width), width)

	var positions []int
	if idx < len(t.marks) {
		positions = t.marks[idx]
	}

	base := t.styles.Text
	if selected {
		base = t.styles.Selected
	}
	if len(positions) == 0 {
		return base.Render(text)
	}

	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}

	emphasis := t.styles.MatchText
	if selected {
		emphasis = t.styles.Selected.Bold(true).Underline(true)
	}

	var b strings.Builder
	for i, r := range []rune(text) {
		if marked[i] {
			b.WriteString(emphasis.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func (t *Table) renderTopBorder(width int, border lipgloss.Style) string {
	innerWidth := width - 2

	title := t.Title
	status := t.Status
	if title != "" {
		title = " " + title + " "
	}
	if status != "" {
		status = " " + status + " "
	}

	titleLen := len([]rune(title))
	statusLen := len([]rune(status))
	if titleLen > innerWidth {
		title = truncate(title, innerWidth)
		titleLen = len([]rune(title))
	}
	if titleLen+statusLen > innerWidth {
		status = ""
		statusLen = 0
	}
	fill := innerWidth - titleLen - statusLen
	if fill < 0 {
		fill = 0
	}

	var b strings.Builder
	b.WriteString(border.Render("╭"))
	b.WriteString(t.styles.AccentText.Render(title))
	b.WriteString(border.Render(strings.Repeat("─", fill)))
	b.WriteString(t.styles.MutedText.Render(status))
	b.WriteString(border.Render("╮"))
	return b.String()
}

func (t *Table) renderBottomBorder(width int, border lipgloss.Style) string {
	return border.Render("╰" + strings.Repeat("─", width-2) + "╯")
}
