package ui

import "strings"

// truncate shortens a string to the given rune limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// padRight pads value with spaces to the given rune width.
func padRight(value string, width int) string {
	gap := width - len([]rune(value))
	if gap <= 0 {
		return value
	}
	return value + strings.Repeat(" ", gap)
}
