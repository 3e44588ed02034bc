package cw

import (
	"sort"
	"time"
)

// QueryStatus is the collaborator-reported state of an Insights query.
type QueryStatus int

const (
	// StatusRunning covers scheduled and in-progress queries; partial
	// results may already be present.
	StatusRunning QueryStatus = iota
	StatusComplete
	StatusFailed
	StatusTimedOut
)

func (s QueryStatus) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusComplete:
		return "Complete"
	case StatusFailed:
		return "Failed"
	case StatusTimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}

// Field is one (name, value) pair of a result row.
type Field struct {
	Name  string
	Value string
}

// PollResult is one round of query results.
type PollResult struct {
	Status QueryStatus
	Rows   [][]Field
}

const (
	timestampField = "@timestamp"
	messageField   = "@message"

	// Insights renders @timestamp in this layout, in UTC.
	timestampLayout = "2006-01-02 15:04:05.000"
)

// ExtractLines pulls the @message value out of each row, ordered oldest first
// by @timestamp. The service returns rows newest first, but relying on that
// and reversing would silently break if the query sorts differently, so rows
// are stably sorted by their parsed timestamps instead. Rows without a
// parseable timestamp keep their relative order at the front.
func ExtractLines(rows [][]Field) []string {
	type entry struct {
		ts      time.Time
		message string
	}

	entries := make([]entry, 0, len(rows))
	for _, row := range rows {
		var e entry
		found := false
		for _, field := range row {
			switch field.Name {
			case messageField:
				e.message = field.Value
				found = true
			case timestampField:
				if ts, err := time.Parse(timestampLayout, field.Value); err == nil {
					e.ts = ts
				}
			}
		}
		if found {
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ts.Before(entries[j].ts) })

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.message
	}
	return lines
}
