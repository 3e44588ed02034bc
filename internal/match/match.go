// Package match scores candidate strings against a fuzzy search term.
//
// Filtering is stateless and safe to re-run wholesale on every keystroke; the
// caller replaces its filtered view with the returned slice rather than
// diffing. Matched rune positions are carried along purely so the renderer can
// emphasize them.
package match

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Candidates scoring at or below this are dropped.
const minScore = 5

// Result is one candidate that passed the filter.
type Result struct {
	Candidate string
	Index     int // position in the original candidate slice
	Score     int
	Positions []int // matched rune indices, ascending
}

// Filter returns the candidates matching term, in original insertion order.
//
// An empty term means no filtering: every candidate passes with an empty
// Positions slice and the original order untouched. A non-empty term keeps
// only candidates scoring above the fixed threshold; an empty result is valid.
func Filter(term string, candidates []string) []Result {
	if term == "" {
		out := make([]Result, len(candidates))
		for i, c := range candidates {
			out[i] = Result{Candidate: c, Index: i}
		}
		return out
	}

	matches := fuzzy.Find(term, candidates)
	out := make([]Result, 0, len(matches))
	for _, m := range matches {
		if m.Score <= minScore {
			continue
		}
		out = append(out, Result{
			Candidate: m.Str,
			Index:     m.Index,
			Score:     m.Score,
			Positions: m.MatchedIndexes,
		})
	}

	// fuzzy.Find sorts by score; the contract is original insertion order.
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
