package match

import (
	"reflect"
	"sort"
	"testing"
)

func TestFilter_EmptyTermPreservesOrder(t *testing.T) {
	candidates := []string{"zeta", "alpha", "midgard", "alpha-2"}

	got := Filter("", candidates)

	if len(got) != len(candidates) {
		t.Fatalf("len = %d, want %d", len(got), len(candidates))
	}
	for i, r := range got {
		if r.Candidate != candidates[i] {
			t.Fatalf("result[%d] = %q, want %q (order must be preserved)", i, r.Candidate, candidates[i])
		}
		if r.Index != i {
			t.Fatalf("result[%d].Index = %d, want %d", i, r.Index, i)
		}
		if len(r.Positions) != 0 {
			t.Fatalf("result[%d].Positions = %v, want empty", i, r.Positions)
		}
	}
}

func TestFilter_ScenarioAuthService(t *testing.T) {
	candidates := []string{"api-gateway", "auth-service", "billing"}

	got := Filter("au", candidates)

	if len(got) != 1 || got[0].Candidate != "auth-service" {
		t.Fatalf("Filter(au) = %#v, want exactly [auth-service]", got)
	}
	if got[0].Score <= minScore {
		t.Fatalf("score = %d, want > %d", got[0].Score, minScore)
	}
}

func TestFilter_ThresholdAndIdempotence(t *testing.T) {
	candidates := []string{"prod-api", "staging-api", "prod-worker", "dev-db"}

	first := Filter("prod", candidates)
	second := Filter("prod", candidates)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Filter is not idempotent: %#v vs %#v", first, second)
	}
	for _, r := range first {
		if r.Score <= minScore {
			t.Fatalf("included candidate %q has score %d, want > %d", r.Candidate, r.Score, minScore)
		}
	}
}

func TestFilter_ResultsKeepInsertionOrder(t *testing.T) {
	candidates := []string{"worker-prod", "prod-api", "prod-db", "api-prod-2"}

	got := Filter("prod", candidates)

	if len(got) < 2 {
		t.Fatalf("expected multiple matches, got %#v", got)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Index < got[j].Index }) {
		t.Fatalf("results not in insertion order: %#v", got)
	}
}

func TestFilter_PositionsAreAscending(t *testing.T) {
	got := Filter("asv", []string{"auth-service"})
	if len(got) != 1 {
		t.Fatalf("got %#v, want one match", got)
	}
	positions := got[0].Positions
	if len(positions) != 3 {
		t.Fatalf("Positions = %v, want 3 matched indices", positions)
	}
	if !sort.IntsAreSorted(positions) {
		t.Fatalf("Positions not ascending: %v", positions)
	}
}

func TestFilter_NoMatchesIsValid(t *testing.T) {
	got := Filter("zzz", []string{"api-gateway", "billing"})
	if len(got) != 0 {
		t.Fatalf("got %#v, want empty result set", got)
	}
}
