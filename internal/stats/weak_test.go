package stats

import (
	"testing"

	"github.com/verte-zerg/tuichar/internal/ascii"
)

func TestSelectWeak(t *testing.T) {
	rows := []Row{
		{Char: 'a', Summary: Summary{Hits: 9, Misses: 1, AvgMs: 200}},
		{Char: 'b', Summary: Summary{Hits: 1, Misses: 1, AvgMs: 200}},
		{Char: 'c', Summary: Summary{Hits: 1, Misses: 1, AvgMs: 700}},
		{Char: 'd', Summary: Summary{Hits: 5, AvgMs: 100}},
	}
	weak := SelectWeak(rows, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	for _, c := range []ascii.Char{'b', 'c'} {
		if _, ok := weak[c]; !ok {
			t.Fatalf("expected %q in weak set %v", c, weak)
		}
	}
	if got := SelectWeak(rows, 0); len(got) != 3 {
		t.Fatalf("expected every row with a miss for top=0, got %v", got)
	}
	if _, ok := SelectWeak(rows, 0)['d']; ok {
		t.Fatalf("char without misses must not be weak")
	}
	if got := SelectWeak(nil, 3); len(got) != 0 {
		t.Fatalf("expected empty set for no rows")
	}
}

func TestSelectWeakSkipsPerfectChars(t *testing.T) {
	rows := []Row{
		{Char: 'a', Summary: Summary{Hits: 3, AvgMs: 900}},
		{Char: 'b', Summary: Summary{Hits: 1, AvgMs: 200}},
	}
	if got := SelectWeak(rows, 8); len(got) != 0 {
		t.Fatalf("expected empty weak set, got %v", got)
	}
}
