package stats

import "testing"

func TestSlowestChars(t *testing.T) {
	rows := []Row{
		{Char: 'a', Summary: Summary{Hits: 2, AvgMs: 300}},
		{Char: 'b', Summary: Summary{Hits: 1, AvgMs: 500}},
		{Char: 'c', Summary: Summary{Misses: 4}},
		{Char: 'd', Summary: Summary{Hits: 1, AvgMs: 300}},
	}
	top := SlowestChars(rows, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != 'b' || top[1] != 'a' {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := SlowestChars(rows, 10); len(got) != 3 {
		t.Fatalf("expected chars without hits to be skipped, got %v", got)
	}
}
