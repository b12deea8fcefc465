package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/tuichar/internal/ascii"
)

const defaultSlowest = 5

// SlowestChars returns up to n characters with hits, slowest average first.
func SlowestChars(rows []Row, n int) []ascii.Char {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	items := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Hits > 0 {
			items = append(items, row)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AvgMs == items[j].AvgMs {
			return items[i].Char < items[j].Char
		}
		return items[i].AvgMs > items[j].AvgMs
	})
	n = min(n, len(items))
	out := make([]ascii.Char, 0, n)
	for _, row := range items[:n] {
		out = append(out, row.Char)
	}
	return out
}

func joinChars(chars []ascii.Char) string {
	parts := make([]string, len(chars))
	for i, c := range chars {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
