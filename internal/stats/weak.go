package stats

import (
	"sort"

	"github.com/verte-zerg/tuichar/internal/ascii"
)

// SelectWeak picks the top characters by lowest accuracy. Characters without
// a miss are never weak. Ties go to the slower average, then to character
// order.
func SelectWeak(rows []Row, top int) map[ascii.Char]struct{} {
	weakSet := map[ascii.Char]struct{}{}
	candidates := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Misses > 0 {
			candidates = append(candidates, row)
		}
	}
	if len(candidates) == 0 {
		return weakSet
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i].Accuracy(), candidates[j].Accuracy()
		if ai != aj {
			return ai < aj
		}
		if candidates[i].AvgMs != candidates[j].AvgMs {
			return candidates[i].AvgMs > candidates[j].AvgMs
		}
		return candidates[i].Char < candidates[j].Char
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, row := range candidates[:top] {
		weakSet[row.Char] = struct{}{}
	}
	return weakSet
}
