package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/tuichar/internal/ascii"
)

// Summary is the derived view of one character's history.
type Summary struct {
	Hits   int
	Misses int
	MinMs  int64
	MaxMs  int64
	AvgMs  int64
}

// Attempts returns Hits + Misses.
func (s Summary) Attempts() int {
	return s.Hits + s.Misses
}

// Accuracy returns the hit ratio, or 0 with no attempts.
func (s Summary) Accuracy() float64 {
	total := s.Attempts()
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Store is the append-only attempt log of one session. It is not safe for
// concurrent use; the owning session serializes access.
type Store struct {
	records map[ascii.Char][]Attempt
	hits    int
	misses  int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: map[ascii.Char][]Attempt{}}
}

// Restore builds a store from a snapshot. Attempts are copied, and negative
// hit durations are stored as 0 as in RecordHit.
func Restore(records map[ascii.Char][]Attempt) *Store {
	s := NewStore()
	for c, history := range records {
		for _, a := range history {
			if h, ok := a.(Hit); ok && h.ReactionMs < 0 {
				h.ReactionMs = 0
				a = h
			}
			s.append(c, a)
		}
	}
	return s
}

// RecordHit appends a hit. Negative durations are stored as 0.
func (s *Store) RecordHit(c ascii.Char, at time.Time, reactionMs int64) {
	if reactionMs < 0 {
		reactionMs = 0
	}
	s.append(c, Hit{Timestamp: at, ReactionMs: reactionMs})
}

// RecordMiss appends a miss.
func (s *Store) RecordMiss(c ascii.Char, at time.Time) {
	s.append(c, Miss{Timestamp: at})
}

func (s *Store) append(c ascii.Char, a Attempt) {
	if s.records == nil {
		s.records = map[ascii.Char][]Attempt{}
	}
	s.records[c] = append(s.records[c], a)
	if _, ok := a.(Hit); ok {
		s.hits++
	} else {
		s.misses++
	}
}

// TotalHits returns the number of hits across all characters.
func (s *Store) TotalHits() int {
	return s.hits
}

// TotalMisses returns the number of misses across all characters.
func (s *Store) TotalMisses() int {
	return s.misses
}

// History returns a copy of the attempts recorded for c.
func (s *Store) History(c ascii.Char) []Attempt {
	history := s.records[c]
	if len(history) == 0 {
		return nil
	}
	out := make([]Attempt, len(history))
	copy(out, history)
	return out
}

// SummaryFor summarizes c. A character without history has a zero summary.
func (s *Store) SummaryFor(c ascii.Char) Summary {
	return summarize(s.records[c])
}

func summarize(history []Attempt) Summary {
	var sum Summary
	var totalMs int64
	for _, a := range history {
		ms, ok := ReactionMs(a)
		if !ok {
			continue
		}
		if sum.Hits == 0 || ms < sum.MinMs {
			sum.MinMs = ms
		}
		if ms > sum.MaxMs {
			sum.MaxMs = ms
		}
		totalMs += ms
		sum.Hits++
	}
	sum.Misses = len(history) - sum.Hits
	if sum.Hits > 0 {
		sum.AvgMs = int64(math.Floor(float64(totalMs) / float64(sum.Hits)))
	}
	return sum
}

// Chars returns the characters with at least one attempt, in order.
func (s *Store) Chars() []ascii.Char {
	chars := make([]ascii.Char, 0, len(s.records))
	for c, history := range s.records {
		if len(history) > 0 {
			chars = append(chars, c)
		}
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Less(chars[j]) })
	return chars
}

// ReactionTrend returns hit durations across all characters in timestamp order.
func (s *Store) ReactionTrend() []int64 {
	var hits []Hit
	for _, c := range s.Chars() {
		for _, a := range s.records[c] {
			if h, ok := a.(Hit); ok {
				hits = append(hits, h)
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Timestamp.Before(hits[j].Timestamp)
	})
	out := make([]int64, len(hits))
	for i, h := range hits {
		out[i] = h.ReactionMs
	}
	return out
}

// Report builds the per-character report.
func (s *Store) Report() Report {
	chars := s.Chars()
	rows := make([]Row, 0, len(chars))
	for _, c := range chars {
		rows = append(rows, Row{Char: c, Summary: s.SummaryFor(c)})
	}
	return Report{
		Rows:        rows,
		TotalHits:   s.hits,
		TotalMisses: s.misses,
		Trend:       s.ReactionTrend(),
	}
}

// Snapshot returns a copy of the full attempt log.
func (s *Store) Snapshot() map[ascii.Char][]Attempt {
	out := make(map[ascii.Char][]Attempt, len(s.records))
	for c := range s.records {
		if h := s.History(c); len(h) > 0 {
			out[c] = h
		}
	}
	return out
}

// Reset discards all history.
func (s *Store) Reset() {
	s.records = map[ascii.Char][]Attempt{}
	s.hits = 0
	s.misses = 0
}

// MarshalJSON encodes the log as an object keyed by glyph.
func (s *Store) MarshalJSON() ([]byte, error) {
	out := make(map[ascii.Char][]attemptRecord, len(s.records))
	for c, history := range s.records {
		if len(history) == 0 {
			continue
		}
		recs := make([]attemptRecord, 0, len(history))
		for _, a := range history {
			recs = append(recs, encodeAttempt(a))
		}
		out[c] = recs
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the store contents with the decoded log.
func (s *Store) UnmarshalJSON(data []byte) error {
	var in map[ascii.Char][]attemptRecord
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	records := make(map[ascii.Char][]Attempt, len(in))
	for c, recs := range in {
		for _, rec := range recs {
			a, err := decodeAttempt(rec)
			if err != nil {
				return fmt.Errorf("failed to decode attempt for %q: %w", c, err)
			}
			records[c] = append(records[c], a)
		}
	}
	*s = *Restore(records)
	return nil
}
