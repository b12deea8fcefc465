package stats

import (
	"fmt"
	"time"
)

// Attempt is one recorded answer to a prompt: either a Hit or a Miss.
type Attempt interface {
	At() time.Time
	isAttempt()
}

// Hit is a correct answer with its reaction time.
type Hit struct {
	Timestamp  time.Time
	ReactionMs int64
}

// Miss is an incorrect answer.
type Miss struct {
	Timestamp time.Time
}

// At implements Attempt.
func (h Hit) At() time.Time { return h.Timestamp }

// At implements Attempt.
func (m Miss) At() time.Time { return m.Timestamp }

func (Hit) isAttempt()  {}
func (Miss) isAttempt() {}

const (
	kindHit  = "hit"
	kindMiss = "miss"
)

// Kind returns "hit" or "miss".
func Kind(a Attempt) string {
	if _, ok := a.(Hit); ok {
		return kindHit
	}
	return kindMiss
}

type attemptRecord struct {
	Kind       string    `json:"kind"`
	At         time.Time `json:"at"`
	ReactionMs *int64    `json:"reaction_ms,omitempty"`
}

func encodeAttempt(a Attempt) attemptRecord {
	switch v := a.(type) {
	case Hit:
		ms := v.ReactionMs
		return attemptRecord{Kind: kindHit, At: v.Timestamp, ReactionMs: &ms}
	default:
		return attemptRecord{Kind: kindMiss, At: a.At()}
	}
}

func decodeAttempt(rec attemptRecord) (Attempt, error) {
	switch rec.Kind {
	case kindHit:
		if rec.ReactionMs == nil {
			return nil, fmt.Errorf("hit at %s has no reaction_ms", rec.At.Format(time.RFC3339))
		}
		if *rec.ReactionMs < 0 {
			return nil, fmt.Errorf("hit at %s has negative reaction_ms", rec.At.Format(time.RFC3339))
		}
		return Hit{Timestamp: rec.At, ReactionMs: *rec.ReactionMs}, nil
	case kindMiss:
		return Miss{Timestamp: rec.At}, nil
	default:
		return nil, fmt.Errorf("unknown attempt kind %q", rec.Kind)
	}
}

// NewAttempt builds an attempt from its stored kind. Used by persistence layers.
func NewAttempt(kind string, at time.Time, reactionMs int64) (Attempt, error) {
	rec := attemptRecord{Kind: kind, At: at}
	if kind == kindHit {
		rec.ReactionMs = &reactionMs
	}
	return decodeAttempt(rec)
}

// ReactionMs returns the duration of a hit and false for a miss.
func ReactionMs(a Attempt) (int64, bool) {
	if h, ok := a.(Hit); ok {
		return h.ReactionMs, true
	}
	return 0, false
}
