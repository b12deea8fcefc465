// Package session owns the stats store and reaction timer of one practice
// session and serializes every operation on them.
package session

import (
	"sync"
	"time"

	"github.com/verte-zerg/tuichar/internal/ascii"
	"github.com/verte-zerg/tuichar/internal/stats"
	"github.com/verte-zerg/tuichar/internal/timer"
)

// Picker supplies prompt characters.
type Picker interface {
	Pick() ascii.Char
}

// WeakPicker can bias selection toward a set of characters.
type WeakPicker interface {
	Picker
	PickWeighted(weakSet map[ascii.Char]struct{}, factor float64) ascii.Char
}

// Verdict is the outcome of one Submit call.
type Verdict struct {
	Hit        bool
	Char       ascii.Char
	ReactionMs int64
	// Next is the prompt shown after the verdict.
	Next ascii.Char
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for timestamps and the reaction timer.
func WithClock(clock timer.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithWeakFocus biases prompts toward the top weakest characters. It only
// applies when the picker implements WeakPicker.
func WithWeakFocus(top int, factor float64) Option {
	return func(s *Session) {
		s.focusWeak = true
		s.weakTop = top
		s.weakFactor = factor
	}
}

// Session is the state of one practice run.
type Session struct {
	mu sync.Mutex

	clock  timer.Clock
	picker Picker
	store  *stats.Store
	timer  *timer.Timer

	current   ascii.Char
	startedAt time.Time

	focusWeak  bool
	weakTop    int
	weakFactor float64
	weakSet    map[ascii.Char]struct{}
}

// New starts a session: it picks the first prompt and starts the timer.
func New(picker Picker, opts ...Option) *Session {
	s := &Session{
		clock:  timer.SystemClock,
		picker: picker,
		store:  stats.NewStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = timer.SystemClock
	}
	s.timer = timer.New(s.clock)
	s.startedAt = s.clock.Now()
	s.current = s.pick()
	s.timer.Start()
	return s
}

// Current returns the displayed prompt.
func (s *Session) Current() ascii.Char {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// StartedAt returns when the session, or its last reset, began.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// Next shows a new prompt and restarts the timer, without recording anything.
func (s *Session) Next() ascii.Char {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.pick()
	s.timer.Restart()
	return s.current
}

// Submit judges one keypress against the current prompt. A match records a
// hit with the elapsed time and advances the prompt; anything else records a
// miss and keeps it. The timer restarts after either verdict.
func (s *Session) Submit(r rune) Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := s.current
	now := s.clock.Now()
	v := Verdict{Char: want}
	if r == want.Rune() {
		s.timer.Stop()
		v.Hit = true
		v.ReactionMs = s.timer.ElapsedMs()
		s.store.RecordHit(want, now, v.ReactionMs)
		s.refreshWeakSet()
		s.current = s.pick()
	} else {
		s.store.RecordMiss(want, now)
		s.refreshWeakSet()
	}
	s.timer.Restart()
	v.Next = s.current
	return v
}

// RecordHit appends a hit for c.
func (s *Session) RecordHit(c ascii.Char, at time.Time, reactionMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.RecordHit(c, at, reactionMs)
	s.refreshWeakSet()
}

// RecordMiss appends a miss for c.
func (s *Session) RecordMiss(c ascii.Char, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.RecordMiss(c, at)
	s.refreshWeakSet()
}

// TotalHits returns the session hit count.
func (s *Session) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TotalHits()
}

// TotalMisses returns the session miss count.
func (s *Session) TotalMisses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TotalMisses()
}

// SummaryFor summarizes one character.
func (s *Session) SummaryFor(c ascii.Char) stats.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SummaryFor(c)
}

// Report builds a report from one consistent view of the store.
func (s *Session) Report() stats.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Report()
}

// Snapshot copies the attempt log.
func (s *Session) Snapshot() map[ascii.Char][]stats.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Reset clears all history, shows a new prompt and restarts the timer.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Reset()
	s.weakSet = nil
	s.startedAt = s.clock.Now()
	s.current = s.pick()
	s.timer.Restart()
}

// ElapsedMs reads the reaction timer.
func (s *Session) ElapsedMs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.ElapsedMs()
}

// TimerState reports the reaction timer state.
func (s *Session) TimerState() timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.State()
}

// StopTimer freezes the reaction timer.
func (s *Session) StopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Stop()
}

// RestartTimer restarts the reaction timer for the current prompt.
func (s *Session) RestartTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Restart()
}

// WeakSet returns the characters currently favoured by the picker.
func (s *Session) WeakSet() []ascii.Char {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ascii.Char, 0, len(s.weakSet))
	for _, c := range ascii.All() {
		if _, ok := s.weakSet[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *Session) pick() ascii.Char {
	if s.focusWeak && len(s.weakSet) > 0 {
		if wp, ok := s.picker.(WeakPicker); ok {
			return wp.PickWeighted(s.weakSet, s.weakFactor)
		}
	}
	return s.picker.Pick()
}

func (s *Session) refreshWeakSet() {
	if !s.focusWeak {
		return
	}
	s.weakSet = stats.SelectWeak(s.store.Report().Rows, s.weakTop)
}
