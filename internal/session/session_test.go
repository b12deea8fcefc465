package session

import (
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/tuichar/internal/ascii"
	"github.com/verte-zerg/tuichar/internal/generator"
	"github.com/verte-zerg/tuichar/internal/timer"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type scriptPicker struct {
	chars []ascii.Char
	next  int
}

func (p *scriptPicker) Pick() ascii.Char {
	c := p.chars[p.next%len(p.chars)]
	p.next++
	return c
}

type weakRecorder struct {
	scriptPicker
	weighted int
	lastSet  map[ascii.Char]struct{}
}

func (p *weakRecorder) PickWeighted(weakSet map[ascii.Char]struct{}, _ float64) ascii.Char {
	p.weighted++
	p.lastSet = weakSet
	return p.Pick()
}

func newTestSession(chars string, opts ...Option) (*Session, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	picker := &scriptPicker{}
	for _, r := range chars {
		picker.chars = append(picker.chars, ascii.MustFromRune(r))
	}
	opts = append([]Option{WithClock(clock)}, opts...)
	return New(picker, opts...), clock
}

func TestSubmitHitRecordsElapsedAndAdvances(t *testing.T) {
	s, clock := newTestSession("ab")
	if s.Current() != 'a' {
		t.Fatalf("expected first prompt a, got %q", s.Current())
	}
	if s.TimerState() != timer.Running {
		t.Fatalf("expected running timer, got %s", s.TimerState())
	}
	clock.advance(420 * time.Millisecond)

	v := s.Submit('a')
	if !v.Hit || v.Char != 'a' || v.ReactionMs != 420 || v.Next != 'b' {
		t.Fatalf("unexpected verdict %+v", v)
	}
	if got := s.SummaryFor('a'); got.Hits != 1 || got.MinMs != 420 {
		t.Fatalf("unexpected summary %+v", got)
	}
	if s.ElapsedMs() != 0 || s.TimerState() != timer.Running {
		t.Fatalf("timer should restart after a hit")
	}
}

func TestSubmitMissKeepsPromptAndRestartsTimer(t *testing.T) {
	s, clock := newTestSession("ab")
	clock.advance(300 * time.Millisecond)

	v := s.Submit('x')
	if v.Hit || v.Char != 'a' || v.Next != 'a' {
		t.Fatalf("unexpected verdict %+v", v)
	}
	if s.ElapsedMs() != 0 {
		t.Fatalf("timer should restart after a miss")
	}
	clock.advance(150 * time.Millisecond)
	v = s.Submit('a')
	if !v.Hit || v.ReactionMs != 150 {
		t.Fatalf("expected hit measured from the miss, got %+v", v)
	}
	got := s.SummaryFor('a')
	if got.Hits != 1 || got.Misses != 1 {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestSubmitNonASCIIIsMiss(t *testing.T) {
	s, _ := newTestSession("a")
	for _, r := range []rune{' ', 'é', '\n'} {
		if v := s.Submit(r); v.Hit {
			t.Fatalf("expected %q to be a miss", r)
		}
	}
	if s.TotalMisses() != 3 || s.TotalHits() != 0 {
		t.Fatalf("unexpected totals %d/%d", s.TotalHits(), s.TotalMisses())
	}
}

func TestResetClearsHistory(t *testing.T) {
	s, clock := newTestSession("abc")
	s.Submit('a')
	s.Submit('x')
	clock.advance(time.Minute)
	s.Reset()

	if s.TotalHits() != 0 || s.TotalMisses() != 0 {
		t.Fatalf("expected empty session after reset")
	}
	if len(s.Report().Rows) != 0 {
		t.Fatalf("expected no rows after reset")
	}
	if !s.StartedAt().Equal(clock.now) {
		t.Fatalf("expected start time to move to reset time")
	}
	if s.Current() != 'c' {
		t.Fatalf("expected a new prompt after reset, got %q", s.Current())
	}
}

func TestDirectRecordAndTimerControls(t *testing.T) {
	s, clock := newTestSession("a")
	s.RecordHit('z', clock.now, 100)
	s.RecordMiss('z', clock.now)
	if got := s.SummaryFor('z'); got.Hits != 1 || got.Misses != 1 {
		t.Fatalf("unexpected summary %+v", got)
	}

	clock.advance(80 * time.Millisecond)
	s.StopTimer()
	clock.advance(time.Second)
	if s.ElapsedMs() != 80 {
		t.Fatalf("expected frozen 80ms, got %d", s.ElapsedMs())
	}
	s.RestartTimer()
	if s.ElapsedMs() != 0 || s.TimerState() != timer.Running {
		t.Fatalf("expected restarted timer")
	}
	if next := s.Next(); next != 'a' || s.TotalHits() != 1 {
		t.Fatalf("Next must not record attempts")
	}
}

func TestWeakFocusUsesWeightedPicker(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	picker := &weakRecorder{scriptPicker: scriptPicker{chars: []ascii.Char{'a', 'b'}}}
	s := New(picker, WithClock(clock), WithWeakFocus(1, 3))
	if picker.weighted != 0 {
		t.Fatalf("no weak set yet, expected uniform pick")
	}
	s.Submit('x')
	s.Submit('a')
	if picker.weighted != 1 {
		t.Fatalf("expected weighted pick after stats exist, got %d", picker.weighted)
	}
	if _, ok := picker.lastSet['a']; !ok || len(picker.lastSet) != 1 {
		t.Fatalf("expected weak set {a}, got %v", picker.lastSet)
	}
	if got := s.WeakSet(); len(got) != 1 || got[0] != 'a' {
		t.Fatalf("unexpected weak set %v", got)
	}
}

func TestWeakFocusIgnoresCleanHits(t *testing.T) {
	s, _ := newTestSession("abc", WithWeakFocus(8, 2))
	s.Submit('a')
	s.Submit('b')
	if got := s.WeakSet(); len(got) != 0 {
		t.Fatalf("clean hits must not enter the weak set, got %v", got)
	}
	s.Submit('x')
	if got := s.WeakSet(); len(got) != 1 || got[0] != 'c' {
		t.Fatalf("expected weak set [c], got %v", got)
	}
}

func TestConcurrentSubmitKeepsCountsConsistent(t *testing.T) {
	s := New(generator.NewWithSeed(9))
	var wg sync.WaitGroup
	const workers, perWorker = 8, 200
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s.Submit(s.Current().Rune())
				_ = s.Report()
			}
		}()
	}
	wg.Wait()
	if total := s.TotalHits() + s.TotalMisses(); total != workers*perWorker {
		t.Fatalf("expected %d attempts, got %d", workers*perWorker, total)
	}
}
