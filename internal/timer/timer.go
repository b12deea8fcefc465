// Package timer provides the reaction-time stopwatch.
package timer

import "time"

// State is the stopwatch state.
type State int

const (
	NotStarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall time.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Timer measures the time between a prompt and its answer. Calls that are not
// legal in the current state are ignored.
type Timer struct {
	clock     Clock
	startedAt time.Time
	elapsedMs int64
	state     State
}

// New returns a timer in the NotStarted state. A nil clock uses SystemClock.
func New(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	return &Timer{clock: clock}
}

// NewStarted returns a running timer.
func NewStarted(clock Clock) *Timer {
	t := New(clock)
	t.Start()
	return t
}

// State returns the current state.
func (t *Timer) State() State {
	return t.state
}

// Start begins timing from NotStarted.
func (t *Timer) Start() {
	if t.state != NotStarted {
		return
	}
	t.startedAt = t.clock.Now()
	t.state = Running
}

// Stop freezes the elapsed time of a running timer.
func (t *Timer) Stop() {
	if t.state != Running {
		return
	}
	t.elapsedMs = t.sinceStart()
	t.state = Stopped
}

// ElapsedMs returns 0 before Start, the live value while running and the
// frozen value once stopped.
func (t *Timer) ElapsedMs() int64 {
	switch t.state {
	case Running:
		return t.sinceStart()
	case Stopped:
		return t.elapsedMs
	default:
		return 0
	}
}

// Reset returns the timer to NotStarted.
func (t *Timer) Reset() {
	t.startedAt = time.Time{}
	t.elapsedMs = 0
	t.state = NotStarted
}

// Restart resets and starts the timer.
func (t *Timer) Restart() {
	t.Reset()
	t.Start()
}

func (t *Timer) sinceStart() int64 {
	ms := t.clock.Now().Sub(t.startedAt).Milliseconds()
	// Wall time may step backwards.
	if ms < 0 {
		return 0
	}
	return ms
}
