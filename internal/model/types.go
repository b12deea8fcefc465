// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Keyboard   bool
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	Export     bool
	DBPath     string
	LogLevel   string
	LogFile    string
}

// ReportConfig selects an archived session and an output format.
type ReportConfig struct {
	DBPath    string
	SessionID int64
	Format    string
	Out       string
}

// SessionAggregate summarizes an archived session.
type SessionAggregate struct {
	SessionID int64
	StartedAt time.Time
	EndedAt   time.Time
	Hits      int
	Misses    int
}

// DurationMs returns the session length.
func (s SessionAggregate) DurationMs() int64 {
	return s.EndedAt.Sub(s.StartedAt).Milliseconds()
}
