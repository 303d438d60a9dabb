// Package model defines shared data structures.
package model

import "time"

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	// Top limits the difficulty table; zero shows every char.
	Top int
}

// SessionStats captures a completed practice session.
type SessionStats struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Rounds       int
	LineLength   int
	Typed        int
	Misses       int
	DurationMs   int64
	ScorePerChar float64
}

// CharAggregate is one persisted difficulty row.
type CharAggregate struct {
	Char        string
	Difficulty  float64
	Attempts    int
	TotalMisses int
}

// MissRatio returns misses per attempt with the +1 smoothing used for
// ranking.
func (c CharAggregate) MissRatio() float64 {
	return float64(c.TotalMisses) / float64(c.Attempts+1)
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID    int64
	EndedAt      time.Time
	Typed        int
	Misses       int
	DurationMs   int64
	ScorePerChar float64
}

// Accuracy returns the share of keystrokes that hit the target.
func (s SessionAggregate) Accuracy() float64 {
	total := s.Typed + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Typed) / float64(total)
}

// CPM returns correct characters per minute.
func (s SessionAggregate) CPM() float64 {
	if s.DurationMs <= 0 {
		return 0
	}
	return float64(s.Typed) / (float64(s.DurationMs) / 60000.0)
}
