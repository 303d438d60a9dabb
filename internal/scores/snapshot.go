package scores

import (
	"fmt"
	"math"
)

// Entry is one persisted character.
type Entry struct {
	Char rune
	Difficulty
}

// Snapshot is the persisted form of a Store.
type Snapshot struct {
	Highscore float64
	Entries   []Entry
}

// Snapshot copies the full store state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Highscore: s.highscore,
		Entries:   make([]Entry, len(s.order)),
	}
	for i, r := range s.order {
		snap.Entries[i] = Entry{Char: r, Difficulty: s.entries[i]}
	}
	return snap
}

// Restore builds a store over chars and overlays the snapshot. Entries for
// characters outside chars are dropped; characters missing from the snapshot
// keep their defaults. Corrupt values fail the whole restore.
func Restore(chars []rune, params Params, snap Snapshot) (*Store, error) {
	if !validFloat(snap.Highscore) {
		return nil, fmt.Errorf("corrupt highscore %v", snap.Highscore)
	}
	s := New(chars, params)
	s.highscore = snap.Highscore
	for _, e := range snap.Entries {
		if !validFloat(e.WeightedMisses) || e.Attempts < 0 || e.TotalMisses < 0 {
			return nil, fmt.Errorf("corrupt entry for %q", e.Char)
		}
		i, ok := s.index[e.Char]
		if !ok {
			continue
		}
		s.entries[i] = e.Difficulty
	}
	return s, nil
}

func validFloat(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
