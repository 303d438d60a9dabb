// Package scores holds the per-character difficulty model and the highscore.
package scores

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultDecay is the EMA weight given to the newest observation.
	DefaultDecay = 0.2
	// DefaultInitial is the difficulty of a character never attempted.
	DefaultInitial = 0.5
	// DefaultHighscore is the highscore of a fresh store. Lower is better.
	DefaultHighscore = 1000.0
)

// ErrUnknownChar is returned when a character outside the declared set is
// recorded.
var ErrUnknownChar = errors.New("character not in declared set")

// Params tunes the learning update.
type Params struct {
	Decay   float64
	Initial float64
}

// DefaultParams returns the stock learning parameters.
func DefaultParams() Params {
	return Params{Decay: DefaultDecay, Initial: DefaultInitial}
}

// Validate checks that the parameters describe a usable EMA.
func (p Params) Validate() error {
	if p.Decay <= 0 || p.Decay > 1 || math.IsNaN(p.Decay) {
		return fmt.Errorf("decay must be in (0, 1], got %v", p.Decay)
	}
	if p.Initial < 0 || math.IsNaN(p.Initial) || math.IsInf(p.Initial, 0) {
		return fmt.Errorf("initial difficulty must be >= 0, got %v", p.Initial)
	}
	return nil
}

// Difficulty is the learned state of one character.
type Difficulty struct {
	WeightedMisses float64
	Attempts       int
	TotalMisses    int
}

// Ranked pairs a character with a ranking value.
type Ranked struct {
	Char  rune
	Value float64
}

// Store maps every declared character to its Difficulty. It is not safe for
// concurrent use.
type Store struct {
	params    Params
	order     []rune
	index     map[rune]int
	entries   []Difficulty
	highscore float64
}

// New returns a fresh store covering chars, in their declaration order.
// Duplicate characters keep their first position.
func New(chars []rune, params Params) *Store {
	s := &Store{
		params:    params,
		index:     make(map[rune]int, len(chars)),
		highscore: DefaultHighscore,
	}
	for _, r := range chars {
		if _, ok := s.index[r]; ok {
			continue
		}
		s.index[r] = len(s.order)
		s.order = append(s.order, r)
		s.entries = append(s.entries, Difficulty{WeightedMisses: params.Initial})
	}
	return s
}

// AddHit records one completed trial of ch that took misses wrong keystrokes.
func (s *Store) AddHit(ch rune, misses int) error {
	i, ok := s.index[ch]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChar, ch)
	}
	if misses < 0 {
		return fmt.Errorf("misses must be >= 0, got %d", misses)
	}
	e := &s.entries[i]
	e.Attempts++
	e.TotalMisses += misses
	e.WeightedMisses = (1-s.params.Decay)*e.WeightedMisses + s.params.Decay*float64(misses)
	return nil
}

// RecordSessionScore keeps the best (lowest) session score.
func (s *Store) RecordSessionScore(score float64) {
	if math.IsNaN(score) {
		return
	}
	if score < s.highscore {
		s.highscore = score
	}
}

// Highscore returns the best session score recorded so far.
func (s *Store) Highscore() float64 {
	return s.highscore
}

// Get returns the difficulty of ch.
func (s *Store) Get(ch rune) (Difficulty, bool) {
	i, ok := s.index[ch]
	if !ok {
		return Difficulty{}, false
	}
	return s.entries[i], true
}

// Chars returns the declared characters in declaration order.
func (s *Store) Chars() []rune {
	return append([]rune(nil), s.order...)
}

// RankedByDifficulty returns every declared character with its weighted
// misses, hardest first. Ties keep declaration order.
func (s *Store) RankedByDifficulty() []Ranked {
	return s.rank(func(d Difficulty) float64 {
		return d.WeightedMisses
	})
}

// RankedByMissRatio returns misses per attempt (with one phantom attempt),
// highest first. Ties keep declaration order.
func (s *Store) RankedByMissRatio() []Ranked {
	return s.rank(func(d Difficulty) float64 {
		return float64(d.TotalMisses) / float64(d.Attempts+1)
	})
}

// Preview returns up to n of the hardest characters.
func (s *Store) Preview(n int) []rune {
	ranked := s.RankedByDifficulty()
	if n < 0 || n > len(ranked) {
		n = len(ranked)
	}
	out := make([]rune, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].Char
	}
	return out
}

func (s *Store) rank(value func(Difficulty) float64) []Ranked {
	out := make([]Ranked, len(s.order))
	for i, r := range s.order {
		out[i] = Ranked{Char: r, Value: value(s.entries[i])}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}
