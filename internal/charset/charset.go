// Package charset defines the practice character set, glyph kinds and hints.
package charset

import (
	"fmt"
	"strings"
)

const (
	// DefaultHomeRow is the home row used when none is configured.
	DefaultHomeRow = "aoeuidhtns"
	// DefaultAccented is the locale-specific accented set.
	DefaultAccented = "åÅäÄöÖ"

	lower   = "abcdefghijklmnopqrstuvwxyz"
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
	symbols = "!@#$%^&*(){}[]'\"=+\\|-_?.,;:~"
)

// Repetition weights of each group inside the base multiset.
const (
	homeRowWeight = 3
	lowerWeight   = 4
	upperWeight   = 2
	digitWeight   = 2
)

// controlKeys are practiced as Ctrl+letter. Ctrl-C is reserved for cancel,
// Ctrl-H/I/J/M collide with backspace, tab and enter.
var controlKeys = []rune{0x01, 0x02, 0x04, 0x05, 0x06, 0x0b, 0x0e, 0x10, 0x12, 0x17}

// Options selects the optional parts of the base set.
type Options struct {
	HomeRow  string
	Accented string
	Controls bool
}

// DefaultOptions returns the stock character set options.
func DefaultOptions() Options {
	return Options{
		HomeRow:  DefaultHomeRow,
		Accented: DefaultAccented,
		Controls: true,
	}
}

// Set is the base multiset together with its declaration order.
type Set struct {
	base     []rune
	order    []rune
	accented map[rune]struct{}
}

// New builds the base multiset. Repetition counts control baseline sampling
// frequency.
func New(opts Options) (*Set, error) {
	if strings.TrimSpace(opts.HomeRow) == "" {
		return nil, fmt.Errorf("home row must not be empty")
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(opts.HomeRow, homeRowWeight))
	b.WriteString(strings.Repeat(lower, lowerWeight))
	b.WriteString(strings.Repeat(upper, upperWeight))
	b.WriteString(strings.Repeat(digits, digitWeight))
	b.WriteString(symbols)
	if opts.Controls {
		b.WriteString(string(controlKeys))
	}
	b.WriteString(opts.Accented)

	s := &Set{
		base:     []rune(b.String()),
		accented: map[rune]struct{}{},
	}
	for _, r := range opts.Accented {
		s.accented[r] = struct{}{}
	}
	seen := make(map[rune]struct{}, len(s.base))
	for _, r := range s.base {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		s.order = append(s.order, r)
	}
	return s, nil
}

// Base returns a copy of the base multiset, repetitions included.
func (s *Set) Base() []rune {
	return append([]rune(nil), s.base...)
}

// Chars returns each distinct character once, in declaration order.
func (s *Set) Chars() []rune {
	return append([]rune(nil), s.order...)
}

// Kind classifies r for display.
func (s *Set) Kind(r rune) Kind {
	switch {
	case r == ' ':
		return KindSpace
	case isControl(r):
		return KindControl
	}
	if _, ok := s.accented[r]; ok {
		return KindAccented
	}
	if r > 0x7f {
		return KindAccented
	}
	return KindNormal
}

// Annotate pairs every character of a line with its kind.
func (s *Set) Annotate(line []rune) []Glyph {
	out := make([]Glyph, len(line))
	for i, r := range line {
		out[i] = Glyph{Char: r, Kind: s.Kind(r)}
	}
	return out
}
