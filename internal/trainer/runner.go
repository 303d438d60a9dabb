// Package trainer runs practice lines and sessions against the score store.
package trainer

import (
	"time"

	"github.com/verte-zerg/adaptype/internal/charset"
	"github.com/verte-zerg/adaptype/internal/input"
)

// Result is the outcome of a line or a session.
type Result int

const (
	Completed Result = iota
	Aborted
)

func (r Result) String() string {
	if r == Aborted {
		return "aborted"
	}
	return "completed"
}

// CodePointReader yields decoded keystrokes.
type CodePointReader interface {
	NextCodePoint() (rune, error)
}

// ScoreBook is the part of the score store the trainer mutates and reads.
type ScoreBook interface {
	AddHit(ch rune, misses int) error
	RecordSessionScore(score float64)
	Highscore() float64
	Preview(n int) []rune
}

// Session holds the live counters of one session.
type Session struct {
	StartedAt time.Time
	Misses    int
	Typed     int
}

// Elapsed returns the wall-clock time since the session started.
func (s Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// ScorePerChar returns (elapsed seconds + price*misses) / typed. It is
// undefined until at least one character has been typed.
func (s Session) ScorePerChar(now time.Time, price float64) (float64, bool) {
	if s.Typed <= 0 {
		return 0, false
	}
	penalized := s.Elapsed(now).Seconds() + price*float64(s.Misses)
	return penalized / float64(s.Typed), true
}

// Runner drives lines character by character. A target must be typed
// correctly before the next one is offered; every wrong keystroke is a miss.
type Runner struct {
	input   CodePointReader
	book    ScoreBook
	set     *charset.Set
	display Display
	price   float64
	clock   func() time.Time
	session Session
}

// NewRunner returns a Runner. A nil clock means time.Now.
func NewRunner(in CodePointReader, book ScoreBook, set *charset.Set, display Display, price float64, clock func() time.Time) *Runner {
	if clock == nil {
		clock = time.Now
	}
	if display == nil {
		display = NopDisplay{}
	}
	return &Runner{
		input:   in,
		book:    book,
		set:     set,
		display: display,
		price:   price,
		clock:   clock,
	}
}

// Start resets the session counters and the timer.
func (r *Runner) Start() {
	r.session = Session{StartedAt: r.clock()}
}

// Session returns a copy of the live counters.
func (r *Runner) Session() Session {
	return r.session
}

// RunLine runs one practice line. It returns Aborted as soon as the cancel
// key arrives; hits recorded before that are kept. A read error also aborts
// and is returned.
func (r *Runner) RunLine(line []rune) (Result, error) {
	glyphs := r.set.Annotate(line)
	for pos, target := range line {
		misses := 0
		for {
			r.publish(glyphs, pos)
			got, err := r.input.NextCodePoint()
			if err != nil {
				return Aborted, err
			}
			if got == input.Cancel {
				return Aborted, nil
			}
			if got == target {
				break
			}
			r.session.Misses++
			misses++
		}
		if err := r.book.AddHit(target, misses); err != nil {
			return Aborted, err
		}
		r.session.Typed++
	}
	r.publish(glyphs, len(line))
	return Completed, nil
}

func (r *Runner) publish(glyphs []charset.Glyph, cursor int) {
	now := r.clock()
	status := Status{
		Misses:            r.session.Misses,
		ElapsedSeconds:    int(r.session.Elapsed(now).Seconds()),
		Highscore:         r.book.Highscore(),
		DifficultyPreview: previewString(r.book.Preview(PreviewSize)),
	}
	status.ScorePerChar, status.HasScore = r.session.ScorePerChar(now, r.price)
	if cursor < len(glyphs) {
		status.Hint = charset.Hint(glyphs[cursor].Char)
	}
	r.display.ShowLine(glyphs, cursor)
	r.display.ShowStatus(status)
}
