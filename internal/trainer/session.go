package trainer

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/adaptype/internal/charset"
)

// Defaults for a practice session.
const (
	DefaultRounds     = 4
	DefaultLineLength = 30
	DefaultPrice      = 3.0
)

// Config shapes a session.
type Config struct {
	Rounds     int
	LineLength int
	// Price converts one miss into seconds of penalty.
	Price      float64
	PauseAtEnd bool
}

// DefaultConfig returns the stock session settings.
func DefaultConfig() Config {
	return Config{
		Rounds:     DefaultRounds,
		LineLength: DefaultLineLength,
		Price:      DefaultPrice,
	}
}

// Validate rejects settings that cannot produce a session.
func (c Config) Validate() error {
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be > 0")
	}
	if c.LineLength <= 0 {
		return fmt.Errorf("line length must be > 0")
	}
	if c.Price < 0 {
		return fmt.Errorf("price must be >= 0")
	}
	return nil
}

// LineGenerator produces practice lines.
type LineGenerator interface {
	Generate(length int) []rune
}

// SessionResult summarizes a finished or aborted session.
type SessionResult struct {
	Result       Result
	Rounds       int
	StartedAt    time.Time
	EndedAt      time.Time
	Typed        int
	Misses       int
	ScorePerChar float64
	HasScore     bool
	Highscore    float64
}

// Elapsed returns the session duration.
func (r SessionResult) Elapsed() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Controller runs fixed-size sessions.
type Controller struct {
	cfg     Config
	gen     LineGenerator
	input   CodePointReader
	book    ScoreBook
	set     *charset.Set
	display Display
	clock   func() time.Time
}

// NewController wires a session controller.
func NewController(cfg Config, gen LineGenerator, in CodePointReader, book ScoreBook, set *charset.Set, display Display) *Controller {
	if display == nil {
		display = NopDisplay{}
	}
	return &Controller{
		cfg:     cfg,
		gen:     gen,
		input:   in,
		book:    book,
		set:     set,
		display: display,
		clock:   time.Now,
	}
}

// SetClock replaces the wall clock.
func (c *Controller) SetClock(clock func() time.Time) {
	c.clock = clock
}

// RunSession plays up to cfg.Rounds lines. An aborted line ends the session
// without a score; only completed sessions can improve the highscore.
func (c *Controller) RunSession(ctx context.Context) (SessionResult, error) {
	c.display.ShowSummary(Summary{
		Highscore:         c.book.Highscore(),
		DifficultyPreview: previewString(c.book.Preview(PreviewSize)),
	})

	runner := NewRunner(c.input, c.book, c.set, c.display, c.cfg.Price, c.clock)
	runner.Start()
	res := SessionResult{Result: Completed, StartedAt: runner.Session().StartedAt}

	for round := 0; round < c.cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return c.collect(res, runner, Aborted), err
		}
		line := c.gen.Generate(c.cfg.LineLength)
		outcome, err := runner.RunLine(line)
		if err != nil {
			return c.collect(res, runner, Aborted), err
		}
		if outcome == Aborted {
			res.Result = Aborted
			break
		}
		res.Rounds++
	}

	res = c.collect(res, runner, res.Result)
	if res.Result == Completed {
		now := res.EndedAt
		if score, ok := runner.Session().ScorePerChar(now, c.cfg.Price); ok {
			res.ScorePerChar = score
			res.HasScore = true
			c.book.RecordSessionScore(score)
		}
	}
	res.Highscore = c.book.Highscore()
	c.display.ShowFinal(res)

	if c.cfg.PauseAtEnd && res.Result == Completed {
		if _, err := c.input.NextCodePoint(); err != nil {
			// The session is already recorded; a failed pause read only ends it early.
			_ = err
		}
	}
	return res, nil
}

func (c *Controller) collect(res SessionResult, runner *Runner, outcome Result) SessionResult {
	s := runner.Session()
	res.Result = outcome
	res.EndedAt = c.clock()
	res.Typed = s.Typed
	res.Misses = s.Misses
	res.Highscore = c.book.Highscore()
	return res
}
