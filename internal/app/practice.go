// Package app wires the practice session to storage, input and display.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"golang.org/x/text/encoding"

	"github.com/verte-zerg/adaptype/internal/charset"
	"github.com/verte-zerg/adaptype/internal/generator"
	"github.com/verte-zerg/adaptype/internal/input"
	"github.com/verte-zerg/adaptype/internal/logging"
	"github.com/verte-zerg/adaptype/internal/model"
	"github.com/verte-zerg/adaptype/internal/scores"
	"github.com/verte-zerg/adaptype/internal/stats"
	"github.com/verte-zerg/adaptype/internal/store"
	"github.com/verte-zerg/adaptype/internal/trainer"
)

// ReportSize is how many characters the exit report lists.
const ReportSize = 10

// Options configures one practice run.
type Options struct {
	Trainer    trainer.Config
	Scoring    scores.Params
	Charset    charset.Options
	PoolFactor int
	// Seed drives line generation; zero seeds from the clock.
	Seed     int64
	Encoding encoding.Encoding

	Store *store.Store
	// StoreRecovery is set when the database file was unreadable and a fresh
	// one was created in its place.
	StoreRecovery error
	Source        input.Source
	Display       trainer.Display
	Logger        *logging.Logger
	Clock         func() time.Time
}

// Outcome is what a run leaves behind for the caller to report once the
// terminal is restored.
type Outcome struct {
	Session trainer.SessionResult
	// LoadErr is set when saved scores could not be restored and the run
	// started from a fresh profile.
	LoadErr error
	// SaveErr is set when the scores could not be written back.
	SaveErr error
	Hardest []stats.DifficultyRow
}

// Validate rejects options that cannot produce a session, including
// characters the decoder could never return in the configured encoding.
func (o Options) Validate() error {
	_, err := o.buildCharset()
	return err
}

func (o Options) buildCharset() (*charset.Set, error) {
	set, err := charset.New(o.Charset)
	if err != nil {
		return nil, fmt.Errorf("failed to build charset: %w", err)
	}
	if err := input.CheckTypeable(o.Encoding, set.Chars()); err != nil {
		return nil, err
	}
	if err := o.Scoring.Validate(); err != nil {
		return nil, err
	}
	if err := o.Trainer.Validate(); err != nil {
		return nil, err
	}
	if o.PoolFactor < 0 {
		return nil, fmt.Errorf("pool factor must be >= 0")
	}
	return set, nil
}

// Run plays one session. Scores are saved on every exit path, including
// cancel and input errors; a save failure is returned even when the session
// itself succeeded.
func Run(ctx context.Context, opts Options) (out Outcome, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	set, err := opts.buildCharset()
	if err != nil {
		return out, err
	}

	if opts.StoreRecovery != nil {
		out.LoadErr = opts.StoreRecovery
		logger.Warn("database recreated", "error", opts.StoreRecovery)
	}
	book, loadErr := opts.Store.LoadScores(ctx, set.Chars(), opts.Scoring)
	if loadErr != nil {
		out.LoadErr = errors.Join(out.LoadErr, loadErr)
		logger.Warn("starting from a fresh score profile", "error", loadErr)
	} else {
		logger.Info("scores loaded", "chars", len(set.Chars()), "highscore", book.Highscore())
	}

	defer func() {
		// Background context: the run context may already be canceled.
		if serr := opts.Store.SaveScores(context.Background(), book); serr != nil {
			logger.Error("failed to save scores", "error", serr)
			out.SaveErr = serr
			err = errors.Join(err, fmt.Errorf("failed to save scores: %w", serr))
			return
		}
		out.Hardest = hardest(book, ReportSize)
		logger.Debug("scores saved", "highscore", book.Highscore())
	}()

	rnd := rand.New(rand.NewSource(seedOf(opts.Seed)))
	gen := generator.NewWithRand(rnd, book, set.Base(), opts.PoolFactor)
	dec := input.NewDecoder(opts.Source, opts.Encoding)
	ctrl := trainer.NewController(opts.Trainer, gen, dec, book, set, opts.Display)
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	ctrl.SetClock(clock)

	res, runErr := ctrl.RunSession(ctx)
	out.Session = res
	logger.Info("session finished",
		"result", res.Result.String(),
		"rounds", res.Rounds,
		"typed", res.Typed,
		"misses", res.Misses,
		"score_per_char", res.ScorePerChar,
		"highscore", res.Highscore,
	)
	if runErr != nil {
		logger.Warn("session ended with error", "error", runErr)
		return out, runErr
	}

	if res.Result == trainer.Completed && res.HasScore {
		id, ierr := opts.Store.InsertSession(ctx, sessionStats(opts.Trainer, res))
		if ierr != nil {
			return out, fmt.Errorf("failed to save session: %w", ierr)
		}
		logger.Debug("session stored", "id", id)
	}
	return out, nil
}

// Failure returns the error the caller should report for a finished run. A
// canceled read is a normal exit, but a failed save is always reported.
func Failure(out Outcome, runErr error) error {
	if runErr != nil && !input.IsCanceled(runErr) {
		return runErr
	}
	if out.SaveErr != nil {
		return fmt.Errorf("failed to save scores: %w", out.SaveErr)
	}
	return nil
}

func sessionStats(cfg trainer.Config, res trainer.SessionResult) model.SessionStats {
	return model.SessionStats{
		StartedAt:    res.StartedAt,
		EndedAt:      res.EndedAt,
		Rounds:       res.Rounds,
		LineLength:   cfg.LineLength,
		Typed:        res.Typed,
		Misses:       res.Misses,
		DurationMs:   res.Elapsed().Milliseconds(),
		ScorePerChar: res.ScorePerChar,
	}
}

func hardest(book *scores.Store, n int) []stats.DifficultyRow {
	aggs := make([]model.CharAggregate, 0, n)
	for _, r := range book.RankedByDifficulty() {
		if len(aggs) == n {
			break
		}
		d, _ := book.Get(r.Char)
		aggs = append(aggs, model.CharAggregate{
			Char:        string(r.Char),
			Difficulty:  d.WeightedMisses,
			Attempts:    d.Attempts,
			TotalMisses: d.TotalMisses,
		})
	}
	return stats.DifficultyRows(aggs)
}

func seedOf(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// WriteReport prints the exit report: load warnings, the session verdict and
// the hardest characters.
func WriteReport(w io.Writer, out Outcome) error {
	if out.LoadErr != nil {
		if _, err := fmt.Fprintf(w, "warning: saved scores were unreadable, started fresh: %v\n", out.LoadErr); err != nil {
			return err
		}
	}
	s := out.Session
	line := fmt.Sprintf("Session %s: %d rounds, %d typed, %d misses", s.Result, s.Rounds, s.Typed, s.Misses)
	if s.HasScore {
		line += fmt.Sprintf(", %.3f s/char", s.ScorePerChar)
	}
	if _, err := fmt.Fprintf(w, "%s\nHighscore: %.3f s/char\n\n", line, s.Highscore); err != nil {
		return err
	}
	if len(out.Hardest) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Hardest characters"); err != nil {
		return err
	}
	return stats.RenderDifficultyTable(w, out.Hardest, 0)
}
