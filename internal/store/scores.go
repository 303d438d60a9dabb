package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/adaptype/internal/scores"
)

// LoadScores restores the score store for chars. It always returns a usable
// store: when the snapshot cannot be read or is corrupt, a fresh store is
// returned together with the error so the caller can report it.
func (s *Store) LoadScores(ctx context.Context, chars []rune, params scores.Params) (*scores.Store, error) {
	snap, err := s.readSnapshot(ctx)
	if err != nil {
		return scores.New(chars, params), fmt.Errorf("failed to read scores: %w", err)
	}
	restored, err := scores.Restore(chars, params, snap)
	if err != nil {
		return scores.New(chars, params), fmt.Errorf("failed to restore scores: %w", err)
	}
	return restored, nil
}

// SaveScores replaces the persisted snapshot with the full store.
func (s *Store) SaveScores(ctx context.Context, sc *scores.Store) (err error) {
	snap := sc.Snapshot()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM char_scores`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO char_scores (char, weighted_misses, attempts, total_misses) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, e := range snap.Entries {
		if _, err = stmt.ExecContext(ctx, string(e.Char), e.WeightedMisses, e.Attempts, e.TotalMisses); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO score_state (id, highscore, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET highscore = excluded.highscore, updated_at = excluded.updated_at`,
		snap.Highscore, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return tx.Commit()
}

// Highscore returns the persisted highscore, or the starting value when
// nothing was saved yet.
func (s *Store) Highscore(ctx context.Context) (float64, error) {
	highscore := scores.DefaultHighscore
	err := s.db.QueryRowContext(ctx, `SELECT highscore FROM score_state WHERE id = 1`).Scan(&highscore)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return highscore, nil
}

func (s *Store) readSnapshot(ctx context.Context) (scores.Snapshot, error) {
	highscore, err := s.Highscore(ctx)
	if err != nil {
		return scores.Snapshot{}, err
	}
	snap := scores.Snapshot{Highscore: highscore}

	rows, err := s.db.QueryContext(ctx,
		`SELECT char, weighted_misses, attempts, total_misses FROM char_scores`)
	if err != nil {
		return scores.Snapshot{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var ch string
		var e scores.Entry
		if err := rows.Scan(&ch, &e.WeightedMisses, &e.Attempts, &e.TotalMisses); err != nil {
			return scores.Snapshot{}, err
		}
		r, size := utf8.DecodeRuneInString(ch)
		if r == utf8.RuneError || size != len(ch) {
			return scores.Snapshot{}, fmt.Errorf("corrupt char key %q", ch)
		}
		e.Char = r
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return scores.Snapshot{}, err
	}
	return snap, nil
}
