// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/verte-zerg/adaptype/internal/model"
)

// Store wraps SQLite access for scores and session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Recovery describes a database file that could not be opened and was moved
// aside so a fresh one could take its place.
type Recovery struct {
	Cause   error
	MovedTo string
}

func (r *Recovery) Error() string {
	return fmt.Sprintf("database was unreadable (%v), moved to %s", r.Cause, r.MovedTo)
}

func (r *Recovery) Unwrap() error {
	return r.Cause
}

// OpenOrRecreate opens path like Open. When the file is not a readable SQLite
// database it is renamed to <path>.corrupt-<timestamp>, a fresh database is
// created, and the returned Recovery reports what happened. Other failures
// are returned as errors.
func OpenOrRecreate(path string) (*Store, *Recovery, error) {
	st, openErr := Open(path)
	if openErr == nil {
		return st, nil, nil
	}
	if !isCorrupt(openErr) {
		return nil, nil, openErr
	}
	movedTo := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405.000000000Z"))
	if rerr := os.Rename(path, movedTo); rerr != nil {
		return nil, nil, fmt.Errorf("failed to move corrupt db aside: %w", rerr)
	}
	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		if rerr := os.Rename(path+suffix, movedTo+suffix); rerr != nil && !os.IsNotExist(rerr) {
			return nil, nil, fmt.Errorf("failed to move corrupt db aside: %w", rerr)
		}
	}
	st, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	return st, &Recovery{Cause: openErr, MovedTo: movedTo}, nil
}

func isCorrupt(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return true
	}
	return false
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS char_scores (
			char TEXT PRIMARY KEY,
			weighted_misses REAL NOT NULL,
			attempts INTEGER NOT NULL,
			total_misses INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS score_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			highscore REAL NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			line_length INTEGER NOT NULL,
			typed INTEGER NOT NULL,
			misses INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			score_per_char REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, rounds, line_length, typed, misses, duration_ms, score_per_char)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.Rounds,
		stats.LineLength,
		stats.Typed,
		stats.Misses,
		stats.DurationMs,
		stats.ScorePerChar,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns session aggregates filtered by stats config, oldest
// first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, typed, misses, duration_ms, score_per_char
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Typed, &agg.Misses, &agg.DurationMs, &agg.ScorePerChar); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListCharScores returns every persisted character row.
func (s *Store) ListCharScores(ctx context.Context) ([]model.CharAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT char, weighted_misses, attempts, total_misses FROM char_scores`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Difficulty, &agg.Attempts, &agg.TotalMisses); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Reset clears the difficulty profile and highscore. With history set, the
// session log is cleared too.
func (s *Store) Reset(ctx context.Context, history bool) (err error) {
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
	stmts := []string{`DELETE FROM char_scores`, `DELETE FROM score_state`}
	if history {
		stmts = append(stmts, `DELETE FROM sessions`)
	}
	for _, stmt := range stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
