// Package store archives finished sessions in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tuichar/internal/ascii"
	"github.com/verte-zerg/tuichar/internal/model"
	"github.com/verte-zerg/tuichar/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoSessions is returned when the archive is empty.
var ErrNoSessions = errors.New("no archived sessions")

// Store wraps SQLite access for archived sessions.
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

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			hits INTEGER NOT NULL,
			misses INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			session_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			at TEXT NOT NULL,
			reaction_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, char, seq)
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

// InsertSession stores a finished session and its attempt log.
func (s *Store) InsertSession(ctx context.Context, startedAt, endedAt time.Time, records map[ascii.Char][]stats.Attempt) (id int64, err error) {
	hits, misses := 0, 0
	for _, history := range records {
		for _, a := range history {
			if _, ok := stats.ReactionMs(a); ok {
				hits++
			} else {
				misses++
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, hits, misses) VALUES (?, ?, ?, ?)`,
		startedAt.Format(time.RFC3339Nano),
		endedAt.Format(time.RFC3339Nano),
		hits,
		misses,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(records) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO attempts (session_id, char, seq, kind, at, reaction_ms) VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for c, history := range records {
			for seq, a := range history {
				ms, _ := stats.ReactionMs(a)
				if _, err = stmt.ExecContext(ctx, id, c.String(), seq, stats.Kind(a), a.At().Format(time.RFC3339Nano), ms); err != nil {
					return 0, err
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns archived sessions, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]model.SessionAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, hits, misses FROM sessions ORDER BY ended_at ASC, id ASC`)
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
		var startedAt, endedAt string
		if err := rows.Scan(&agg.SessionID, &startedAt, &endedAt, &agg.Hits, &agg.Misses); err != nil {
			return nil, err
		}
		if agg.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if agg.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// LatestSessionID returns the most recently ended session.
func (s *Store) LatestSessionID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM sessions ORDER BY ended_at DESC, id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoSessions
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LoadAttempts returns the attempt log of one session in recorded order.
func (s *Store) LoadAttempts(ctx context.Context, sessionID int64) (map[ascii.Char][]stats.Attempt, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, sessionID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("session %d not found", sessionID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT char, kind, at, reaction_ms FROM attempts WHERE session_id = ? ORDER BY char, seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[ascii.Char][]stats.Attempt{}
	for rows.Next() {
		var glyph, kind, at string
		var ms int64
		if err := rows.Scan(&glyph, &kind, &at, &ms); err != nil {
			return nil, err
		}
		c, err := ascii.Parse(glyph)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", sessionID, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		a, err := stats.NewAttempt(kind, ts, ms)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", sessionID, err)
		}
		result[c] = append(result[c], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
