// Package storage keeps a journal of played sessions in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the session journal.
type Store struct {
	db *sql.DB
}

// Session modes.
const (
	ModeLocal = "local"
	ModeSSH   = "ssh"
)

// SessionRecord is one finished session.
type SessionRecord struct {
	ID           int64
	SessionID    string
	Player       string
	Mode         string // ModeLocal or ModeSSH
	EndReason    string // What delivered the final Back press
	StartedAt    time.Time
	Duration     time.Duration
	Ticks        int64
	DroppedTicks int64
	BoxesSpawned int64
	RowsCleared  int64
	Crushes      int64
	CreatedAt    time.Time
}

// Totals aggregates the whole journal.
type Totals struct {
	Sessions    int64
	Played      time.Duration
	Ticks       int64
	RowsCleared int64
	Crushes     int64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL,
			mode TEXT NOT NULL,
			end_reason TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			dropped_ticks INTEGER NOT NULL DEFAULT 0,
			boxes_spawned INTEGER NOT NULL DEFAULT 0,
			rows_cleared INTEGER NOT NULL DEFAULT 0,
			crushes INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession appends a finished session to the journal.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	if rec.SessionID == "" {
		return 0, errors.New("storage: session id is required")
	}

	res, err := s.db.Exec(
		`INSERT INTO sessions
		 (session_id, player, mode, end_reason, started_at, duration_ms,
		  ticks, dropped_ticks, boxes_spawned, rows_cleared, crushes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Player,
		rec.Mode,
		rec.EndReason,
		rec.StartedAt.UnixMilli(),
		rec.Duration.Milliseconds(),
		rec.Ticks,
		rec.DroppedTicks,
		rec.BoxesSpawned,
		rec.RowsCleared,
		rec.Crushes,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const sessionColumns = `id, session_id, player, mode, end_reason, started_at, duration_ms,
	ticks, dropped_ticks, boxes_spawned, rows_cleared, crushes, created_at`

// RecentSessions returns the newest sessions first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SessionByID retrieves a session by its session id.
// Returns nil without an error when there is no such session.
func (s *Store) SessionByID(sessionID string) (*SessionRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE session_id = ?`,
		sessionID,
	)

	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Totals sums every session in the journal.
func (s *Store) Totals() (Totals, error) {
	var t Totals
	var playedMs int64
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(duration_ms), 0),
		        COALESCE(SUM(ticks), 0),
		        COALESCE(SUM(rows_cleared), 0),
		        COALESCE(SUM(crushes), 0)
		 FROM sessions`,
	).Scan(&t.Sessions, &playedMs, &t.Ticks, &t.RowsCleared, &t.Crushes)
	if err != nil {
		return Totals{}, fmt.Errorf("storage: cannot query totals: %w", err)
	}

	t.Played = time.Duration(playedMs) * time.Millisecond
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (SessionRecord, error) {
	var rec SessionRecord
	var startedMs, durationMs int64
	var createdAt any

	err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.Player,
		&rec.Mode,
		&rec.EndReason,
		&startedMs,
		&durationMs,
		&rec.Ticks,
		&rec.DroppedTicks,
		&rec.BoxesSpawned,
		&rec.RowsCleared,
		&rec.Crushes,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	rec.StartedAt = time.UnixMilli(startedMs)
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	rec.CreatedAt = parseTimestamp(createdAt)
	return rec, nil
}

// parseTimestamp handles both time.Time and string values from the driver.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
