package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bundles (
	run_id   TEXT    NOT NULL,
	analysis TEXT    NOT NULL,
	sequence INTEGER NOT NULL,
	saved_at TEXT    NOT NULL,
	data     BLOB    NOT NULL,
	PRIMARY KEY (run_id, analysis)
);
CREATE INDEX IF NOT EXISTS idx_bundles_sequence ON bundles(sequence);
`

// SQLiteStore keeps bundles in a SQLite file. A single connection is used,
// so ":memory:" works for tests.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save implements Store. Every save, including a replacement, takes the
// next sequence number.
func (s *SQLiteStore) Save(runID, analysis string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.Exec(`
		INSERT INTO bundles (run_id, analysis, sequence, saved_at, data)
		VALUES (?, ?, (SELECT COALESCE(MAX(sequence), 0) + 1 FROM bundles), ?, ?)
		ON CONFLICT(run_id, analysis) DO UPDATE SET
			sequence = (SELECT MAX(sequence) + 1 FROM bundles),
			saved_at = excluded.saved_at,
			data = excluded.data
	`, runID, analysis, time.Now().UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("save bundle %s/%s: %w", runID, analysis, err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(runID, analysis string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM bundles WHERE run_id = ? AND analysis = ?`,
		runID, analysis).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bundle %s/%s: %w", runID, analysis, err)
	}
	return data, nil
}

// List implements Store.
func (s *SQLiteStore) List(runID string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT analysis, sequence, saved_at, LENGTH(data)
		FROM bundles WHERE run_id = ? ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		info := Info{RunID: runID}
		var savedAt string
		if err := rows.Scan(&info.Analysis, &info.Sequence, &savedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan bundle info: %w", err)
		}
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bundles: %w", err)
	}
	return infos, nil
}

// Runs implements Store. Runs are ordered by their first saved bundle.
func (s *SQLiteStore) Runs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT run_id FROM bundles GROUP BY run_id ORDER BY MIN(sequence)`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete implements Store.
func (s *SQLiteStore) Delete(runID, analysis string) error {
	return s.exec("delete bundle", `DELETE FROM bundles WHERE run_id = ? AND analysis = ?`, runID, analysis)
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	return s.exec("delete run", `DELETE FROM bundles WHERE run_id = ?`, runID)
}

func (s *SQLiteStore) exec(op, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close implements Store. It is idempotent.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
