// Package history records resolved commands in a local SQLite
// database.
//
// Recording happens through the dispatcher's notification hook, after
// the URL has already been produced; a history failure can slow
// nothing down and break nothing.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/burrowsh/burrow/internal/dispatch"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	ts     TEXT NOT NULL,
	input  TEXT NOT NULL,
	url    TEXT NOT NULL,
	hit    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_history_ts ON history(ts);
`

// Entry is one recorded resolution.
type Entry struct {
	When  time.Time
	Input string
	URL   string
	Hit   bool
}

// Store is a SQLite-backed history recorder.
type Store struct {
	db         *sql.DB
	maxEntries int
}

// DefaultPath returns the history database location under the user
// data directory.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "burrow", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "burrow", "history.db")
}

// Open creates or opens the history database at path. maxEntries
// bounds retained rows; older rows are pruned on insert.
func Open(path string, maxEntries int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	var version int
	err = db.QueryRow(`SELECT version FROM schema_meta LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO schema_meta (version) VALUES (?)`, schemaVersion); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema version: %w", err)
		}
	} else if err != nil {
		db.Close()
		return nil, fmt.Errorf("read schema version: %w", err)
	}

	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Store{db: db, maxEntries: maxEntries}, nil
}

// Record inserts one resolution and prunes entries beyond the
// configured maximum.
func (s *Store) Record(ev dispatch.Event) error {
	hit := 0
	if ev.Hit {
		hit = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO history (ts, input, url, hit) VALUES (?, ?, ?, ?)`,
		ev.When.UTC().Format(time.RFC3339Nano), ev.Input, ev.URL, hit,
	)
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}

	_, err = s.db.Exec(
		`DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)`, s.maxEntries,
	)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT ts, input, url, hit FROM history ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var ts string
		var e Entry
		var hit int
		if err := rows.Scan(&ts, &e.Input, &e.URL, &hit); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.When, _ = time.Parse(time.RFC3339Nano, ts)
		e.Hit = hit != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Hook adapts the store to the dispatcher's notification hook.
func (s *Store) Hook() dispatch.NotifyFunc {
	return s.Record
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
