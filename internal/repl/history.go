package repl

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// History persists accepted REPL lines across sessions.
type History interface {
	Append(line string) error
	Lines() ([]string, error)
	Close() error
}

// SQLiteHistory stores REPL history in a local sqlite database, keeping
// the teacher's modernc.org/sqlite dependency but giving it the genuine
// call site it lacked: a plain append-only log of accepted input lines.
// Lines reads the log back in insertion order; the REPL itself only
// appends to it and does not read it back on startup.
type SQLiteHistory struct {
	db *sql.DB
}

// OpenSQLiteHistory opens (creating if necessary) a history database at
// path.
func OpenSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		line TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &SQLiteHistory{db: db}, nil
}

func (h *SQLiteHistory) Append(line string) error {
	_, err := h.db.Exec(`INSERT INTO history (line) VALUES (?)`, line)
	if err != nil {
		return fmt.Errorf("appending history line: %w", err)
	}
	return nil
}

func (h *SQLiteHistory) Lines() ([]string, error) {
	rows, err := h.db.Query(`SELECT line FROM history ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}
