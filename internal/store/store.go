// Package store maintains a small sqlite index of converted tapes so
// listing the library does not reparse every document.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jettrobinson87/the-tape/internal/tape"
)

// IndexFile is the index filename inside the tapes directory.
const IndexFile = "index.db"

// Entry is one indexed tape.
type Entry struct {
	Path       string
	Title      string
	RecordedAt string
	Duration   float64
	Steps      int
	Tools      []string
	Errors     int
	IndexedAt  time.Time
}

// Index wraps the sqlite database holding tape entries.
type Index struct {
	db *sql.DB
}

// Open opens (creating if needed) the index in the given tapes directory.
func Open(tapesDir string) (*Index, error) {
	db, err := sql.Open("sqlite", filepath.Join(tapesDir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("open tape index: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tapes (
		path TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		duration_seconds REAL NOT NULL,
		steps INTEGER NOT NULL,
		tools TEXT NOT NULL,
		errors INTEGER NOT NULL,
		indexed_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init tape index: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Record upserts the index row for a written tape.
func (ix *Index) Record(path string, doc *tape.Document) error {
	_, err := ix.db.Exec(`INSERT INTO tapes
		(path, title, recorded_at, duration_seconds, steps, tools, errors, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			recorded_at = excluded.recorded_at,
			duration_seconds = excluded.duration_seconds,
			steps = excluded.steps,
			tools = excluded.tools,
			errors = excluded.errors,
			indexed_at = excluded.indexed_at`,
		path,
		doc.Metadata.Title,
		doc.Metadata.RecordedAt,
		doc.Metadata.DurationSeconds,
		doc.Summary.Steps,
		strings.Join(doc.Summary.ToolsUsed, ","),
		doc.Summary.Errors,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("index tape %s: %w", filepath.Base(path), err)
	}
	return nil
}

// List returns indexed tapes, newest first by recorded_at.
func (ix *Index) List() ([]Entry, error) {
	rows, err := ix.db.Query(`SELECT path, title, recorded_at, duration_seconds,
		steps, tools, errors, indexed_at
		FROM tapes ORDER BY recorded_at DESC, path`)
	if err != nil {
		return nil, fmt.Errorf("query tape index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var tools, indexedAt string
		if err := rows.Scan(&e.Path, &e.Title, &e.RecordedAt, &e.Duration,
			&e.Steps, &tools, &e.Errors, &indexedAt); err != nil {
			return nil, fmt.Errorf("scan tape index row: %w", err)
		}
		if tools != "" {
			e.Tools = strings.Split(tools, ",")
		}
		e.IndexedAt, _ = time.Parse(time.RFC3339, indexedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tape index: %w", err)
	}

	return entries, nil
}
