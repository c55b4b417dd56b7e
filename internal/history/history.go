// Package history records completed transpositions in a SQLite database.
//
// Recording is opt-in. Sheets themselves are never stored, only their
// BLAKE3 digests and the parameters of each run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/ChordShift/core/cas"
	"github.com/FocuswithJustin/ChordShift/core/errors"
	"github.com/FocuswithJustin/ChordShift/core/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transpositions (
	id            TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	input_digest  TEXT NOT NULL,
	output_digest TEXT NOT NULL,
	from_key      TEXT NOT NULL,
	to_key        TEXT NOT NULL,
	mode          TEXT NOT NULL,
	steps         INTEGER NOT NULL,
	lines         INTEGER NOT NULL,
	chords        INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transpositions_created ON transpositions(created_at);
`

// timeLayout is fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one recorded transposition.
type Entry struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	InputDigest  string    `json:"input_digest"`
	OutputDigest string    `json:"output_digest"`
	FromKey      string    `json:"from_key"`
	ToKey        string    `json:"to_key"`
	Mode         string    `json:"mode"`
	Steps        int       `json:"steps"`
	Lines        int       `json:"lines"`
	Chords       int       `json:"chords"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEntry fills digests for input and output text.
func NewEntry(source, input, output string) Entry {
	return Entry{
		Source:       source,
		InputDigest:  cas.Blake3String(input),
		OutputDigest: cas.Blake3String(output),
	}
}

// Store is a SQLite-backed history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores e, assigning an ID and timestamp when they are empty.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transpositions
			(id, source, input_digest, output_digest, from_key, to_key, mode, steps, lines, chords, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Source, e.InputDigest, e.OutputDigest, e.FromKey, e.ToKey, e.Mode,
		e.Steps, e.Lines, e.Chords, e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return Entry{}, fmt.Errorf("history: record: %w", err)
	}
	return e, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, input_digest, output_digest, from_key, to_key, mode, steps, lines, chords, created_at
		FROM transpositions WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, errors.NewNotFound("history entry", id)
	}
	return e, err
}

// List returns up to limit entries, newest first. A limit <= 0 lists all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, input_digest, output_digest, from_key, to_key, mode, steps, lines, chords, created_at
		FROM transpositions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var created string
	err := sc.Scan(&e.ID, &e.Source, &e.InputDigest, &e.OutputDigest, &e.FromKey, &e.ToKey,
		&e.Mode, &e.Steps, &e.Lines, &e.Chords, &created)
	if err != nil {
		return Entry{}, err
	}
	e.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return Entry{}, fmt.Errorf("history: bad timestamp %q: %w", created, err)
	}
	return e, nil
}
