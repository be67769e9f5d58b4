// Copyright 2026 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store keeps notes pinned to grid cells in a SQLite content index.
package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"m4o.io/gridcode"
	"m4o.io/gridcode/model"
)

const memory = ":memory:"

var (
	// ErrEmptyNote is returned when adding a note without a body.
	ErrEmptyNote = errors.New("note has no body")

	// ErrDuplicateNote is returned when adding a note whose ID is taken.
	ErrDuplicateNote = errors.New("note already exists")
)

// Store is a content index of notes. All methods are safe for concurrent
// use.
type Store struct {
	db    *sql.DB
	mu    sync.RWMutex
	codec *gridcode.Codec
}

// Note is a piece of content left at a place.
type Note struct {
	ID      string            `json:"id"`
	Code    gridcode.GridCode `json:"code"`
	Lat     model.Degrees     `json:"lat"`
	Lng     model.Degrees     `json:"lng"`
	Body    string            `json:"body"`
	Author  string            `json:"author,omitempty"`
	Created time.Time         `json:"created_at"`
}

// Coordinate returns where the note was left.
func (n Note) Coordinate() model.Coordinate {
	return model.Coordinate{Lat: n.Lat, Lng: n.Lng}
}

// NearNote is a note found by Near along with its distance, in metres, from
// the query centre.
type NearNote struct {
	Note
	Distance float64 `json:"distance"`
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the codec used to derive codes and cells. The default
// codec rejects out of range coordinates.
func WithCodec(c *gridcode.Codec) Option {
	return func(s *Store) {
		s.codec = c
	}
}

// Open opens the index at dbPath, creating its tables if needed. The path
// ":memory:" opens an in-memory index.
func Open(dbPath string, opts ...Option) (*Store, error) {
	connStr := dbPath
	if dbPath == memory {
		// every connection in the pool must see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == memory {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != memory {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db, codec: gridcode.NewCodec()}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		lat_index INTEGER NOT NULL,
		lng_index INTEGER NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		body TEXT NOT NULL,
		author TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notes_cell ON notes(lat_index, lng_index);
	CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Close()
}

// prepare fills in the derived fields of n: its code from its coordinate, a
// fresh ID and creation time when missing.
func (s *Store) prepare(n *Note) (gridcode.Index, error) {
	if n.Body == "" {
		return gridcode.Index{}, ErrEmptyNote
	}

	idx, err := s.codec.Quantize(n.Coordinate())
	if err != nil {
		return gridcode.Index{}, err
	}

	n.Code, err = s.codec.EncodeIndex(idx)
	if err != nil {
		return gridcode.Index{}, err
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	if n.Created.IsZero() {
		n.Created = time.Now()
	}

	n.Created = n.Created.UTC()

	return idx, nil
}

const insertNote = `
	INSERT OR IGNORE INTO notes (
		id, code, lat_index, lng_index, lat, lng, body, author, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, e execer, n Note, idx gridcode.Index) (bool, error) {
	result, err := e.ExecContext(ctx, insertNote,
		n.ID,
		n.Code.String(),
		idx.Lat,
		idx.Lng,
		float64(n.Lat),
		float64(n.Lng),
		n.Body,
		n.Author,
		n.Created,
	)
	if err != nil {
		return false, fmt.Errorf("insert note %s: %w", n.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert note %s: %w", n.ID, err)
	}

	return affected > 0, nil
}

// Add stores n, deriving its code from its coordinate, and returns the note
// as stored. Adding a note whose ID is already present fails with
// ErrDuplicateNote and leaves the stored note untouched.
func (s *Store) Add(ctx context.Context, n Note) (Note, error) {
	idx, err := s.prepare(&n)
	if err != nil {
		return Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := insert(ctx, s.db, n, idx)
	if err != nil {
		return Note{}, err
	}

	if !added {
		return Note{}, fmt.Errorf("%w: %s", ErrDuplicateNote, n.ID)
	}

	return n, nil
}

// Import stores notes in a single transaction, returning how many were new.
// Notes whose ID is already present are skipped. Codes are recomputed from
// each note's coordinate.
func (s *Store) Import(ctx context.Context, notes []Note) (int, error) {
	if len(notes) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}

	count := 0

	for _, n := range notes {
		idx, err := s.prepare(&n)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("import note %q: %w", n.ID, err)
		}

		added, err := insert(ctx, tx, n, idx)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}

		if added {
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	if skipped := len(notes) - count; skipped > 0 {
		slog.Debug("skipped existing notes", "skipped", skipped, "imported", count)
	}

	return count, nil
}

const selectNotes = `
	SELECT id, code, lat_index, lng_index, lat, lng, body, author, created_at
	FROM notes
`

type row struct {
	Note
	latIndex uint32
	lngIndex uint32
}

func scanRows(rows *sql.Rows) ([]row, error) {
	defer rows.Close()

	var out []row

	for rows.Next() {
		var (
			r        row
			code     string
			lat, lng float64
			author   sql.NullString
		)

		if err := rows.Scan(&r.ID, &code, &r.latIndex, &r.lngIndex, &lat, &lng, &r.Body, &author, &r.Created); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}

		r.Code = gridcode.GridCode(code)
		r.Lat = model.Degrees(lat)
		r.Lng = model.Degrees(lng)
		r.Author = author.String
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return out, nil
}

func (s *Store) query(ctx context.Context, where string, args ...any) ([]row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectNotes+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}

	return scanRows(rows)
}

func notesOf(rows []row) []Note {
	notes := make([]Note, len(rows))
	for i, r := range rows {
		notes[i] = r.Note
	}

	return notes
}

// All returns every note, newest first.
func (s *Store) All(ctx context.Context) ([]Note, error) {
	rows, err := s.query(ctx, "ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}

	return notesOf(rows), nil
}

// ByCode returns the notes in the cell named by code, newest first. Notes
// are matched on the cell, so a note in any sub-cell of it is returned.
func (s *Store) ByCode(ctx context.Context, code string) ([]Note, error) {
	idx, err := s.codec.Index(code)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, "WHERE lat_index = ? AND lng_index = ? ORDER BY created_at DESC, id", idx.Lat, idx.Lng)
	if err != nil {
		return nil, err
	}

	return notesOf(rows), nil
}

type cell struct {
	lat, lng uint32
}

// Near returns the notes in the cells within radius metres of center,
// nearest first.
func (s *Store) Near(ctx context.Context, center model.Coordinate, radius float64) ([]NearNote, error) {
	codes, err := s.codec.Within(center, radius)
	if err != nil {
		return nil, err
	}

	cells := make(map[cell]struct{}, codes.Len())
	minLat, maxLat := uint32(gridcode.LatitudeBins), uint32(0)

	for code := range codes {
		idx, err := s.codec.Index(code.String())
		if err != nil {
			return nil, err
		}

		cells[cell{idx.Lat, idx.Lng}] = struct{}{}
		minLat = min(minLat, idx.Lat)
		maxLat = max(maxLat, idx.Lat)
	}

	// the latitude band is contiguous; longitude may wrap, so it is
	// filtered here rather than in SQL
	rows, err := s.query(ctx, "WHERE lat_index BETWEEN ? AND ?", minLat, maxLat)
	if err != nil {
		return nil, err
	}

	var near []NearNote

	for _, r := range rows {
		if _, ok := cells[cell{r.latIndex, r.lngIndex}]; !ok {
			continue
		}

		near = append(near, NearNote{Note: r.Note, Distance: gridcode.Distance(center, r.Coordinate())})
	}

	slices.SortFunc(near, func(a, b NearNote) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.ID, b.ID))
	})

	return near, nil
}

// Count returns the number of notes in the index.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}

	return n, nil
}

// Delete removes the note with the given ID, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete note %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete note %s: %w", id, err)
	}

	return affected > 0, nil
}
