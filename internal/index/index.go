// Package index keeps a local SQLite catalog of scaffolded projects.
//
// The catalog is a convenience for listing and health checks; project
// folders and their metadata.json stay the source of truth.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/raphi011/folio/internal/scaffold"
	"github.com/raphi011/folio/internal/schema"
)

// ErrNotFound is returned by Get when no entry has the given id.
var ErrNotFound = errors.New("project not in index")

// Entry is one cataloged project.
type Entry struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Organization  string    `json:"organization,omitempty"`
	WorkType      string    `json:"workType,omitempty"`
	Year          string    `json:"year,omitempty"`
	Status        string    `json:"status,omitempty"`
	SchemaVersion string    `json:"schemaVersion"`
	Path          string    `json:"path"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Index is a handle to the catalog database.
type Index struct {
	db   *sql.DB
	path string
}

const createTable = `CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	organization TEXT NOT NULL DEFAULT '',
	work_type TEXT NOT NULL DEFAULT '',
	year TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	schema_version TEXT NOT NULL,
	path TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// Open opens (creating if needed) the catalog at path.
func Open(path string) (*Index, error) {
	if path == "" {
		return nil, errors.New("index path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// one writer at a time; the CLI is short-lived
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create projects table: %w", err)
	}
	return &Index{db: db, path: path}, nil
}

// Path returns the database file path.
func (ix *Index) Path() string { return ix.path }

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Record inserts or replaces e.
func (ix *Index) Record(ctx context.Context, e Entry) error {
	_, err := ix.db.ExecContext(ctx, `INSERT INTO projects
		(id, title, organization, work_type, year, status, schema_version, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			organization = excluded.organization,
			work_type = excluded.work_type,
			year = excluded.year,
			status = excluded.status,
			schema_version = excluded.schema_version,
			path = excluded.path,
			created_at = excluded.created_at`,
		e.ID, e.Title, e.Organization, e.WorkType, e.Year, e.Status,
		e.SchemaVersion, e.Path, e.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record %s: %w", e.ID, err)
	}
	return nil
}

// List returns all entries, newest first (ties broken by id).
func (ix *Index) List(ctx context.Context) ([]Entry, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT
		id, title, organization, work_type, year, status, schema_version, path, created_at
		FROM projects ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return entries, nil
}

// Get returns the entry for id, or ErrNotFound.
func (ix *Index) Get(ctx context.Context, id string) (Entry, error) {
	row := ix.db.QueryRowContext(ctx, `SELECT
		id, title, organization, work_type, year, status, schema_version, path, created_at
		FROM projects WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return e, err
}

// Remove deletes the entry for id. Removing a missing id is not an error.
func (ix *Index) Remove(ctx context.Context, id string) error {
	if _, err := ix.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var created string
	if err := s.Scan(&e.ID, &e.Title, &e.Organization, &e.WorkType, &e.Year,
		&e.Status, &e.SchemaVersion, &e.Path, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scan project: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		e.CreatedAt = t
	}
	return e, nil
}

// FromSummary builds an entry from a successful scaffold. Both schema
// versions are understood.
func FromSummary(s *scaffold.Summary) Entry {
	return FromRecord(s.ID, s.Root, s.Record)
}

// FromRecord builds an entry from a metadata record stored at root.
func FromRecord(id, root string, rec schema.Record) Entry {
	e := Entry{
		ID:            id,
		Title:         rec.String("title"),
		Organization:  firstNonEmpty(rec.String("organization"), rec.String("client")),
		WorkType:      firstNonEmpty(rec.String("workType"), rec.String("type")),
		Year:          rec.String("year"),
		Status:        rec.String("status"),
		SchemaVersion: rec.Version(),
		Path:          root,
	}
	created := firstNonEmpty(rec.String("createdAt"), rec.String("created_at"))
	if t, err := time.Parse(schema.TimestampLayout, created); err == nil {
		e.CreatedAt = t
	} else {
		e.CreatedAt = time.Now().UTC()
	}
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
