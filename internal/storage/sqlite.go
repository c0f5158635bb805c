// Package storage maintains a SQLite index of publication records for
// ad-hoc querying. The .bib file stays the source of truth; the index is an
// ephemeral cache rebuilt from it on demand.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/fleury/bibsite/internal/publist"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS publications (
			key TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			type_rank INTEGER NOT NULL,
			type_label TEXT NOT NULL,
			year TEXT,
			doi TEXT,
			url TEXT,
			pdf TEXT,
			slides TEXT,
			poster TEXT,
			note TEXT,
			authorizer TEXT,
			text TEXT NOT NULL,
			bibtex TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_publications_year ON publications(year);
		CREATE INDEX IF NOT EXISTS idx_publications_rank ON publications(type_rank);
	`

	_, err := db.Exec(schema)
	return err
}

// Rebuild replaces the index contents with the given records. Position
// preserves the source order so queries can reproduce it.
func (d *DB) Rebuild(records []publist.Record) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM publications`); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO publications
			(key, position, type_rank, type_label, year, doi, url, pdf,
			 slides, poster, note, authorizer, text, bibtex)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.Exec(r.Key, i, r.Entry.Rank, r.Entry.Label, r.Year,
			r.DOI, r.URL, r.PDF, r.Slides, r.Poster, r.Note, r.Authorizer,
			r.Text, r.BibTeX)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", r.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Count returns the number of indexed publications.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM publications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting publications: %w", err)
	}
	return n, nil
}

// Query runs an arbitrary SQL query against the index and returns rows as
// column-name keyed maps, for JSON or CSV output.
func (d *DB) Query(query string, args ...any) ([]string, []map[string]any, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("reading columns: %w", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			// Normalize []byte to string for readable output
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	return cols, results, rows.Err()
}
