// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the extracted schema model, including each
// class's effective property set, in a SQLite database that can be queried
// and exported after a conversion.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/cim-context/internal/inherit"
	"github.com/pdiddy/cim-context/internal/jsonld"
	"github.com/pdiddy/cim-context/internal/model"
)

// ErrNotFound is returned when a class is not in the catalog.
var ErrNotFound = errors.New("class not found")

// Store manages the catalog database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the catalog database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS classes (
			name TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			label TEXT NOT NULL,
			comment TEXT NOT NULL,
			superclass_id TEXT NOT NULL,
			ancestors TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS properties (
			name TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			label TEXT NOT NULL,
			comment TEXT NOT NULL,
			domain_class_id TEXT NOT NULL,
			range_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS effective_properties (
			class_name TEXT NOT NULL REFERENCES classes(name) ON DELETE CASCADE,
			property_name TEXT NOT NULL,
			property_id TEXT NOT NULL,
			range_id TEXT NOT NULL,
			term_type TEXT NOT NULL,
			declared_on TEXT NOT NULL,
			label TEXT NOT NULL,
			comment TEXT NOT NULL,
			PRIMARY KEY (class_name, property_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_effective_declared_on ON effective_properties(declared_on)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Index replaces the catalog contents with m in one transaction.
func (s *Store) Index(ctx context.Context, m *model.Model) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"effective_properties", "classes", "properties"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	classStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO classes (name, id, label, comment, superclass_id, ancestors)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing class insert: %w", err)
	}
	defer classStmt.Close()

	effStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO effective_properties
			(class_name, property_name, property_id, range_id, term_type, declared_on, label, comment)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing effective property insert: %w", err)
	}
	defer effStmt.Close()

	for _, name := range m.ClassNames() {
		c := m.Classes[name]
		ancestorsJSON, err := json.Marshal(inherit.Ancestors(m, name))
		if err != nil {
			return fmt.Errorf("encoding ancestors of %s: %w", name, err)
		}
		if _, err := classStmt.ExecContext(ctx,
			c.Name, c.ID, c.Label, c.Comment, c.SuperclassID, string(ancestorsJSON),
		); err != nil {
			return fmt.Errorf("inserting class %s: %w", name, err)
		}

		for propName, p := range inherit.Resolve(m, name) {
			if _, err := effStmt.ExecContext(ctx,
				name, propName, p.ID, p.RangeID, jsonld.TermType(p.RangeID),
				p.DeclaredOn, p.Label, p.Comment,
			); err != nil {
				return fmt.Errorf("inserting property %s of %s: %w", propName, name, err)
			}
		}
	}

	propStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO properties (name, id, label, comment, domain_class_id, range_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing property insert: %w", err)
	}
	defer propStmt.Close()

	for name, p := range m.Properties {
		if _, err := propStmt.ExecContext(ctx,
			name, p.ID, p.Label, p.Comment, p.DomainClassID, p.RangeID,
		); err != nil {
			return fmt.Errorf("inserting property %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// Counts returns the number of classes and properties in the catalog.
func (s *Store) Counts(ctx context.Context) (classes, properties int, err error) {
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM classes`).Scan(&classes); err != nil {
		return 0, 0, fmt.Errorf("counting classes: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM properties`).Scan(&properties); err != nil {
		return 0, 0, fmt.Errorf("counting properties: %w", err)
	}
	return classes, properties, nil
}
