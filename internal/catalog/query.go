// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ClassEntry is a catalogued class with its effective properties.
type ClassEntry struct {
	Name         string          `json:"name" yaml:"name"`
	ID           string          `json:"id" yaml:"id"`
	Label        string          `json:"label" yaml:"label"`
	Comment      string          `json:"comment,omitempty" yaml:"comment,omitempty"`
	SuperclassID string          `json:"superclass_id,omitempty" yaml:"superclass_id,omitempty"`
	Ancestors    []string        `json:"ancestors,omitempty" yaml:"ancestors,omitempty"`
	Properties   []PropertyEntry `json:"properties" yaml:"properties"`
}

// PropertyEntry is one effective property of a class.
type PropertyEntry struct {
	Name       string `json:"name" yaml:"name"`
	ID         string `json:"id" yaml:"id"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	RangeID    string `json:"range_id,omitempty" yaml:"range_id,omitempty"`
	DeclaredOn string `json:"declared_on" yaml:"declared_on"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Inherited reports whether the property comes from an ancestor of class.
func (p PropertyEntry) Inherited(class string) bool {
	return p.DeclaredOn != class
}

// Class returns the named class with its effective properties ordered by
// name. It returns an error wrapping ErrNotFound for unknown classes.
func (s *Store) Class(ctx context.Context, name string) (*ClassEntry, error) {
	var (
		entry     ClassEntry
		ancestors string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, id, label, comment, superclass_id, ancestors FROM classes WHERE name = ?`, name,
	).Scan(&entry.Name, &entry.ID, &entry.Label, &entry.Comment, &entry.SuperclassID, &ancestors)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying class %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(ancestors), &entry.Ancestors); err != nil {
		return nil, fmt.Errorf("decoding ancestors of %s: %w", name, err)
	}

	props, err := s.properties(ctx, name)
	if err != nil {
		return nil, err
	}
	entry.Properties = props
	return &entry, nil
}

func (s *Store) properties(ctx context.Context, class string) ([]PropertyEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT property_name, property_id, term_type, range_id, declared_on, label, comment
		 FROM effective_properties WHERE class_name = ? ORDER BY property_name`, class)
	if err != nil {
		return nil, fmt.Errorf("querying properties of %s: %w", class, err)
	}
	defer rows.Close()

	props := []PropertyEntry{}
	for rows.Next() {
		var p PropertyEntry
		if err := rows.Scan(&p.Name, &p.ID, &p.Type, &p.RangeID, &p.DeclaredOn, &p.Label, &p.Comment); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// Entries returns every class in name order.
func (s *Store) Entries(ctx context.Context) ([]ClassEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM classes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing classes: %w", err)
	}
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning class name: %w", err)
		}
		names = append(names, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries := make([]ClassEntry, 0, len(names))
	for _, n := range names {
		e, err := s.Class(ctx, n)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

// ExportYAML writes every catalog entry to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every catalog entry to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
