// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package triplestore loads RDF/XML and Turtle schema documents into an
// in-memory, read-only set of triples.
package triplestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knakk/rdf"
)

// Store is a queryable set of distinct subject-predicate-object triples.
// It is built once by Load (or Add in tests) and only read afterwards.
type Store struct {
	index map[string]map[string][]string
	seen  map[[3]string]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{
		index: make(map[string]map[string][]string),
		seen:  make(map[[3]string]struct{}),
	}
}

// Add records a triple. Duplicate triples are ignored.
func (s *Store) Add(subject, predicate, object string) {
	key := [3]string{subject, predicate, object}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}

	preds, ok := s.index[subject]
	if !ok {
		preds = make(map[string][]string)
		s.index[subject] = preds
	}
	preds[predicate] = append(preds[predicate], object)
}

// Len returns the number of distinct triples.
func (s *Store) Len() int {
	return len(s.seen)
}

// Subjects returns the distinct subjects that have object as a value of
// predicate, sorted ascending.
func (s *Store) Subjects(predicate, object string) []string {
	var out []string
	for subject, preds := range s.index {
		for _, v := range preds[predicate] {
			if v == object {
				out = append(out, subject)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Values returns every value of predicate for subject, sorted ascending.
func (s *Store) Values(subject, predicate string) []string {
	vals := s.index[subject][predicate]
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	sort.Strings(out)
	return out
}

// Value returns a single value of predicate for subject. When the schema
// holds several, the lexicographically smallest wins so results do not
// depend on parse order.
func (s *Store) Value(subject, predicate string) (string, bool) {
	vals := s.index[subject][predicate]
	if len(vals) == 0 {
		return "", false
	}
	best := vals[0]
	for _, v := range vals[1:] {
		if v < best {
			best = v
		}
	}
	return best, true
}

// LoadSummary counts the schema files seen by Load.
type LoadSummary struct {
	Files   int
	Skipped int
}

// Loaded returns the number of files whose triples were merged.
func (r LoadSummary) Loaded() int {
	return r.Files - r.Skipped
}

// formats maps schema file extensions to their serialization.
var formats = map[string]rdf.Format{
	".rdf": rdf.RDFXML,
	".ttl": rdf.Turtle,
}

// Load parses every .rdf (RDF/XML) and .ttl (Turtle) file directly inside
// dir, in filename order, and merges their triples into one Store. Relative
// IRIs resolve against base. A file that fails to parse is reported on w and
// contributes no triples; it never fails the load.
func Load(dir, base string, w io.Writer) (*Store, LoadSummary, error) {
	fmt.Fprintf(w, "Loading schemas from %s...\n", dir)

	store := New()
	var summary LoadSummary

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, summary, fmt.Errorf("reading schema directory %s: %w", dir, err)
		}
		fmt.Fprintf(w, "  warning: schema directory %s does not exist\n", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := formats[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			continue
		}
		summary.Files++

		fmt.Fprintf(w, "  Loading %s...\n", entry.Name())
		triples, err := parseFile(filepath.Join(dir, entry.Name()), format, base)
		if err != nil {
			fmt.Fprintf(w, "  warning: failed to parse %s: %v\n", entry.Name(), err)
			summary.Skipped++
			continue
		}
		for _, t := range triples {
			store.Add(termString(t.Subj), termString(t.Pred), termString(t.Obj))
		}
	}

	fmt.Fprintf(w, "Loaded %d triples from %d files\n", store.Len(), summary.Files)
	return store, summary, nil
}

// parseFile decodes a whole document before returning any triples, so a
// syntax error anywhere discards the file.
func parseFile(path string, format rdf.Format, base string) ([]rdf.Triple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec := rdf.NewTripleDecoder(f, format)
	if base != "" {
		iri, err := rdf.NewIRI(strings.TrimSuffix(base, "#"))
		if err != nil {
			return nil, fmt.Errorf("invalid base IRI %q: %w", base, err)
		}
		if err := dec.SetOption(rdf.Base, iri); err != nil {
			return nil, fmt.Errorf("setting base IRI: %w", err)
		}
	}

	var triples []rdf.Triple
	for {
		t, err := dec.Decode()
		if err == io.EOF {
			return triples, nil
		}
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
}

// termString returns the IRI, the lexical form of a literal, or the
// N-Triples label of a blank node.
func termString(t rdf.Term) string {
	if t.Type() == rdf.TermBlank {
		return t.Serialize(rdf.NTriples)
	}
	return t.String()
}
