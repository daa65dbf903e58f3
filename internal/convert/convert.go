// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the schema-to-context pipeline: load the schema
// documents, extract the model, then write one context per class and the
// root context.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/cim-context/internal/inherit"
	"github.com/pdiddy/cim-context/internal/jsonld"
	"github.com/pdiddy/cim-context/internal/model"
	"github.com/pdiddy/cim-context/internal/triplestore"
	"github.com/pdiddy/cim-context/pkg/types"
)

// Indexer receives the extracted model after the context files are written.
type Indexer interface {
	Index(ctx context.Context, m *model.Model) error
}

// Summary holds the counts from one conversion run.
type Summary struct {
	Files      int
	Skipped    int
	Triples    int
	Classes    int
	Properties int
	Written    int
	Failed     int
}

// HasFailures reports whether any context file could not be written.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// WriteError reports an output file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Converter turns a schema directory into a JSON-LD context tree.
type Converter struct {
	cfg     types.ConverterConfig
	emitter jsonld.Emitter
	indexer Indexer
}

// New returns a Converter for cfg. The config is normalized here.
func New(cfg types.ConverterConfig) *Converter {
	cfg.Normalize()
	return &Converter{
		cfg:     cfg,
		emitter: jsonld.NewEmitter(cfg),
	}
}

// WithIndexer sets an indexer that runs after each successful conversion.
func (c *Converter) WithIndexer(ix Indexer) *Converter {
	c.indexer = ix
	return c
}

// Config returns the normalized configuration.
func (c *Converter) Config() types.ConverterConfig {
	return c.cfg
}

// Run executes the full pipeline, printing phase progress to w. Unparseable
// schema files are skipped with a warning. Any output write failure is
// fatal: in-flight class writes still finish, then every failure is
// returned joined, each as a *WriteError.
func (c *Converter) Run(ctx context.Context, w io.Writer) (Summary, error) {
	var summary Summary
	if err := c.cfg.Validate(); err != nil {
		return summary, err
	}

	store, loaded, err := triplestore.Load(c.cfg.SchemaDir, c.cfg.BaseURI, w)
	if err != nil {
		return summary, err
	}
	summary.Files = loaded.Files
	summary.Skipped = loaded.Skipped
	summary.Triples = store.Len()

	m := model.Extract(store, w)
	summary.Classes = len(m.Classes)
	summary.Properties = len(m.Properties)

	classDir := filepath.Join(c.cfg.OutputDir, jsonld.ClassDir)
	fmt.Fprintln(w, "Generating class context files...")
	if err := os.MkdirAll(classDir, 0o755); err != nil {
		return summary, &WriteError{Path: classDir, Err: err}
	}

	written, errs := c.writeClassContexts(ctx, m, classDir)
	summary.Written = written
	summary.Failed = len(errs)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(w, "  failed: %v\n", err)
		}
		return summary, errors.Join(errs...)
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "Generated %d class context files in %s\n", written, classDir)

	fmt.Fprintln(w, "Generating main context file...")
	rootPath := filepath.Join(c.cfg.OutputDir, jsonld.RootFile)
	if err := writeDocument(rootPath, c.emitter.RootContext(m.ClassNames())); err != nil {
		return summary, err
	}
	fmt.Fprintf(w, "Generated main context file: %s\n", rootPath)
	if c.cfg.ContextBaseURL != "" {
		fmt.Fprintf(w, "Using absolute URLs with base: %s\n", c.cfg.ContextBaseURL)
	}

	if c.indexer != nil {
		if err := c.indexer.Index(ctx, m); err != nil {
			return summary, fmt.Errorf("indexing catalog: %w", err)
		}
		fmt.Fprintf(w, "Indexed %d classes into catalog %s\n", len(m.Classes), c.cfg.Catalog)
	}

	return summary, nil
}

// writeClassContexts renders and writes every class context on a pool of
// cfg.Workers goroutines. The model is read-only here and each worker owns
// a distinct file. Errors come back in class-name order.
func (c *Converter) writeClassContexts(ctx context.Context, m *model.Model, classDir string) (int, []error) {
	names := m.ClassNames()
	results := make([]error, len(names))

	var g errgroup.Group
	g.SetLimit(c.cfg.Workers)
	launched := 0
	for i, name := range names {
		if ctx.Err() != nil {
			break
		}
		launched++
		i, name := i, name
		g.Go(func() error {
			doc := c.emitter.ClassContext(m.Classes[name], inherit.Resolve(m, name))
			results[i] = writeDocument(filepath.Join(classDir, name+jsonld.FileExt), doc)
			return nil
		})
	}
	g.Wait()

	var errs []error
	written := 0
	for _, err := range results[:launched] {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		written++
	}
	return written, errs
}
