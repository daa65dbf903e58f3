// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cim-context/internal/model"
	"github.com/pdiddy/cim-context/pkg/types"
)

const ex = "http://example.org/cim#"

const classesTTL = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix cim: <http://example.org/cim#> .

cim:IdentifiedObject a rdfs:Class ;
    rdfs:label "IdentifiedObject" ;
    rdfs:comment "Root of everything named" .

cim:Equipment a rdfs:Class ;
    rdfs:subClassOf cim:IdentifiedObject .

cim:Breaker a rdfs:Class ;
    rdfs:label "Leistungsschalter" ;
    rdfs:subClassOf cim:Equipment .
`

const propertiesTTL = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix cim: <http://example.org/cim#> .

<http://example.org/cim#IdentifiedObject.name> a rdf:Property ;
    rdfs:label "name" ;
    rdfs:domain cim:IdentifiedObject ;
    rdfs:range xsd:string .

<http://example.org/cim#Equipment.inService> a rdf:Property ;
    rdfs:domain cim:Equipment ;
    rdfs:range xsd:boolean .

<http://example.org/cim#Breaker.inService> a rdf:Property ;
    rdfs:domain cim:Breaker ;
    rdfs:range cim:Equipment .

<http://example.org/cim#Ghost.value> a rdf:Property ;
    rdfs:domain cim:Ghost .
`

func writeSchemas(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func run(t *testing.T, cfg types.ConverterConfig) (Summary, string) {
	t.Helper()
	var out strings.Builder
	summary, err := New(cfg).Run(context.Background(), &out)
	require.NoError(t, err, out.String())
	return summary, out.String()
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestRunWritesContextTree(t *testing.T) {
	schemaDir := writeSchemas(t, map[string]string{
		"classes.ttl":    classesTTL,
		"properties.ttl": propertiesTTL,
	})
	outDir := filepath.Join(t.TempDir(), "out")

	summary, log := run(t, types.ConverterConfig{SchemaDir: schemaDir, OutputDir: outDir, BaseURI: ex})

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 3, summary.Classes)
	assert.Equal(t, 4, summary.Properties)
	assert.Equal(t, 3, summary.Written)
	assert.False(t, summary.HasFailures())
	assert.Contains(t, log, "Found 3 classes")
	assert.Contains(t, log, "Generated 3 class context files")

	for _, name := range []string{"IdentifiedObject", "Equipment", "Breaker"} {
		doc := readJSON(t, filepath.Join(outDir, "CIM", name+".jsonld"))
		assert.Equal(t, ex+name, doc["@id"])
	}

	breaker := readJSON(t, filepath.Join(outDir, "CIM", "Breaker.jsonld"))
	assert.Equal(t, "Leistungsschalter", breaker["rdfs:label"])
	assert.Equal(t, map[string]any{"@id": ex + "Equipment", "@type": "@id"}, breaker["rdfs:subClassOf"])
	assert.Equal(t, "xsd:string", breaker["cim:IdentifiedObject.name"].(map[string]any)["@type"])
	assert.Equal(t, "xsd:boolean", breaker["cim:Equipment.inService"].(map[string]any)["@type"])
	assert.Equal(t, "@id", breaker["cim:Breaker.inService"].(map[string]any)["@type"])
	assert.NotContains(t, breaker, "cim:Ghost.value")

	root := readJSON(t, filepath.Join(outDir, "context.jsonld"))
	ctx := root["@context"].(map[string]any)
	assert.Equal(t, ex, ctx["cim"])
	assert.Equal(t, map[string]any{"@id": "cim:Breaker", "@context": "CIM/Breaker.jsonld"}, ctx["Breaker"])

	raw, err := os.ReadFile(filepath.Join(outDir, "context.jsonld"))
	require.NoError(t, err)
	s := string(raw)
	assert.Less(t, strings.Index(s, `"Breaker"`), strings.Index(s, `"Equipment"`))
	assert.Less(t, strings.Index(s, `"Equipment"`), strings.Index(s, `"IdentifiedObject"`))
}

func TestRunIsDeterministic(t *testing.T) {
	split := writeSchemas(t, map[string]string{
		"a.ttl": classesTTL,
		"b.ttl": propertiesTTL,
	})
	swapped := writeSchemas(t, map[string]string{
		"a.ttl": propertiesTTL,
		"b.ttl": classesTTL,
	})

	outs := []string{
		filepath.Join(t.TempDir(), "first"),
		filepath.Join(t.TempDir(), "second"),
		filepath.Join(t.TempDir(), "swapped"),
	}
	run(t, types.ConverterConfig{SchemaDir: split, OutputDir: outs[0], BaseURI: ex, Workers: 1})
	run(t, types.ConverterConfig{SchemaDir: split, OutputDir: outs[1], BaseURI: ex, Workers: 8})
	run(t, types.ConverterConfig{SchemaDir: swapped, OutputDir: outs[2], BaseURI: ex, Workers: 3})

	for _, rel := range []string{"context.jsonld", "CIM/Breaker.jsonld", "CIM/Equipment.jsonld", "CIM/IdentifiedObject.jsonld"} {
		want, err := os.ReadFile(filepath.Join(outs[0], rel))
		require.NoError(t, err)
		for _, out := range outs[1:] {
			got, err := os.ReadFile(filepath.Join(out, rel))
			require.NoError(t, err)
			assert.Equal(t, string(want), string(got), "%s differs in %s", rel, out)
		}
	}
}

func TestRunContextBaseURL(t *testing.T) {
	schemaDir := writeSchemas(t, map[string]string{"classes.ttl": classesTTL})
	outDir := t.TempDir()

	_, log := run(t, types.ConverterConfig{
		SchemaDir:      schemaDir,
		OutputDir:      outDir,
		BaseURI:        ex,
		ContextBaseURL: "https://h/c/",
	})

	ctx := readJSON(t, filepath.Join(outDir, "context.jsonld"))["@context"].(map[string]any)
	for _, name := range []string{"IdentifiedObject", "Equipment", "Breaker"} {
		assert.Equal(t, "https://h/c/CIM/"+name+".jsonld", ctx[name].(map[string]any)["@context"])
	}
	assert.Contains(t, log, "Using absolute URLs with base: https://h/c")
}

func TestRunEmptySchemaDirectory(t *testing.T) {
	outDir := t.TempDir()

	summary, _ := run(t, types.ConverterConfig{SchemaDir: t.TempDir(), OutputDir: outDir})

	assert.Zero(t, summary.Classes)
	entries, err := os.ReadDir(filepath.Join(outDir, "CIM"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	ctx := readJSON(t, filepath.Join(outDir, "context.jsonld"))["@context"].(map[string]any)
	assert.Len(t, ctx, 4)
	assert.Equal(t, types.DefaultBaseURI, ctx["cim"])
}

func TestRunSkipsBrokenSchema(t *testing.T) {
	schemaDir := writeSchemas(t, map[string]string{
		"classes.ttl": classesTTL,
		"broken.rdf":  "<rdf:RDF this is not xml",
	})

	summary, log := run(t, types.ConverterConfig{SchemaDir: schemaDir, OutputDir: t.TempDir(), BaseURI: ex})

	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 3, summary.Classes)
	assert.Contains(t, log, "warning: failed to parse broken.rdf")
}

func TestRunSkipsClassesWithUnusableNames(t *testing.T) {
	schemaDir := writeSchemas(t, map[string]string{
		"classes.ttl": classesTTL,
		"unsafe.ttl": `@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

<http://example.org/cim#../../escaped> a rdfs:Class .
<http://example.org/cim#a/b> a rdfs:Class .
<http://example.org/cim#> a rdfs:Class .
`,
	})
	root := t.TempDir()
	outDir := filepath.Join(root, "out")

	summary, log := run(t, types.ConverterConfig{SchemaDir: schemaDir, OutputDir: outDir, BaseURI: ex})

	assert.Equal(t, 3, summary.Classes)
	assert.Equal(t, 3, summary.Written)
	assert.Contains(t, log, "warning: skipping class")
	assert.NoFileExists(t, filepath.Join(root, "escaped.jsonld"))
	assert.NoDirExists(t, filepath.Join(outDir, "CIM", "a"))
	assert.NoFileExists(t, filepath.Join(outDir, "CIM", ".jsonld"))

	entries, err := os.ReadDir(filepath.Join(outDir, "CIM"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	ctx := readJSON(t, filepath.Join(outDir, "context.jsonld"))["@context"].(map[string]any)
	for key := range ctx {
		assert.True(t, model.ValidClassName(key), "root context entry %q", key)
	}
	assert.Contains(t, ctx, "Breaker")
}

func TestRunReusesExistingOutputDirectory(t *testing.T) {
	schemaDir := writeSchemas(t, map[string]string{"classes.ttl": classesTTL})
	outDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "CIM"), 0o755))

	run(t, types.ConverterConfig{SchemaDir: schemaDir, OutputDir: outDir, BaseURI: ex})
	run(t, types.ConverterConfig{SchemaDir: schemaDir, OutputDir: outDir, BaseURI: ex})

	entries, err := os.ReadDir(filepath.Join(outDir, "CIM"))
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files left behind")
}

func TestRunWriteFailureKeepsSiblings(t *testing.T) {
	schemaDir := writeSchemas(t, map[string]string{"classes.ttl": classesTTL})
	outDir := t.TempDir()

	// A non-empty directory where Equipment.jsonld belongs cannot be
	// replaced by rename.
	blocker := filepath.Join(outDir, "CIM", "Equipment.jsonld")
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "keep"), 0o755))

	var out strings.Builder
	summary, err := New(types.ConverterConfig{SchemaDir: schemaDir, OutputDir: outDir, BaseURI: ex, Workers: 2}).
		Run(context.Background(), &out)
	require.Error(t, err)

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, blocker, werr.Path)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Written)
	assert.True(t, summary.HasFailures())
	assert.Contains(t, out.String(), "failed: writing "+blocker)

	assert.FileExists(t, filepath.Join(outDir, "CIM", "Breaker.jsonld"))
	assert.FileExists(t, filepath.Join(outDir, "CIM", "IdentifiedObject.jsonld"))
	assert.NoFileExists(t, filepath.Join(outDir, "context.jsonld"))
}

func TestRunOutputDirIsFile(t *testing.T) {
	schemaDir := writeSchemas(t, map[string]string{"classes.ttl": classesTTL})
	outFile := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(outFile, []byte("x"), 0o644))

	_, err := New(types.ConverterConfig{SchemaDir: schemaDir, OutputDir: outFile}).
		Run(context.Background(), &strings.Builder{})

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, filepath.Join(outFile, "CIM"), werr.Path)
}

func TestRunValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    types.ConverterConfig
		errMsg string
	}{
		{"missing schema dir", types.ConverterConfig{OutputDir: "out"}, "schema directory is required"},
		{"missing output dir", types.ConverterConfig{SchemaDir: "schemas"}, "output directory is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg).Run(context.Background(), &strings.Builder{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

type recordingIndexer struct {
	classes []string
	err     error
}

func (r *recordingIndexer) Index(_ context.Context, m *model.Model) error {
	r.classes = m.ClassNames()
	return r.err
}

func TestRunCallsIndexer(t *testing.T) {
	schemaDir := writeSchemas(t, map[string]string{"classes.ttl": classesTTL})

	t.Run("indexes after writing", func(t *testing.T) {
		ix := &recordingIndexer{}
		var out strings.Builder
		_, err := New(types.ConverterConfig{SchemaDir: schemaDir, OutputDir: t.TempDir(), BaseURI: ex, Catalog: "cat.db"}).
			WithIndexer(ix).
			Run(context.Background(), &out)
		require.NoError(t, err)
		assert.Equal(t, []string{"Breaker", "Equipment", "IdentifiedObject"}, ix.classes)
		assert.Contains(t, out.String(), "Indexed 3 classes into catalog cat.db")
	})

	t.Run("indexer failure is returned", func(t *testing.T) {
		ix := &recordingIndexer{err: errors.New("disk full")}
		_, err := New(types.ConverterConfig{SchemaDir: schemaDir, OutputDir: t.TempDir(), BaseURI: ex}).
			WithIndexer(ix).
			Run(context.Background(), &strings.Builder{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "indexing catalog: disk full")
	})
}

func TestNewNormalizesConfig(t *testing.T) {
	c := New(types.ConverterConfig{SchemaDir: "s", OutputDir: "o", ContextBaseURL: "https://h/c//"})
	cfg := c.Config()
	assert.Equal(t, types.DefaultBaseURI, cfg.BaseURI)
	assert.Equal(t, "https://h/c", cfg.ContextBaseURL)
	assert.Positive(t, cfg.Workers)
}
