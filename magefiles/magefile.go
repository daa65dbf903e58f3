//go:build mage

// Package main contains Mage build targets for cim-context developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "cim-context"
	cmdPkg  = "./cmd/cim-context"

	sampleSchemaDir = "samples/schema"
	sampleOutputDir = "samples/out"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// sampleSchema is a small CGMES-style vocabulary covering inheritance,
// datatype ranges, and object ranges.
const sampleSchema = `@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

<http://iec.ch/TC57/CIM100#IdentifiedObject> rdf:type rdfs:Class ;
    rdfs:label "IdentifiedObject" ;
    rdfs:comment "This is a root class to provide common identification for all classes needing identification and naming attributes." .

<http://iec.ch/TC57/CIM100#PowerSystemResource> rdf:type rdfs:Class ;
    rdfs:label "PowerSystemResource" ;
    rdfs:subClassOf <http://iec.ch/TC57/CIM100#IdentifiedObject> .

<http://iec.ch/TC57/CIM100#Equipment> rdf:type rdfs:Class ;
    rdfs:label "Equipment" ;
    rdfs:subClassOf <http://iec.ch/TC57/CIM100#PowerSystemResource> .

<http://iec.ch/TC57/CIM100#EquipmentContainer> rdf:type rdfs:Class ;
    rdfs:label "EquipmentContainer" ;
    rdfs:subClassOf <http://iec.ch/TC57/CIM100#PowerSystemResource> .

<http://iec.ch/TC57/CIM100#IdentifiedObject.name> rdf:type rdfs:Property ;
    rdfs:label "name" ;
    rdfs:domain <http://iec.ch/TC57/CIM100#IdentifiedObject> ;
    rdfs:range <http://www.w3.org/2001/XMLSchema#string> .

<http://iec.ch/TC57/CIM100#IdentifiedObject.mRID> rdf:type rdfs:Property ;
    rdfs:label "mRID" ;
    rdfs:domain <http://iec.ch/TC57/CIM100#IdentifiedObject> ;
    rdfs:range <http://www.w3.org/2001/XMLSchema#string> .

<http://iec.ch/TC57/CIM100#Equipment.aggregate> rdf:type rdfs:Property ;
    rdfs:label "aggregate" ;
    rdfs:domain <http://iec.ch/TC57/CIM100#Equipment> ;
    rdfs:range <http://www.w3.org/2001/XMLSchema#boolean> .

<http://iec.ch/TC57/CIM100#Equipment.EquipmentContainer> rdf:type rdfs:Property ;
    rdfs:label "EquipmentContainer" ;
    rdfs:domain <http://iec.ch/TC57/CIM100#Equipment> ;
    rdfs:range <http://iec.ch/TC57/CIM100#EquipmentContainer> .
`

// Sample writes a small schema to samples/schema and converts it into
// samples/out with the freshly built binary.
func Sample() error {
	mg.Deps(Build)

	if err := os.MkdirAll(sampleSchemaDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sampleSchemaDir, err)
	}
	schema := filepath.Join(sampleSchemaDir, "sample.ttl")
	if err := os.WriteFile(schema, []byte(sampleSchema), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", schema, err)
	}
	return sh.RunV(filepath.Join(binDir, binName), "convert", sampleSchemaDir, sampleOutputDir)
}

// Clean removes build output and generated samples.
func Clean() error {
	for _, dir := range []string{binDir, "samples"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// skipDir reports whether a directory is outside the project sources.
func skipDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "bin" || name == "samples")
}

// countGoLines walks the tree and counts non-blank lines in Go files.
// If testOnly is true, count only _test.go files; otherwise count non-test .go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}

// countDocWords counts words in the top-level Markdown files.
func countDocWords(root string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*.md"))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
	}
	return total, nil
}
