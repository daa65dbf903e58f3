// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model extracts the class and property registries from a triple
// store and attaches each property to its domain class.
package model

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/cim-context/internal/triplestore"
	"github.com/pdiddy/cim-context/pkg/types"
)

// TripleSource is the read-only view of a triple store the extractor needs.
type TripleSource interface {
	Subjects(predicate, object string) []string
	Value(subject, predicate string) (string, bool)
	Values(subject, predicate string) []string
}

// Model holds the extracted registries, keyed by local name. It is not
// modified after Extract returns.
type Model struct {
	Classes    map[string]*types.ClassDescriptor
	Properties map[string]*types.PropertyDescriptor
}

// New returns an empty model.
func New() *Model {
	return &Model{
		Classes:    make(map[string]*types.ClassDescriptor),
		Properties: make(map[string]*types.PropertyDescriptor),
	}
}

// ClassNames returns the class local names in ascending order.
func (m *Model) ClassNames() []string {
	names := make([]string, 0, len(m.Classes))
	for name := range m.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Class looks up a class by local name.
func (m *Model) Class(name string) (*types.ClassDescriptor, bool) {
	c, ok := m.Classes[name]
	return c, ok
}

// Extract runs class extraction followed by property extraction.
// Progress and tie-break warnings are written to w.
func Extract(src TripleSource, w io.Writer) *Model {
	m := New()
	m.ExtractClasses(src, w)
	m.ExtractProperties(src, w)
	return m
}

// ExtractClasses registers one descriptor per rdfs:Class subject. A missing
// label falls back to the local name. When two URIs share a local name the
// one visited later (larger URI) replaces the earlier. A class whose local
// name cannot serve as a file name is skipped with a warning.
func (m *Model) ExtractClasses(src TripleSource, w io.Writer) {
	fmt.Fprintln(w, "Extracting classes...")

	for _, uri := range src.Subjects(triplestore.RDFType, triplestore.RDFSClass) {
		name := LocalName(uri)
		if !ValidClassName(name) {
			fmt.Fprintf(w, "  warning: skipping class %s: local name %q is not a valid file name\n", uri, name)
			continue
		}
		c := &types.ClassDescriptor{
			ID:            uri,
			Name:          name,
			Label:         name,
			OwnProperties: make(map[string]types.PropertyRef),
		}
		if label, ok := src.Value(uri, triplestore.RDFSLabel); ok && label != "" {
			c.Label = label
		}
		c.Comment, _ = src.Value(uri, triplestore.RDFSComment)
		c.SuperclassID = single(src, uri, triplestore.RDFSSubClassOf, w)

		m.Classes[name] = c
	}

	fmt.Fprintf(w, "Found %d classes\n", len(m.Classes))
}

// ExtractProperties registers one descriptor per property subject (typed
// rdfs:Property or rdf:Property) and attaches it to the class whose local
// name matches its domain. Properties whose domain is absent or unknown
// stay in the registry but are attached nowhere.
func (m *Model) ExtractProperties(src TripleSource, w io.Writer) {
	fmt.Fprintln(w, "Extracting properties...")

	for _, uri := range propertySubjects(src) {
		name := LocalName(uri)
		p := &types.PropertyDescriptor{
			ID:   uri,
			Name: name,
		}
		p.Label, _ = src.Value(uri, triplestore.RDFSLabel)
		p.Comment, _ = src.Value(uri, triplestore.RDFSComment)
		p.DomainClassID = single(src, uri, triplestore.RDFSDomain, w)
		p.RangeID, _ = src.Value(uri, triplestore.RDFSRange)

		m.Properties[name] = p

		if p.DomainClassID == "" {
			continue
		}
		domain, ok := m.Classes[LocalName(p.DomainClassID)]
		if !ok {
			continue
		}
		domain.OwnProperties[name] = types.PropertyRef{
			ID:         p.ID,
			Label:      p.Label,
			Comment:    p.Comment,
			RangeID:    p.RangeID,
			DeclaredOn: domain.Name,
		}
	}

	fmt.Fprintf(w, "Found %d properties\n", len(m.Properties))
}

// propertySubjects merges subjects typed rdfs:Property and rdf:Property.
func propertySubjects(src TripleSource) []string {
	set := make(map[string]struct{})
	for _, t := range []string{triplestore.RDFSProperty, triplestore.RDFProperty} {
		for _, s := range src.Subjects(triplestore.RDFType, t) {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// single returns the value the store picks for a structural predicate and
// warns when the schema supplied more than one.
func single(src TripleSource, subject, predicate string, w io.Writer) string {
	v, ok := src.Value(subject, predicate)
	if !ok {
		return ""
	}
	if all := src.Values(subject, predicate); len(all) > 1 {
		fmt.Fprintf(w, "  warning: %s has %d %s values %v, using %s\n",
			LocalName(subject), len(all), LocalName(predicate), all, v)
	}
	return v
}

// ValidClassName reports whether name can be used as the base name of a
// class context file inside the class directory.
func ValidClassName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.IsLocal(name)
}

// LocalName returns the part of uri after its last '#', or failing that
// after its last '/'. A URI with neither is returned unchanged.
func LocalName(uri string) string {
	if i := strings.LastIndex(uri, "#"); i >= 0 {
		return uri[i+1:]
	}
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
