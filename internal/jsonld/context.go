// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonld renders JSON-LD context documents: one per class, carrying
// its own and inherited property terms, and a root context that links every
// class context by URL.
package jsonld

import (
	"sort"
	"strings"

	"github.com/pdiddy/cim-context/internal/model"
	"github.com/pdiddy/cim-context/internal/triplestore"
	"github.com/pdiddy/cim-context/pkg/types"
)

const (
	// ClassDir is the output subdirectory holding per-class contexts.
	ClassDir = "CIM"
	// RootFile is the root context filename.
	RootFile = "context.jsonld"
	// FileExt is the extension of every emitted document.
	FileExt = ".jsonld"

	// xmlSchemaMarker anywhere in a range URI marks a datatype property.
	xmlSchemaMarker = "XMLSchema"
)

// ClassPath returns the slash-separated path of a class context relative
// to the output root.
func ClassPath(name string) string {
	return ClassDir + "/" + name + FileExt
}

// Emitter renders context documents for one namespace and hosting setup.
type Emitter struct {
	// BaseURI is bound to the "cim" prefix.
	BaseURI string

	// ContextBaseURL, when non-empty, makes root-context links absolute.
	// It must not end in '/'.
	ContextBaseURL string
}

// NewEmitter builds an emitter from a normalized config.
func NewEmitter(cfg types.ConverterConfig) Emitter {
	return Emitter{
		BaseURI:        cfg.BaseURI,
		ContextBaseURL: cfg.ContextBaseURL,
	}
}

// prefixes returns the fixed @context preamble.
func (e Emitter) prefixes() *Document {
	ctx := NewDocument()
	ctx.Set("cim", e.BaseURI)
	ctx.Set("xsd", triplestore.NamespaceXSD)
	ctx.Set("rdf", triplestore.NamespaceRDF)
	ctx.Set("rdfs", triplestore.NamespaceRDFS)
	return ctx
}

// ContextURL returns the link to a class context used in the root document.
func (e Emitter) ContextURL(name string) string {
	if e.ContextBaseURL != "" {
		return e.ContextBaseURL + "/" + ClassPath(name)
	}
	return ClassPath(name)
}

// ClassContext renders the context document for c. Property terms are keyed
// "cim:<localName>" in ascending name order after the class header.
func (e Emitter) ClassContext(c *types.ClassDescriptor, props types.EffectivePropertySet) *Document {
	doc := NewDocument()
	doc.Set("@context", e.prefixes())
	doc.Set("@id", c.ID)
	doc.Set("@type", "rdfs:Class")
	doc.Set("rdfs:label", c.Label)
	if c.Comment != "" {
		doc.Set("rdfs:comment", c.Comment)
	}
	if c.HasSuperclass() {
		sup := NewDocument()
		sup.Set("@id", c.SuperclassID)
		sup.Set("@type", "@id")
		doc.Set("rdfs:subClassOf", sup)
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		doc.Set("cim:"+name, propertyTerm(props[name]))
	}
	return doc
}

func propertyTerm(p types.PropertyRef) *Document {
	term := NewDocument()
	term.Set("@id", p.ID)
	if t := TermType(p.RangeID); t != "" {
		term.Set("@type", t)
	}
	if p.Label != "" {
		term.Set("rdfs:label", p.Label)
	}
	if p.Comment != "" {
		term.Set("rdfs:comment", p.Comment)
	}
	return term
}

// TermType maps a range URI to a term's @type: "xsd:<name>" for XML Schema
// datatypes, "@id" for any other range, and "" when there is no range.
func TermType(rangeID string) string {
	switch {
	case rangeID == "":
		return ""
	case IsDatatype(rangeID):
		return "xsd:" + model.LocalName(rangeID)
	default:
		return "@id"
	}
}

// IsDatatype reports whether a range URI names an XML Schema datatype.
func IsDatatype(rangeID string) bool {
	return strings.Contains(rangeID, xmlSchemaMarker)
}

// RootContext renders the root document: the prefix preamble plus one
// entry per class, in ascending name order, linking its context URL.
func (e Emitter) RootContext(classNames []string) *Document {
	names := make([]string, len(classNames))
	copy(names, classNames)
	sort.Strings(names)

	ctx := e.prefixes()
	for _, name := range names {
		entry := NewDocument()
		entry.Set("@id", "cim:"+name)
		entry.Set("@context", e.ContextURL(name))
		ctx.Set(name, entry)
	}

	doc := NewDocument()
	doc.Set("@context", ctx)
	return doc
}
