// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ClassDescriptor describes one RDF Schema class.
type ClassDescriptor struct {
	// ID is the canonical class URI.
	ID string `json:"id" yaml:"id"`

	// Name is the local name derived from ID. It keys the class registry
	// and is the output filename stem.
	Name string `json:"name" yaml:"name"`

	// Label is the rdfs:label, or Name when the schema has none.
	Label string `json:"label" yaml:"label"`

	// Comment is the rdfs:comment, if any.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// SuperclassID is the URI of the single parent class, if any.
	SuperclassID string `json:"superclass_id,omitempty" yaml:"superclass_id,omitempty"`

	// OwnProperties maps property local name to the properties whose
	// rdfs:domain is this class.
	OwnProperties map[string]PropertyRef `json:"own_properties,omitempty" yaml:"own_properties,omitempty"`
}

// HasSuperclass reports whether the class declares a parent.
func (c *ClassDescriptor) HasSuperclass() bool {
	return c.SuperclassID != ""
}

// PropertyDescriptor describes one RDF property.
type PropertyDescriptor struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// DomainClassID is the URI of the class the property is declared on.
	DomainClassID string `json:"domain_class_id,omitempty" yaml:"domain_class_id,omitempty"`

	// RangeID is the rdfs:range URI. An XML Schema URI marks a datatype
	// property; anything else an object property.
	RangeID string `json:"range_id,omitempty" yaml:"range_id,omitempty"`
}

// PropertyRef is the view of a property attached to its domain class.
type PropertyRef struct {
	ID      string `json:"id" yaml:"id"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	RangeID string `json:"range_id,omitempty" yaml:"range_id,omitempty"`

	// DeclaredOn is the local name of the class the property is attached to.
	DeclaredOn string `json:"declared_on" yaml:"declared_on"`
}

// EffectivePropertySet maps property local name to the definition a class
// sees after overlaying its ancestors' properties with its own.
type EffectivePropertySet map[string]PropertyRef
