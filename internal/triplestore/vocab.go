// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package triplestore

// Namespace IRIs bound in every emitted context.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
)

// Predicate and type IRIs consulted by the model extractor.
const (
	RDFType        = NamespaceRDF + "type"
	RDFProperty    = NamespaceRDF + "Property"
	RDFSClass      = NamespaceRDFS + "Class"
	RDFSProperty   = NamespaceRDFS + "Property"
	RDFSLabel      = NamespaceRDFS + "label"
	RDFSComment    = NamespaceRDFS + "comment"
	RDFSSubClassOf = NamespaceRDFS + "subClassOf"
	RDFSDomain     = NamespaceRDFS + "domain"
	RDFSRange      = NamespaceRDFS + "range"
)
