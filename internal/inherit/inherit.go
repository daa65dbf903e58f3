// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inherit computes a class's effective property set by walking its
// single-parent chain.
package inherit

import (
	"github.com/pdiddy/cim-context/internal/model"
	"github.com/pdiddy/cim-context/pkg/types"
)

// ClassLookup finds class descriptors by local name.
type ClassLookup interface {
	Class(name string) (*types.ClassDescriptor, bool)
}

// Resolve returns the effective property set of the named class: the
// farthest ancestor's properties first, each descendant overriding
// same-named entries, the class's own properties last. An unknown class
// yields an empty set. Each call allocates a fresh result, nothing is cached.
func Resolve(classes ClassLookup, name string) types.EffectivePropertySet {
	return resolve(classes, name, make(map[string]struct{}))
}

// resolve visits each class at most once per call, so a subclass cycle is
// cut where it closes instead of recursing forever.
func resolve(classes ClassLookup, name string, visiting map[string]struct{}) types.EffectivePropertySet {
	if _, ok := visiting[name]; ok {
		return types.EffectivePropertySet{}
	}
	visiting[name] = struct{}{}

	c, ok := classes.Class(name)
	if !ok {
		return types.EffectivePropertySet{}
	}

	set := types.EffectivePropertySet{}
	if c.HasSuperclass() {
		for k, v := range resolve(classes, model.LocalName(c.SuperclassID), visiting) {
			set[k] = v
		}
	}
	for k, v := range c.OwnProperties {
		set[k] = v
	}
	return set
}

// Ancestors returns the local names of name's superclasses, nearest first,
// stopping at an unknown class or where the chain loops back.
func Ancestors(classes ClassLookup, name string) []string {
	seen := map[string]struct{}{name: {}}
	var out []string
	for {
		c, ok := classes.Class(name)
		if !ok || !c.HasSuperclass() {
			return out
		}
		parent := model.LocalName(c.SuperclassID)
		if _, loop := seen[parent]; loop {
			return out
		}
		if _, known := classes.Class(parent); !known {
			return out
		}
		seen[parent] = struct{}{}
		out = append(out, parent)
		name = parent
	}
}
