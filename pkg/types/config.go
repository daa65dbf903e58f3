// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

const (
	// DefaultBaseURI is the CIM16 schema namespace bound to the "cim" prefix.
	DefaultBaseURI = "http://iec.ch/TC57/2013/CIM-schema-cim16#"

	// DefaultDebounce is the quiet period before a watch-triggered rerun.
	DefaultDebounce = 500 * time.Millisecond
)

// ConverterConfig holds settings for a schema-to-context conversion run.
type ConverterConfig struct {
	// SchemaDir is the directory holding .rdf and .ttl schema documents.
	SchemaDir string `json:"schema_dir" yaml:"schema_dir" mapstructure:"schema_dir"`

	// OutputDir is the destination root for context.jsonld and CIM/.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// BaseURI is the namespace bound to the "cim" prefix.
	BaseURI string `json:"base_uri" yaml:"base_uri" mapstructure:"base_uri"`

	// ContextBaseURL, when set, makes per-class @context URLs in the root
	// document absolute. Empty means relative URLs.
	ContextBaseURL string `json:"context_base_url,omitempty" yaml:"context_base_url,omitempty" mapstructure:"context_base_url"`

	// Workers bounds the number of class contexts rendered concurrently
	// (default GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Catalog is an optional SQLite database path. When set, the extracted
	// model is indexed there after each successful run.
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty" mapstructure:"catalog"`
}

// Normalize fills defaults and strips a trailing slash from ContextBaseURL.
func (c *ConverterConfig) Normalize() {
	if c.BaseURI == "" {
		c.BaseURI = DefaultBaseURI
	}
	c.ContextBaseURL = strings.TrimRight(c.ContextBaseURL, "/")
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate reports missing required settings.
func (c ConverterConfig) Validate() error {
	if c.SchemaDir == "" {
		return fmt.Errorf("schema directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// Debounce is the quiet period after the last schema change before the
	// conversion is rerun (default 500ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
}

// Normalize applies the default debounce to a zero or negative value.
func (c *WatchConfig) Normalize() {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
}
