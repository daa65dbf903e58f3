// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cim-context/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query the model catalog written by convert --catalog",
	Long: `Catalog reads the SQLite catalog that convert --catalog fills with the
extracted classes and their effective (own plus inherited) properties.`,
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show <class>",
	Short: "Show a class and its effective properties",
	Long: `Show prints one class from the catalog: its URI, label, ancestor chain,
and every effective property with its JSON-LD @type and declaring class.
Output is YAML unless --json or --table is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Class(context.Background(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	tableOutput, _ := cmd.Flags().GetBool("table")
	switch {
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	case tableOutput:
		return formatClassTable(os.Stdout, entry)
	default:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(entry); err != nil {
			return err
		}
		return enc.Close()
	}
}

func formatClassTable(w io.Writer, entry *catalog.ClassEntry) error {
	fmt.Fprintf(w, "%s  <%s>\n", entry.Name, entry.ID)
	if len(entry.Ancestors) > 0 {
		fmt.Fprintf(w, "ancestors: %s\n", strings.Join(entry.Ancestors, " -> "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-40s  %-14s  %-20s  %s\n", "Property", "Type", "Declared on", "Inherited")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, p := range entry.Properties {
		name := p.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		inherited := ""
		if p.Inherited(entry.Name) {
			inherited = "yes"
		}
		fmt.Fprintf(w, "%-40s  %-14s  %-20s  %s\n", name, p.Type, p.DeclaredOn, inherited)
	}
	fmt.Fprintf(w, "\n%d properties\n", len(entry.Properties))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole catalog to YAML or JSON",
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch format {
	case "yaml", "":
		if out == "" {
			out = "catalog-export.yaml"
		}
		if err := store.ExportYAML(ctx, out); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "catalog-export.json"
		}
		if err := store.ExportJSON(ctx, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported catalog %s to %s\n", store.Path(), out)
	return nil
}

// --- shared helpers ---

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	path := stringSetting(cmd, "catalog", "catalog")
	if path == "" {
		return nil, fmt.Errorf("catalog path required: pass --catalog or set catalog in the config file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog.Open(path)
}

func init() {
	// Shared flag on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog", "", "SQLite catalog written by convert --catalog")

	catalogShowCmd.Flags().Bool("json", false, "output as JSON")
	catalogShowCmd.Flags().Bool("table", false, "output as a table")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("out", "", "output file (default catalog-export.<format>)")

	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
