// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cim-context/internal/catalog"
	"github.com/pdiddy/cim-context/internal/convert"
	"github.com/pdiddy/cim-context/internal/watch"
	"github.com/pdiddy/cim-context/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [schema-dir] [output-dir]",
	Short: "Convert RDF schemas into JSON-LD context files",
	Long: `Convert loads every .rdf and .ttl file in schema-dir and writes
output-dir/context.jsonld plus output-dir/CIM/<Class>.jsonld for each class.
Unparseable schema files are skipped with a warning.

Examples:
  # Relative context URLs
  cim-context convert cgmes-data output

  # Absolute URLs for hosting on a specific server
  cim-context convert cgmes-data output --context-base-url https://example.com/contexts

  # Custom namespace, catalog, and regeneration on every schema change
  cim-context convert cgmes-data output --base-uri "http://example.com/cim#" --catalog output.db --watch`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("base-uri", types.DefaultBaseURI, "namespace bound to the cim prefix")
	convertCmd.Flags().String("context-base-url", "", "base URL the contexts are hosted at (default: relative URLs)")
	convertCmd.Flags().Int("workers", 0, "class contexts rendered concurrently (default GOMAXPROCS)")
	convertCmd.Flags().String("catalog", "", "SQLite catalog to index the extracted model into")
	convertCmd.Flags().Bool("watch", false, "keep running and regenerate when schema files change")
	convertCmd.Flags().Duration("debounce", types.DefaultDebounce, "quiet period before a watch-triggered rerun")

	rootCmd.AddCommand(convertCmd)
}

func convertConfig(cmd *cobra.Command, args []string) types.ConverterConfig {
	cfg := types.ConverterConfig{
		SchemaDir:      viper.GetString("schema_dir"),
		OutputDir:      viper.GetString("output_dir"),
		BaseURI:        stringSetting(cmd, "base-uri", "base_uri"),
		ContextBaseURL: stringSetting(cmd, "context-base-url", "context_base_url"),
		Workers:        intSetting(cmd, "workers", "workers"),
		Catalog:        stringSetting(cmd, "catalog", "catalog"),
	}
	if len(args) > 0 {
		cfg.SchemaDir = args[0]
	}
	if len(args) > 1 {
		cfg.OutputDir = args[1]
	}
	return cfg
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfig(cmd, args)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w (pass schema-dir and output-dir, or set them in the config file)", err)
	}

	conv := convert.New(cfg)
	if cfg.Catalog != "" {
		store, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()
		conv.WithIndexer(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := runOnce(ctx, conv, os.Stdout)

	watchMode, _ := cmd.Flags().GetBool("watch")
	if !watchMode {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(os.Stdout, "conversion failed: %v\n", runErr)
	}

	wcfg := types.WatchConfig{Debounce: durationSetting(cmd, "debounce", "debounce")}
	wcfg.Normalize()
	watcher, err := watch.New(cfg.SchemaDir, wcfg.Debounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	return watcher.Run(ctx, os.Stdout, func(ctx context.Context) error {
		return runOnce(ctx, conv, os.Stdout)
	})
}

// runOnce runs one conversion framed by the start and completion banners.
func runOnce(ctx context.Context, conv *convert.Converter, w io.Writer) error {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\nCIM RDF Schema to JSON-LD Context Converter\n%s\n\n", rule, rule)

	summary, err := conv.Run(ctx, w)
	if err != nil {
		return err
	}

	outDir := conv.Config().OutputDir
	if abs, absErr := filepath.Abs(outDir); absErr == nil {
		outDir = abs
	}
	fmt.Fprintf(w, "\n%s\nConversion complete!\n", rule)
	fmt.Fprintf(w, "%d classes, %d properties, %d files loaded, %d skipped\n",
		summary.Classes, summary.Properties, summary.Files-summary.Skipped, summary.Skipped)
	fmt.Fprintf(w, "Output directory: %s\n%s\n\n", outDir, rule)
	return nil
}
