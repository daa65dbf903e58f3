// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cim-context CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the cim-context CLI.
var rootCmd = &cobra.Command{
	Use:   "cim-context",
	Short: "Compile CIM/CGMES RDF schemas into hosted JSON-LD contexts",
	Long: `cim-context reads RDF Schema documents (RDF/XML .rdf and Turtle .ttl),
extracts their classes and properties, resolves property inheritance along
rdfs:subClassOf, and writes a JSON-LD context tree: context.jsonld listing
every class, plus CIM/<Class>.jsonld for each class.

Settings can also come from cim-context.yaml or CIM_CONTEXT_* environment
variables (schema_dir, output_dir, base_uri, context_base_url, workers,
catalog, debounce).`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cim-context.yaml or ~/.config/cim-context/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cim-context")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cim-context"))
		}
	}

	viper.SetEnvPrefix("CIM_CONTEXT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a setting: an explicitly set flag wins, then the
// config file or environment, then the flag's default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	v, _ := cmd.Flags().GetString(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	return v
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	v, _ := cmd.Flags().GetInt(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return v
}

func durationSetting(cmd *cobra.Command, flag, key string) time.Duration {
	v, _ := cmd.Flags().GetDuration(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
