package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/ublgen/internal/config"
)

var (
	configPath string
	schemaRoot string
	cachePath  string
	workers    int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ublgen",
	Short: "Schema-driven JSON to UBL 2.1 XML converter",
	Long: `ublgen converts loosely-typed JSON documents into UBL 2.1 XML across
all document types, driven entirely by the UBL XSD schemas. Multi-page
documents sharing an id are merged before serialization.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&schemaRoot, "schemas", "s", "", "Path to UBL 2.1 XSD root (maindoc/ + common/)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Path to the compiled descriptor store")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Parallel document workers (0 = auto)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr at debug level")
}

// loadConfig resolves the effective configuration: file (if given), then
// defaults, then flag overrides.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if schemaRoot != "" {
		cfg.SchemaRoot = schemaRoot
	}
	if cachePath != "" {
		cfg.CachePath = cachePath
	}
	if workers > 0 {
		cfg.MaxWorkers = workers
	}
	if verbose {
		cfg.EnableLogging = true
		cfg.LogLevel = "debug"
		cfg.LogFile = ""
	}
	return cfg, nil
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
