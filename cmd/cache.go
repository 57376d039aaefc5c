package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/ublgen/api"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the compiled schema descriptor store",
}

var cacheBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Precompile descriptors for every bundled document type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conv, err := api.New(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = conv.Close() }()

		built, err := conv.BuildCache()
		if err != nil {
			return err
		}
		fmt.Printf("Compiled %d descriptor(s) into %s\n", built, cfg.CachePath)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheBuildCmd)
	rootCmd.AddCommand(cacheCmd)
}
