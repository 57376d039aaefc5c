package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentic-research/ublgen/api"
)

var toStdout bool

var convertCmd = &cobra.Command{
	Use:   "convert <input.json> [output-dir]",
	Short: "Convert a JSON file to UBL XML documents",
	Args:  cobra.RangeArgs(1, 2),
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

		input := args[0]
		outDir := "."
		if len(args) == 2 {
			outDir = args[1]
		}

		if toStdout {
			result, outcome, err := conv.ConvertFile(cmd.Context(), input)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(result))
			for id := range result {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Print(result[id])
			}
			reportFailures(outcome)
			return nil
		}

		outcome, err := conv.ConvertFileToDir(cmd.Context(), input, outDir)
		if err != nil {
			return err
		}
		fmt.Printf("Converted %d input fragment(s) into %d file(s) in %s\n",
			outcome.TotalInputs, outcome.FilesCreated, outDir)
		types := make([]string, 0, len(outcome.TypeCounts))
		for t := range outcome.TypeCounts {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %s: %d\n", t, outcome.TypeCounts[t])
		}
		reportFailures(outcome)
		return nil
	},
}

func reportFailures(outcome *api.Outcome) {
	for _, doc := range outcome.Failed() {
		fmt.Printf("FAILED %s: [%s] %s\n", doc.ID, doc.Error.Code, doc.Error.Message)
	}
}

func init() {
	convertCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print XML to stdout instead of writing files")
	rootCmd.AddCommand(convertCmd)
}
