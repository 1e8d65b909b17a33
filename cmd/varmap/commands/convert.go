package commands

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/niksavis/burndown-chart-sub004/internal/dataset"
	"github.com/niksavis/burndown-chart-sub004/internal/jira"
)

var (
	convertInPath  string
	convertOutPath string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a Jira issue search export into a JSONL records file",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(convertInPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", convertInPath).Msg("Failed to read search export")
		}

		records, err := jira.DecodeSearch(data)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to decode search export")
		}

		if err := dataset.SaveRecords(convertOutPath, records); err != nil {
			log.Fatal().Err(err).Msg("Failed to write records")
		}

		log.Info().
			Int("records", len(records)).
			Str("path", convertOutPath).
			Msg("Converted search export to records")
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertInPath, "in", "", "path to the Jira search export JSON file (required)")
	convertCmd.Flags().StringVar(&convertOutPath, "out", "records.jsonl", "path of the JSONL records file to write")
	_ = convertCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(convertCmd)
}
