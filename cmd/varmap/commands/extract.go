package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/niksavis/burndown-chart-sub004/internal/dataset"
	"github.com/niksavis/burndown-chart-sub004/internal/visuals"
)

var (
	extractRecordsPath  string
	extractMappingsPath string
	extractOutPath      string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run a batch extraction over a JSONL records file",
	Run: func(cmd *cobra.Command, args []string) {
		mappingsPath := extractMappingsPath
		if mappingsPath == "" {
			mappingsPath = cfg.MappingsPath
		}
		engine, err := buildEngine(mappingsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load variable mappings")
		}

		records, err := dataset.LoadRecords(extractRecordsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load records")
		}

		result, err := engine.Run(context.Background(), records)
		if err != nil {
			log.Fatal().Err(err).Msg("Batch extraction aborted")
		}

		log.Info().
			Int("records", len(records)).
			Int("resolved", result.Summary.Resolved).
			Int("filteredOut", result.Summary.FilteredOut).
			Int("unresolvedRequired", result.Summary.UnresolvedRequired).
			Int("unresolvedOptional", result.Summary.UnresolvedOptional).
			Msg("Batch extraction completed")

		for reason, count := range result.Summary.Failures {
			log.Warn().Str("reason", string(reason)).Int("count", count).Msg("Extraction failures")
		}

		if extractOutPath != "" {
			if err := dataset.SaveOutcomes(extractOutPath, result.Outcomes); err != nil {
				log.Fatal().Err(err).Msg("Failed to write outcomes")
			}
		}

		if cfg.EnableMermaidCharts {
			if chart := visuals.GenerateSummaryChart(result.Summary); chart != "" {
				fmt.Println(chart)
			}
		}
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractRecordsPath, "records", "", "path to the JSONL records file (required)")
	extractCmd.Flags().StringVar(&extractMappingsPath, "mappings", "", "path to the mappings file (default: VARMAP_MAPPINGS or built-in catalog)")
	extractCmd.Flags().StringVar(&extractOutPath, "out", "", "write outcomes to this JSONL file")
	_ = extractCmd.MarkFlagRequired("records")
	rootCmd.AddCommand(extractCmd)
}
