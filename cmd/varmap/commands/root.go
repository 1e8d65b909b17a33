package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/niksavis/burndown-chart-sub004/internal/config"
	"github.com/niksavis/burndown-chart-sub004/internal/extract"
	"github.com/niksavis/burndown-chart-sub004/internal/logging"
	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
	"github.com/niksavis/burndown-chart-sub004/internal/mcp"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "varmap",
	Short: "Varmap is a variable mapping and extraction MCP Server for issue-tracker records",
	Long: `A rule-based engine that derives typed variables (timestamps, booleans, durations, categories)
from heterogeneous issue-tracker records via priority-ordered source rules, without hardcoded field names.
Running without a subcommand starts the MCP Stdio server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("varmap starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := buildEngine(cfg.MappingsPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load variable mappings")
		}

		server := mcp.NewServer(cfg, engine, Version)
		if err := server.Start(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("MCP Server terminated")
		}
	},
}

// buildEngine loads the mappings file, or falls back to the built-in
// variable catalog when none is configured.
func buildEngine(mappingsPath string) (*extract.Engine, error) {
	var set *mapping.Set
	if mappingsPath != "" {
		loaded, err := mapping.Load(mappingsPath)
		if err != nil {
			return nil, err
		}
		set = loaded
		log.Info().Str("path", mappingsPath).Int("variables", set.Len()).Msg("Loaded variable mappings")
	} else {
		set = mapping.Catalog()
		log.Info().Int("variables", set.Len()).Msg("Using built-in variable catalog")
	}

	return extract.New(set, extract.Options{
		Workers:       cfg.Workers,
		ReferenceTime: cfg.ReferenceDate,
	}), nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
