package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/niksavis/burndown-chart-sub004/internal/mapping"
)

var validateMappingsPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a mappings file without running an extraction",
	Run: func(cmd *cobra.Command, args []string) {
		set, err := mapping.Load(validateMappingsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", validateMappingsPath).Msg("Mappings file is invalid")
		}
		log.Info().
			Str("path", validateMappingsPath).
			Int("variables", set.Len()).
			Strs("names", set.Names()).
			Msg("Mappings file is valid")
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateMappingsPath, "mappings", "", "path to the mappings file (required)")
	_ = validateCmd.MarkFlagRequired("mappings")
	rootCmd.AddCommand(validateCmd)
}
