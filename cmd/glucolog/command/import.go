package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/glucolog/glucolog/config"
	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
)

var importParams = struct {
	HealthPath  string
	GlucosePath string
}{}

var importCommand = &cobra.Command{
	Use:   "import",
	Short: "Import the health XML and glucose CSV exports",
	Long:  "Import parses the configured exports and loads the normalized records into the store. Paths given as flags override the configured ones.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runImport)
	},
}

func init() {
	importCommand.Flags().StringVar(&importParams.HealthPath, "health", "", "Path to the health XML export")
	importCommand.Flags().StringVar(&importParams.GlucosePath, "glucose", "", "Path to the glucose CSV export")

	rootCmd.AddCommand(importCommand)
}

func runImport(healthService health.Service, glucoseService glucose.Service, cfg *config.Config) error {
	ctx := context.Background()

	healthPath := importParams.HealthPath
	if healthPath == "" {
		healthPath = cfg.HealthExportPath
	}
	glucosePath := importParams.GlucosePath
	if glucosePath == "" {
		glucosePath = cfg.GlucoseExportPath
	}

	if _, err := healthService.Import(ctx, healthPath); err != nil {
		return err
	}
	_, err := glucoseService.Import(ctx, glucosePath)
	return err
}
