package command

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/glucolog/glucolog/merge"
)

var exportParams = struct {
	Format string
	Out    string
}{}

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the merged dataset",
	Long:  "Export writes the merged records to a CSV or JSON file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runExport)
	},
}

func init() {
	exportCommand.Flags().StringVar(&exportParams.Format, "format", "csv", "Export format: csv or json")
	exportCommand.Flags().StringVar(&exportParams.Out, "out", "merged.csv", "Output file path")

	rootCmd.AddCommand(exportCommand)
}

func runExport(mergeService merge.Service) error {
	records, err := mergeService.List(context.Background(), nil, nil)
	if err != nil {
		return err
	}

	f, err := os.Create(exportParams.Out)
	if err != nil {
		return err
	}
	defer f.Close()

	return merge.Export(f, records, exportParams.Format)
}
