package command

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/summary"
)

var reportParams = struct {
	Out string
}{}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Write an xlsx report of the glucose statistics",
	Long:  "Report renders the overall and daily period statistics, and the glucose correlations, into an xlsx workbook.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runReport)
	},
}

func init() {
	reportCommand.Flags().StringVar(&reportParams.Out, "out", "glucolog-report.xlsx", "Output file path")

	rootCmd.AddCommand(reportCommand)
}

func runReport(glucoseRepo glucose.Repository, summaryService summary.Service) error {
	ctx := context.Background()

	readings, err := glucoseRepo.List(ctx, nil, nil)
	if err != nil {
		return err
	}

	var overall summary.PeriodStatistics
	if len(readings) > 0 {
		start := readings[0].Time
		end := readings[len(readings)-1].Time.Add(time.Second)
		overall = summary.Calculate(readings, start, end)
	}
	daily := summary.CalculateDaily(readings, time.UTC)

	correlations, err := summaryService.Correlations(ctx)
	if err != nil {
		return err
	}

	report := summary.NewReport(overall, daily, correlations)
	workbook, err := report.Generate()
	if err != nil {
		return err
	}

	return workbook.Save(reportParams.Out)
}
