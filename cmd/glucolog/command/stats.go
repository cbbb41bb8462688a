package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glucolog/glucolog/summary"
)

var statsParams = struct {
	Start string
	End   string
	Daily bool
}{}

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Compute time-in-range statistics",
	Long:  "Stats computes period statistics over a date range, or one row per day with --daily, and persists the results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runStats)
	},
}

func init() {
	statsCommand.Flags().StringVar(&statsParams.Start, "start", "", "Range start date (YYYY-MM-DD)")
	statsCommand.Flags().StringVar(&statsParams.End, "end", "", "Range end date (YYYY-MM-DD, exclusive)")
	statsCommand.Flags().BoolVar(&statsParams.Daily, "daily", false, "Compute one summary per day instead of a single range")

	rootCmd.AddCommand(statsCommand)
}

func runStats(summaryService summary.Service) error {
	ctx := context.Background()

	if statsParams.Daily {
		daily, err := summaryService.CalculateAllDaily(ctx)
		if err != nil {
			return err
		}
		for _, stats := range daily {
			printStats(stats)
		}
		return nil
	}

	start, err := time.Parse(time.DateOnly, statsParams.Start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(time.DateOnly, statsParams.End)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	stats, err := summaryService.CalculateRange(ctx, start, end)
	if err != nil {
		return err
	}
	printStats(*stats)
	return nil
}

func printStats(stats summary.PeriodStatistics) {
	fmt.Printf("%s to %s: %d readings", stats.DateStart.Format(time.DateOnly), stats.DateEnd.Format(time.DateOnly), stats.TotalReadings)
	if stats.TimeInRangePercent != nil {
		fmt.Printf(", in range %.1f%%", *stats.TimeInRangePercent)
	}
	if stats.AverageGlucose != nil {
		fmt.Printf(", average %.1f mg/dL", *stats.AverageGlucose)
	}
	fmt.Println()
}
