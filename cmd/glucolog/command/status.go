package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
	"github.com/glucolog/glucolog/merge"
	"github.com/glucolog/glucolog/quality"
	"github.com/glucolog/glucolog/store"
	"github.com/glucolog/glucolog/summary"
)

var statusParams = struct {
	Checks int
}{}

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show the stored dataset sizes and recent quality outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runStatus)
	},
}

func init() {
	statusCommand.Flags().IntVar(&statusParams.Checks, "checks", 10, "Number of recent quality checks to show")

	rootCmd.AddCommand(statusCommand)
}

func runStatus(
	healthRepo health.Repository,
	glucoseRepo glucose.Repository,
	mergeRepo merge.Repository,
	summaryService summary.Service,
	qualityService quality.Service,
) error {
	ctx, cancel := store.NewDbContext()
	defer cancel()

	healthCount, err := healthRepo.Count(ctx)
	if err != nil {
		return err
	}
	glucoseCount, err := glucoseRepo.Count(ctx)
	if err != nil {
		return err
	}
	mergedCount, err := mergeRepo.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("health records:  %d\n", healthCount)
	fmt.Printf("glucose readings: %d\n", glucoseCount)
	fmt.Printf("merged records:  %d\n", mergedCount)

	periods, err := summaryService.List(ctx, nil, nil)
	if err != nil {
		return err
	}
	fmt.Printf("summarized windows: %d\n", len(periods))

	page := store.DefaultPagination().WithLimit(statusParams.Checks)
	checks, err := qualityService.List(ctx, nil, page)
	if err != nil {
		return err
	}
	if len(checks) > 0 {
		fmt.Println("recent quality checks:")
		for _, check := range checks {
			fmt.Printf("  %s %-8s %s/%s\n",
				check.CheckedAt.Format(time.RFC3339), check.Result, check.TableName, check.CheckName)
		}
	}
	return nil
}
