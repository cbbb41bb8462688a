package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/glucolog/glucolog/merge"
)

var mergeParams = struct {
	ToleranceMinutes int
}{}

var mergeCommand = &cobra.Command{
	Use:   "merge",
	Short: "Join health records to their nearest glucose readings",
	Long:  "Merge pairs every stored health record with the glucose reading closest in time and rebuilds the merged dataset. A tolerance of 0 accepts every nearest match.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runMerge, fx.Decorate(overrideMerger))
	},
}

func init() {
	mergeCommand.Flags().IntVar(&mergeParams.ToleranceMinutes, "tolerance", 0, "Maximum gap in minutes between paired records, 0 for unconstrained")

	rootCmd.AddCommand(mergeCommand)
}

func overrideMerger(merger *merge.Merger) *merge.Merger {
	if mergeParams.ToleranceMinutes > 0 {
		return merge.NewMerger(time.Duration(mergeParams.ToleranceMinutes) * time.Minute)
	}
	return merger
}

func runMerge(mergeService merge.Service) error {
	merged, err := mergeService.Merge(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("merged %d records\n", merged)
	return nil
}
