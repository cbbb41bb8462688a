package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glucolog/glucolog/quality"
)

var checkCommand = &cobra.Command{
	Use:   "check",
	Short: "Run the data quality battery",
	Long:  "Check runs every validation check against the stored datasets and appends the outcomes to the quality log.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runCheck)
	},
}

func init() {
	rootCmd.AddCommand(checkCommand)
}

func runCheck(qualityService quality.Service) error {
	results, err := qualityService.RunAll(context.Background())
	if err != nil {
		return err
	}

	for _, result := range results {
		fmt.Printf("%-8s %s/%s: %s\n", result.Result, result.TableName, result.CheckName, result.Details)
	}
	return nil
}
