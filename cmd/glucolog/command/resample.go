package command

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/glucolog/glucolog/summary"
)

var resampleParams = struct {
	Out string
}{}

var resampleCommand = &cobra.Command{
	Use:   "resample",
	Short: "Downsample the glucose readings to fixed intervals",
	Long:  "Resample averages the stored readings into buckets of the configured interval and writes the series to a CSV file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runResample)
	},
}

func init() {
	resampleCommand.Flags().StringVar(&resampleParams.Out, "out", "resampled.csv", "Output file path")

	rootCmd.AddCommand(resampleCommand)
}

func runResample(summaryService summary.Service) error {
	buckets, err := summaryService.ResampleReadings(context.Background())
	if err != nil {
		return err
	}

	f, err := os.Create(resampleParams.Out)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"time", "average_glucose", "readings"}); err != nil {
		return err
	}
	for _, bucket := range buckets {
		value := ""
		if bucket.AverageValue != nil {
			value = strconv.FormatFloat(*bucket.AverageValue, 'f', 1, 64)
		}
		row := []string{
			bucket.Time.Format(time.RFC3339),
			value,
			strconv.Itoa(bucket.Readings),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
