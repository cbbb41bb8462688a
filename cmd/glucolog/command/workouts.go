package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glucolog/glucolog/health"
	"github.com/glucolog/glucolog/pointer"
)

var workoutsCommand = &cobra.Command{
	Use:   "workouts",
	Short: "List the stored workout sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(runWorkouts)
	},
}

func init() {
	rootCmd.AddCommand(workoutsCommand)
}

func runWorkouts(healthService health.Service) error {
	workouts, err := healthService.ListWorkouts(context.Background())
	if err != nil {
		return err
	}

	for _, workout := range workouts {
		fmt.Printf("%s %s: %.0f min, %.0f kcal\n",
			workout.Start.Format(time.RFC3339),
			workout.ActivityType,
			pointer.ToFloat64(workout.DurationMinutes),
			pointer.ToFloat64(workout.TotalEnergyKcal),
		)
	}
	return nil
}
