package summary

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Upsert(ctx context.Context, stats PeriodStatistics) error
	List(ctx context.Context, from *time.Time, to *time.Time) ([]PeriodStatistics, error)
}

func NewRepository(db *pgxpool.Pool) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *pgxpool.Pool
}

var _ Repository = (*repository)(nil)

// Upsert stores the statistics of a window, recomputation overwriting any
// earlier result for the same window.
func (r *repository) Upsert(ctx context.Context, stats PeriodStatistics) error {
	query := `
		INSERT INTO period_statistics (
			date_start, date_end, total_readings,
			time_very_low_percent, time_low_percent, time_in_range_percent,
			time_high_percent, time_very_high_percent,
			average_glucose, glucose_std, coefficient_variation
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (date_start, date_end) DO UPDATE SET
			total_readings = EXCLUDED.total_readings,
			time_very_low_percent = EXCLUDED.time_very_low_percent,
			time_low_percent = EXCLUDED.time_low_percent,
			time_in_range_percent = EXCLUDED.time_in_range_percent,
			time_high_percent = EXCLUDED.time_high_percent,
			time_very_high_percent = EXCLUDED.time_very_high_percent,
			average_glucose = EXCLUDED.average_glucose,
			glucose_std = EXCLUDED.glucose_std,
			coefficient_variation = EXCLUDED.coefficient_variation`

	_, err := r.db.Exec(ctx, query,
		stats.DateStart, stats.DateEnd, stats.TotalReadings,
		stats.TimeVeryLowPercent, stats.TimeLowPercent, stats.TimeInRangePercent,
		stats.TimeHighPercent, stats.TimeVeryHighPercent,
		stats.AverageGlucose, stats.GlucoseStd, stats.CoefficientVariation,
	)
	return err
}

func (r *repository) List(ctx context.Context, from *time.Time, to *time.Time) ([]PeriodStatistics, error) {
	query := `
		SELECT date_start, date_end, total_readings,
			time_very_low_percent, time_low_percent, time_in_range_percent,
			time_high_percent, time_very_high_percent,
			average_glucose, glucose_std, coefficient_variation
		FROM period_statistics
		WHERE ($1::timestamptz IS NULL OR date_start >= $1)
		  AND ($2::timestamptz IS NULL OR date_end <= $2)
		ORDER BY date_start ASC`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []PeriodStatistics
	for rows.Next() {
		var stats PeriodStatistics
		err := rows.Scan(
			&stats.DateStart, &stats.DateEnd, &stats.TotalReadings,
			&stats.TimeVeryLowPercent, &stats.TimeLowPercent, &stats.TimeInRangePercent,
			&stats.TimeHighPercent, &stats.TimeVeryHighPercent,
			&stats.AverageGlucose, &stats.GlucoseStd, &stats.CoefficientVariation,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, stats)
	}

	return results, rows.Err()
}
