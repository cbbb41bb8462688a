package merge

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glucolog/glucolog/glucose"
)

type Repository interface {
	Replace(ctx context.Context, records []MergedRecord) (int64, error)
	List(ctx context.Context, from *time.Time, to *time.Time) ([]MergedRecord, error)
	Count(ctx context.Context) (int64, error)
}

func NewRepository(db *pgxpool.Pool) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *pgxpool.Pool
}

var _ Repository = (*repository)(nil)

// Replace swaps the merged_records content for the given set in a single
// transaction, so re-running the merger is idempotent.
func (r *repository) Replace(ctx context.Context, records []MergedRecord) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM merged_records`); err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, []interface{}{
			record.HealthTime,
			record.GlucoseTime,
			record.TimeDiffMinutes,
			record.RecordType,
			record.HealthValue,
			record.HealthUnit,
			record.SourceName,
			record.GlucoseValue,
			string(record.GlucoseSource),
			trendValue(record.GlucoseTrend),
			string(record.GlucoseRange),
			record.Context.Hour,
			record.Context.DayOfWeek,
			record.Context.IsWeekend,
			record.Context.IsNight,
			record.Context.IsMorning,
			record.Context.IsAfternoon,
			record.Context.IsEvening,
			record.Context.LikelyMealTime,
		})
	}

	inserted, err := tx.CopyFrom(ctx,
		pgx.Identifier{"merged_records"},
		[]string{
			"health_time", "glucose_time", "time_diff_minutes",
			"record_type", "health_value", "health_unit", "source_name",
			"glucose_value", "glucose_source", "glucose_trend", "glucose_range",
			"hour_of_day", "day_of_week", "is_weekend",
			"is_night", "is_morning", "is_afternoon", "is_evening",
			"likely_meal_time",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, err
	}

	return inserted, tx.Commit(ctx)
}

func (r *repository) List(ctx context.Context, from *time.Time, to *time.Time) ([]MergedRecord, error) {
	query := `
		SELECT health_time, glucose_time, time_diff_minutes,
			record_type, health_value, health_unit, source_name,
			glucose_value, glucose_source, glucose_trend, glucose_range,
			hour_of_day, day_of_week, is_weekend,
			is_night, is_morning, is_afternoon, is_evening,
			likely_meal_time
		FROM merged_records
		WHERE ($1::timestamptz IS NULL OR glucose_time >= $1)
		  AND ($2::timestamptz IS NULL OR glucose_time < $2)
		ORDER BY glucose_time ASC, health_time ASC`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MergedRecord
	for rows.Next() {
		var record MergedRecord
		var source, band string
		var trend *string
		err := rows.Scan(
			&record.HealthTime, &record.GlucoseTime, &record.TimeDiffMinutes,
			&record.RecordType, &record.HealthValue, &record.HealthUnit, &record.SourceName,
			&record.GlucoseValue, &source, &trend, &band,
			&record.Context.Hour, &record.Context.DayOfWeek, &record.Context.IsWeekend,
			&record.Context.IsNight, &record.Context.IsMorning, &record.Context.IsAfternoon, &record.Context.IsEvening,
			&record.Context.LikelyMealTime,
		)
		if err != nil {
			return nil, err
		}
		record.GlucoseSource = glucose.Source(source)
		record.GlucoseRange = glucose.Range(band)
		if trend != nil {
			t := glucose.Trend(*trend)
			record.GlucoseTrend = &t
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM merged_records`).Scan(&count)
	return count, err
}

func trendValue(trend *glucose.Trend) *string {
	if trend == nil {
		return nil
	}
	s := string(*trend)
	return &s
}
