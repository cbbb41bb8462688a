package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CreateMany(ctx context.Context, records []Record) (int64, error)
	CreateWorkouts(ctx context.Context, workouts []Workout) (int64, error)
	List(ctx context.Context, types []string, from *time.Time, to *time.Time) ([]Record, error)
	ListWorkouts(ctx context.Context) ([]Workout, error)
	Count(ctx context.Context) (int64, error)
}

func NewRepository(db *pgxpool.Pool) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *pgxpool.Pool
}

var _ Repository = (*repository)(nil)

func (r *repository) CreateMany(ctx context.Context, records []Record) (int64, error) {
	rows := make([][]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, []interface{}{
			record.Type,
			record.Value,
			record.Unit,
			record.SourceName,
			record.Start,
			record.End,
		})
	}

	return r.db.CopyFrom(ctx,
		pgx.Identifier{"health_records"},
		[]string{"record_type", "value", "unit", "source_name", "start_time", "end_time"},
		pgx.CopyFromRows(rows),
	)
}

func (r *repository) CreateWorkouts(ctx context.Context, workouts []Workout) (int64, error) {
	rows := make([][]interface{}, 0, len(workouts))
	for _, workout := range workouts {
		rows = append(rows, []interface{}{
			workout.ActivityType,
			workout.DurationMinutes,
			workout.TotalDistanceKm,
			workout.TotalEnergyKcal,
			workout.SourceName,
			workout.Start,
			workout.End,
		})
	}

	return r.db.CopyFrom(ctx,
		pgx.Identifier{"workout_records"},
		[]string{"activity_type", "duration_minutes", "total_distance_km", "total_energy_kcal", "source_name", "start_time", "end_time"},
		pgx.CopyFromRows(rows),
	)
}

func (r *repository) List(ctx context.Context, types []string, from *time.Time, to *time.Time) ([]Record, error) {
	query := `
		SELECT record_type, value, unit, source_name, start_time, end_time
		FROM health_records
		WHERE ($1::text[] IS NULL OR cardinality($1::text[]) = 0 OR record_type = ANY($1))
		  AND ($2::timestamptz IS NULL OR start_time >= $2)
		  AND ($3::timestamptz IS NULL OR start_time < $3)
		ORDER BY start_time ASC`

	rows, err := r.db.Query(ctx, query, types, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.Type, &record.Value, &record.Unit, &record.SourceName, &record.Start, &record.End); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *repository) ListWorkouts(ctx context.Context) ([]Workout, error) {
	query := `
		SELECT activity_type, duration_minutes, total_distance_km, total_energy_kcal, source_name, start_time, end_time
		FROM workout_records
		ORDER BY start_time ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var workout Workout
		if err := rows.Scan(&workout.ActivityType, &workout.DurationMinutes, &workout.TotalDistanceKm, &workout.TotalEnergyKcal, &workout.SourceName, &workout.Start, &workout.End); err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}

	return workouts, rows.Err()
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM health_records`).Scan(&count)
	return count, err
}
