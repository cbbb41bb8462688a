package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitializeSchema creates the base tables, indexes and derived views.
// All statements are idempotent so the schema can be applied on every start.
func InitializeSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, statement := range schemaStatements {
		if _, err := pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("unable to initialize schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS health_records (
		id BIGSERIAL PRIMARY KEY,
		record_type TEXT NOT NULL,
		value DOUBLE PRECISION,
		unit TEXT,
		source_name TEXT,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_health_records_type_start ON health_records (record_type, start_time)`,

	`CREATE TABLE IF NOT EXISTS glucose_readings (
		id BIGSERIAL PRIMARY KEY,
		reading_time TIMESTAMPTZ NOT NULL,
		value_mg_dl DOUBLE PRECISION NOT NULL,
		source TEXT NOT NULL,
		trend TEXT,
		range_band TEXT NOT NULL,
		rate_of_change DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_glucose_readings_time ON glucose_readings (reading_time)`,

	`CREATE TABLE IF NOT EXISTS workout_records (
		id BIGSERIAL PRIMARY KEY,
		activity_type TEXT NOT NULL,
		duration_minutes DOUBLE PRECISION,
		total_distance_km DOUBLE PRECISION,
		total_energy_kcal DOUBLE PRECISION,
		source_name TEXT,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_records_start ON workout_records (start_time)`,

	`CREATE TABLE IF NOT EXISTS merged_records (
		id BIGSERIAL PRIMARY KEY,
		health_time TIMESTAMPTZ NOT NULL,
		glucose_time TIMESTAMPTZ NOT NULL,
		time_diff_minutes DOUBLE PRECISION NOT NULL,
		record_type TEXT NOT NULL,
		health_value DOUBLE PRECISION,
		health_unit TEXT,
		source_name TEXT,
		glucose_value DOUBLE PRECISION NOT NULL,
		glucose_source TEXT NOT NULL,
		glucose_trend TEXT,
		glucose_range TEXT NOT NULL,
		hour_of_day INT NOT NULL,
		day_of_week INT NOT NULL,
		is_weekend BOOLEAN NOT NULL,
		is_night BOOLEAN NOT NULL,
		is_morning BOOLEAN NOT NULL,
		is_afternoon BOOLEAN NOT NULL,
		is_evening BOOLEAN NOT NULL,
		likely_meal_time BOOLEAN NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_merged_records_glucose_time ON merged_records (glucose_time)`,
	`CREATE INDEX IF NOT EXISTS idx_merged_records_type ON merged_records (record_type)`,

	`CREATE TABLE IF NOT EXISTS period_statistics (
		id BIGSERIAL PRIMARY KEY,
		date_start TIMESTAMPTZ NOT NULL,
		date_end TIMESTAMPTZ NOT NULL,
		total_readings INT NOT NULL,
		time_very_low_percent DOUBLE PRECISION,
		time_low_percent DOUBLE PRECISION,
		time_in_range_percent DOUBLE PRECISION,
		time_high_percent DOUBLE PRECISION,
		time_very_high_percent DOUBLE PRECISION,
		average_glucose DOUBLE PRECISION,
		glucose_std DOUBLE PRECISION,
		coefficient_variation DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (date_start, date_end)
	)`,

	`CREATE TABLE IF NOT EXISTS quality_checks (
		id UUID PRIMARY KEY,
		table_name TEXT NOT NULL,
		check_name TEXT NOT NULL,
		result TEXT NOT NULL,
		details TEXT,
		record_count BIGINT NOT NULL,
		checked_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quality_checks_table ON quality_checks (table_name, checked_at)`,

	`CREATE OR REPLACE VIEW daily_glucose_summary AS
		SELECT
			date_trunc('day', reading_time) AS day,
			count(*) AS total_readings,
			avg(value_mg_dl) AS average_glucose,
			stddev_pop(value_mg_dl) AS glucose_std,
			min(value_mg_dl) AS min_glucose,
			max(value_mg_dl) AS max_glucose
		FROM glucose_readings
		GROUP BY 1`,

	`CREATE OR REPLACE VIEW hourly_glucose_summary AS
		SELECT
			date_trunc('hour', reading_time) AS hour,
			count(*) AS total_readings,
			avg(value_mg_dl) AS average_glucose,
			stddev_pop(value_mg_dl) AS glucose_std
		FROM glucose_readings
		GROUP BY 1`,

	`CREATE OR REPLACE VIEW workout_glucose_impact AS
		SELECT
			w.id AS workout_id,
			w.activity_type,
			w.start_time,
			avg(g.value_mg_dl) AS average_glucose_around_workout,
			count(g.id) AS readings_around_workout
		FROM workout_records w
		LEFT JOIN glucose_readings g
			ON g.reading_time BETWEEN w.start_time - INTERVAL '2 hours'
			AND COALESCE(w.end_time, w.start_time) + INTERVAL '2 hours'
		GROUP BY w.id, w.activity_type, w.start_time`,
}
