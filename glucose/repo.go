package glucose

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CreateMany(ctx context.Context, readings []Reading) (int64, error)
	List(ctx context.Context, from *time.Time, to *time.Time) ([]Reading, error)
	Count(ctx context.Context) (int64, error)
}

func NewRepository(db *pgxpool.Pool) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *pgxpool.Pool
}

var _ Repository = (*repository)(nil)

func (r *repository) CreateMany(ctx context.Context, readings []Reading) (int64, error) {
	rows := make([][]interface{}, 0, len(readings))
	for _, reading := range readings {
		rows = append(rows, []interface{}{
			reading.Time,
			reading.Value,
			string(reading.Source),
			trendValue(reading.Trend),
			string(reading.Range),
			reading.RateOfChange,
		})
	}

	return r.db.CopyFrom(ctx,
		pgx.Identifier{"glucose_readings"},
		[]string{"reading_time", "value_mg_dl", "source", "trend", "range_band", "rate_of_change"},
		pgx.CopyFromRows(rows),
	)
}

func (r *repository) List(ctx context.Context, from *time.Time, to *time.Time) ([]Reading, error) {
	query := `
		SELECT reading_time, value_mg_dl, source, trend, range_band, rate_of_change
		FROM glucose_readings
		WHERE ($1::timestamptz IS NULL OR reading_time >= $1)
		  AND ($2::timestamptz IS NULL OR reading_time < $2)
		ORDER BY reading_time ASC`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var reading Reading
		var source string
		var trend *string
		var band string
		if err := rows.Scan(&reading.Time, &reading.Value, &source, &trend, &band, &reading.RateOfChange); err != nil {
			return nil, err
		}
		reading.Source = Source(source)
		reading.Range = Range(band)
		if trend != nil {
			t := Trend(*trend)
			reading.Trend = &t
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM glucose_readings`).Scan(&count)
	return count, err
}

func trendValue(trend *Trend) *string {
	if trend == nil {
		return nil
	}
	s := string(*trend)
	return &s
}
