package quality

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glucolog/glucolog/store"
)

type Repository interface {
	Append(ctx context.Context, results []CheckResult) error
	List(ctx context.Context, tableName *string, page store.Pagination, sort store.Sort) ([]CheckResult, error)
}

func NewRepository(db *pgxpool.Pool) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *pgxpool.Pool
}

var _ Repository = (*repository)(nil)

func (r *repository) Append(ctx context.Context, results []CheckResult) error {
	query := `
		INSERT INTO quality_checks (id, table_name, check_name, result, details, record_count, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, result := range results {
		_, err := r.db.Exec(ctx, query,
			result.Id, result.TableName, result.CheckName,
			string(result.Result), result.Details, result.RecordCount, result.CheckedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) List(ctx context.Context, tableName *string, page store.Pagination, sort store.Sort) ([]CheckResult, error) {
	query := fmt.Sprintf(`
		SELECT id, table_name, check_name, result, details, record_count, checked_at
		FROM quality_checks
		WHERE ($1::text IS NULL OR table_name = $1)
		ORDER BY checked_at %s
		LIMIT $2 OFFSET $3`, sort.Order())

	rows, err := r.db.Query(ctx, query, tableName, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []CheckResult
	for rows.Next() {
		var result CheckResult
		var outcome string
		if err := rows.Scan(&result.Id, &result.TableName, &result.CheckName, &outcome, &result.Details, &result.RecordCount, &result.CheckedAt); err != nil {
			return nil, err
		}
		result.Result = Result(outcome)
		results = append(results, result)
	}

	return results, rows.Err()
}
