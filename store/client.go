package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

func NewClient(cfg *Config, lifecycle fx.Lifecycle) (*pgxpool.Pool, error) {
	cs, err := cfg.GetConnectionString()
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(cs)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("unable to connect to postgres: %w", err)
			}
			return InitializeSchema(ctx, pool)
		},
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}
