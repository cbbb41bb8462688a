package pipeline

import (
	"go.uber.org/fx"

	"github.com/glucolog/glucolog/config"
	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
	"github.com/glucolog/glucolog/logger"
	"github.com/glucolog/glucolog/merge"
	"github.com/glucolog/glucolog/quality"
	"github.com/glucolog/glucolog/store"
	"github.com/glucolog/glucolog/summary"
)

func NewConfig() (*config.Config, error) {
	cfg := config.New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Dependencies is the full provider graph of the pipeline. Commands and the
// main loop run against it.
func Dependencies() []fx.Option {
	return []fx.Option{
		fx.Provide(
			logger.NewProductionLogger,
			logger.Sugar,
			NewConfig,
			store.NewConfig,
			store.NewClient,
			health.NewLoader,
			health.NewRepository,
			health.NewService,
			glucose.NewLoader,
			glucose.NewRepository,
			glucose.NewService,
			merge.NewMergerFromConfig,
			merge.NewRepository,
			merge.NewService,
			summary.NewRepository,
			summary.NewService,
			quality.NewChecker,
			quality.NewRepository,
			quality.NewService,
			NewRunner,
		),
	}
}
