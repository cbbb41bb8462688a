package pipeline

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/glucolog/glucolog/config"
	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
	"github.com/glucolog/glucolog/merge"
	"github.com/glucolog/glucolog/quality"
	"github.com/glucolog/glucolog/summary"
)

// Runner executes the pipeline stages in order: extraction and load,
// temporal merge, statistics, quality battery. Every stage is idempotent
// against the same inputs, so a crashed run can simply be repeated.
type Runner struct {
	cfg     *config.Config
	health  health.Service
	glucose glucose.Service
	merge   merge.Service
	summary summary.Service
	quality quality.Service
	logger  *zap.SugaredLogger
}

func NewRunner(
	cfg *config.Config,
	healthService health.Service,
	glucoseService glucose.Service,
	mergeService merge.Service,
	summaryService summary.Service,
	qualityService quality.Service,
	logger *zap.SugaredLogger,
) *Runner {
	return &Runner{
		cfg:     cfg,
		health:  healthService,
		glucose: glucoseService,
		merge:   mergeService,
		summary: summaryService,
		quality: qualityService,
		logger:  logger,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	if _, err := r.health.Import(ctx, r.cfg.HealthExportPath); err != nil {
		return err
	}
	if _, err := r.glucose.Import(ctx, r.cfg.GlucoseExportPath); err != nil {
		return err
	}
	if _, err := r.merge.Merge(ctx); err != nil {
		return err
	}
	if _, err := r.summary.CalculateAllDaily(ctx); err != nil {
		return err
	}
	if _, err := r.quality.RunAll(ctx); err != nil {
		return err
	}

	r.logger.Infow("pipeline finished")
	return nil
}

// Start schedules the batch run once the dependency graph is up and shuts
// the application down when it completes.
func Start(runner *Runner, shutdowner fx.Shutdowner, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := runner.Run(context.Background()); err != nil {
					runner.logger.Errorw("pipeline failed", "error", err)
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}

func MainLoop() {
	options := append(Dependencies(), fx.Invoke(Start))
	fx.New(options...).Run()
}
