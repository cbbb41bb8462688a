package merge

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/glucolog/glucolog/config"
	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
)

type Service interface {
	Merge(ctx context.Context) (int64, error)
	List(ctx context.Context, from *time.Time, to *time.Time) ([]MergedRecord, error)
}

type service struct {
	merger  *Merger
	repo    Repository
	health  health.Repository
	glucose glucose.Repository
	logger  *zap.SugaredLogger
}

var _ Service = (*service)(nil)

func NewMergerFromConfig(cfg *config.Config) *Merger {
	return NewMerger(time.Duration(cfg.MergeToleranceMinutes) * time.Minute)
}

func NewService(merger *Merger, repo Repository, healthRepo health.Repository, glucoseRepo glucose.Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		merger:  merger,
		repo:    repo,
		health:  healthRepo,
		glucose: glucoseRepo,
		logger:  logger,
	}, nil
}

// Merge joins the stored health records against the stored glucose readings
// and replaces the merged_records table with the result.
func (s *service) Merge(ctx context.Context) (int64, error) {
	records, err := s.health.List(ctx, nil, nil, nil)
	if err != nil {
		return 0, err
	}
	readings, err := s.glucose.List(ctx, nil, nil)
	if err != nil {
		return 0, err
	}

	merged := s.merger.Merge(records, readings)
	inserted, err := s.repo.Replace(ctx, merged)
	if err != nil {
		return 0, err
	}

	s.logger.Infow("merged datasets",
		"health_records", len(records),
		"glucose_readings", len(readings),
		"merged_records", inserted,
		"tolerance", s.merger.Tolerance.String(),
	)
	return inserted, nil
}

func (s *service) List(ctx context.Context, from *time.Time, to *time.Time) ([]MergedRecord, error) {
	return s.repo.List(ctx, from, to)
}
