package summary

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/glucolog/glucolog/config"
	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/merge"
)

type Service interface {
	// CalculateRange computes and persists the statistics of one window.
	CalculateRange(ctx context.Context, start time.Time, end time.Time) (*PeriodStatistics, error)

	// CalculateAllDaily computes and persists one statistics row per day
	// covered by the stored readings.
	CalculateAllDaily(ctx context.Context) ([]PeriodStatistics, error)

	// Correlations reports glucose correlations across merged records.
	Correlations(ctx context.Context) ([]Correlation, error)

	// ResampleReadings downsamples the stored readings to the configured
	// interval.
	ResampleReadings(ctx context.Context) ([]Bucket, error)

	List(ctx context.Context, from *time.Time, to *time.Time) ([]PeriodStatistics, error)
}

type service struct {
	cfg     *config.Config
	repo    Repository
	glucose glucose.Repository
	merged  merge.Repository
	logger  *zap.SugaredLogger
}

var _ Service = (*service)(nil)

func NewService(cfg *config.Config, repo Repository, glucoseRepo glucose.Repository, mergedRepo merge.Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		cfg:     cfg,
		repo:    repo,
		glucose: glucoseRepo,
		merged:  mergedRepo,
		logger:  logger,
	}, nil
}

func (s *service) CalculateRange(ctx context.Context, start time.Time, end time.Time) (*PeriodStatistics, error) {
	readings, err := s.glucose.List(ctx, &start, &end)
	if err != nil {
		return nil, err
	}

	stats := Calculate(readings, start, end)
	if err := s.repo.Upsert(ctx, stats); err != nil {
		return nil, err
	}

	s.logger.Infow("calculated period statistics",
		"start", start,
		"end", end,
		"total_readings", stats.TotalReadings,
	)
	return &stats, nil
}

func (s *service) CalculateAllDaily(ctx context.Context) ([]PeriodStatistics, error) {
	readings, err := s.glucose.List(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	daily := CalculateDaily(readings, time.UTC)
	for _, stats := range daily {
		if err := s.repo.Upsert(ctx, stats); err != nil {
			return nil, err
		}
	}

	s.logger.Infow("calculated daily statistics", "days", len(daily))
	return daily, nil
}

func (s *service) Correlations(ctx context.Context) ([]Correlation, error) {
	records, err := s.merged.List(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return Correlations(records), nil
}

func (s *service) ResampleReadings(ctx context.Context) ([]Bucket, error) {
	readings, err := s.glucose.List(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	interval := time.Duration(s.cfg.ResampleMinutes) * time.Minute
	return Resample(readings, interval), nil
}

func (s *service) List(ctx context.Context, from *time.Time, to *time.Time) ([]PeriodStatistics, error) {
	return s.repo.List(ctx, from, to)
}
