package health

import (
	"context"

	"go.uber.org/zap"
)

type Service interface {
	Import(ctx context.Context, path string) (*LoadResult, error)
	ListWorkouts(ctx context.Context) ([]Workout, error)
}

type service struct {
	loader *Loader
	repo   Repository
	logger *zap.SugaredLogger
}

var _ Service = (*service)(nil)

func NewService(loader *Loader, repo Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		loader: loader,
		repo:   repo,
		logger: logger,
	}, nil
}

func (s *service) Import(ctx context.Context, path string) (*LoadResult, error) {
	result, err := s.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}

	insertedRecords, err := s.repo.CreateMany(ctx, result.Records)
	if err != nil {
		return nil, err
	}
	insertedWorkouts, err := s.repo.CreateWorkouts(ctx, result.Workouts)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("imported health export",
		"path", path,
		"records", insertedRecords,
		"workouts", insertedWorkouts,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (s *service) ListWorkouts(ctx context.Context) ([]Workout, error) {
	return s.repo.ListWorkouts(ctx)
}
