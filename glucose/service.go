package glucose

import (
	"context"

	"go.uber.org/zap"
)

type Service interface {
	Import(ctx context.Context, path string) (*LoadResult, error)
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

	inserted, err := s.repo.CreateMany(ctx, result.Readings)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("imported glucose readings",
		"path", path,
		"inserted", inserted,
		"skipped", result.Skipped,
	)
	return result, nil
}
