package quality

import (
	"context"

	"go.uber.org/zap"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
	"github.com/glucolog/glucolog/store"
)

type Service interface {
	// RunAll runs the whole battery against the stored datasets and
	// appends the outcomes to the quality log.
	RunAll(ctx context.Context) ([]CheckResult, error)

	List(ctx context.Context, tableName *string, page store.Pagination) ([]CheckResult, error)
}

type service struct {
	checker *Checker
	repo    Repository
	glucose glucose.Repository
	health  health.Repository
	logger  *zap.SugaredLogger
}

var _ Service = (*service)(nil)

func NewService(checker *Checker, repo Repository, glucoseRepo glucose.Repository, healthRepo health.Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		checker: checker,
		repo:    repo,
		glucose: glucoseRepo,
		health:  healthRepo,
		logger:  logger,
	}, nil
}

func (s *service) RunAll(ctx context.Context) ([]CheckResult, error) {
	readings, err := s.glucose.List(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	records, err := s.health.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	results := s.checker.RunAll(readings, records)

	clusterResult, err := NewReadingClusterReporter(readings).Summarize()
	if err != nil {
		return nil, err
	}
	results = append(results, clusterResult)

	if err := s.repo.Append(ctx, results); err != nil {
		return nil, err
	}

	failures, warnings := 0, 0
	for _, result := range results {
		switch result.Result {
		case ResultFail:
			failures++
		case ResultWarning:
			warnings++
		}
	}
	s.logger.Infow("quality battery finished",
		"checks", len(results),
		"failures", failures,
		"warnings", warnings,
	)
	return results, nil
}

// List returns stored check outcomes, most recent first.
func (s *service) List(ctx context.Context, tableName *string, page store.Pagination) ([]CheckResult, error) {
	return s.repo.List(ctx, tableName, page, store.Sort{Attribute: "checked_at"})
}
