package score

import "context"

type (
	Repository interface {
		// QueryScores orders by lo_level, lo_code then latest year first.
		QueryScores(ctx context.Context, programID string, filter QueryFilter) ([]PLOScore, error)
		QuerySummary(ctx context.Context, programID string, year int) ([]Summary, error)
		UpsertScore(ctx context.Context, us UpsertScore) (PLOScore, error)
		UpdateScore(ctx context.Context, id string, us UpdateScore) (PLOScore, error)
		DeleteScore(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Scores(ctx context.Context, programID string, filter QueryFilter) ([]PLOScore, error) {
	filter.Clean()
	return svc.repo.QueryScores(ctx, programID, filter)
}

func (svc *Service) Summary(ctx context.Context, programID string, year int) ([]Summary, error) {
	return svc.repo.QuerySummary(ctx, programID, year)
}

func (svc *Service) Upsert(ctx context.Context, us UpsertScore) (PLOScore, error) {
	return svc.repo.UpsertScore(ctx, us)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateScore) (PLOScore, error) {
	return svc.repo.UpdateScore(ctx, id, us)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteScore(ctx, id)
}
