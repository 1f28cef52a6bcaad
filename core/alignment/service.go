package alignment

import "context"

type (
	Repository interface {
		// QueryRows returns the program's rows ordered by sort_order & group_label, with their checks.
		QueryRows(ctx context.Context, programID string) ([]Row, error)
		CreateRow(ctx context.Context, nr NewRow) (Row, error)
		UpdateRow(ctx context.Context, id string, ur UpdateRow) (Row, error)
		DeleteRow(ctx context.Context, id string) error
		UpsertPLOCheck(ctx context.Context, rowID string, sc SetPLOCheck) error
		UpsertMLOCheck(ctx context.Context, rowID string, sc SetMLOCheck) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Rows(ctx context.Context, programID string) ([]Row, error) {
	return svc.repo.QueryRows(ctx, programID)
}

func (svc *Service) CreateRow(ctx context.Context, nr NewRow) (Row, error) {
	return svc.repo.CreateRow(ctx, nr)
}

func (svc *Service) UpdateRow(ctx context.Context, id string, ur UpdateRow) (Row, error) {
	return svc.repo.UpdateRow(ctx, id, ur)
}

func (svc *Service) DeleteRow(ctx context.Context, id string) error {
	return svc.repo.DeleteRow(ctx, id)
}

func (svc *Service) SetPLOCheck(ctx context.Context, rowID string, sc SetPLOCheck) error {
	return svc.repo.UpsertPLOCheck(ctx, rowID, sc)
}

func (svc *Service) SetMLOCheck(ctx context.Context, rowID string, sc SetMLOCheck) error {
	return svc.repo.UpsertMLOCheck(ctx, rowID, sc)
}
