package subject

import (
	"context"

	"github.com/fmsedu/curriculum/core"
)

type (
	Repository interface {
		// FilterSubjects does a case-insensitive match of Search on code, name_th and name_en.
		FilterSubjects(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Subject, int, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		CreateSubject(ctx context.Context, ns NewSubject) (Subject, error)
		// UpdateSubject also recomputes the credit totals of every semester offering the subject.
		UpdateSubject(ctx context.Context, id string, us UpdateSubject) (Subject, error)
		DeleteSubject(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

var SubjectOrderings = map[string]string{
	"code":            "code",
	"name_th":         "name_th",
	"name_en":         "name_en",
	"default_credits": "default_credits",
	"created_at":      "created_at",
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Subject, int, error) {
	filter.Clean()
	ordering = core.WhitelistOrdering(ordering, SubjectOrderings)
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "code", Ascending: true}}
	}
	return svc.repo.FilterSubjects(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubject(ctx, id)
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	return svc.repo.CreateSubject(ctx, ns)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	return svc.repo.UpdateSubject(ctx, id, us)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteSubject(ctx, id)
}
