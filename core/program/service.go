package program

import (
	"context"

	"github.com/fmsedu/curriculum/core"
)

type (
	Repository interface {
		QueryCourses(ctx context.Context) ([]Course, error)
		CreateCourse(ctx context.Context, nc NewCourse) (Course, error)
		UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		DeleteCourse(ctx context.Context, id string) error

		// FilterPrograms applies AND on the QueryFilter fields; Search is a case-insensitive
		// match on code, name_th or name_en. It returns the page and the total match count.
		FilterPrograms(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Program, int, error)
		GetProgram(ctx context.Context, id string) (Program, error)
		CreateProgram(ctx context.Context, np NewProgram) (Program, error)
		UpdateProgram(ctx context.Context, id string, up UpdateProgram) (Program, error)
		DeleteProgram(ctx context.Context, id string) error

		QueryMajors(ctx context.Context, courseID string) ([]Major, error)
		CreateMajor(ctx context.Context, nm NewMajor) (Major, error)
		UpdateMajor(ctx context.Context, id string, um UpdateMajor) (Major, error)
		DeleteMajor(ctx context.Context, id string) error

		QueryMajorGroups(ctx context.Context, programID string) ([]MajorGroup, error)
		CreateMajorGroup(ctx context.Context, ng NewMajorGroup) (MajorGroup, error)
		UpdateMajorGroup(ctx context.Context, id string, ug UpdateMajorGroup) (MajorGroup, error)
		DeleteMajorGroup(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

// ProgramOrderings are the fields a program list may be ordered by.
var ProgramOrderings = map[string]string{
	"code":       "p.code",
	"name_th":    "p.name_th",
	"year":       "p.year",
	"created_at": "p.created_at",
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryCourses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *Service) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	return svc.repo.CreateCourse(ctx, nc)
}

func (svc *Service) UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	return svc.repo.UpdateCourse(ctx, id, uc)
}

func (svc *Service) DeleteCourse(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

func (svc *Service) FilterPrograms(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Program, int, error) {
	filter.Clean()
	return svc.repo.FilterPrograms(ctx, filter, core.WhitelistOrdering(ordering, ProgramOrderings))
}

func (svc *Service) GetProgram(ctx context.Context, id string) (Program, error) {
	return svc.repo.GetProgram(ctx, id)
}

func (svc *Service) CreateProgram(ctx context.Context, np NewProgram) (Program, error) {
	return svc.repo.CreateProgram(ctx, np)
}

func (svc *Service) UpdateProgram(ctx context.Context, id string, up UpdateProgram) (Program, error) {
	return svc.repo.UpdateProgram(ctx, id, up)
}

func (svc *Service) DeleteProgram(ctx context.Context, id string) error {
	return svc.repo.DeleteProgram(ctx, id)
}

func (svc *Service) QueryMajors(ctx context.Context, courseID string) ([]Major, error) {
	return svc.repo.QueryMajors(ctx, courseID)
}

func (svc *Service) CreateMajor(ctx context.Context, nm NewMajor) (Major, error) {
	return svc.repo.CreateMajor(ctx, nm)
}

func (svc *Service) UpdateMajor(ctx context.Context, id string, um UpdateMajor) (Major, error) {
	return svc.repo.UpdateMajor(ctx, id, um)
}

func (svc *Service) DeleteMajor(ctx context.Context, id string) error {
	return svc.repo.DeleteMajor(ctx, id)
}

func (svc *Service) QueryMajorGroups(ctx context.Context, programID string) ([]MajorGroup, error) {
	return svc.repo.QueryMajorGroups(ctx, programID)
}

func (svc *Service) CreateMajorGroup(ctx context.Context, ng NewMajorGroup) (MajorGroup, error) {
	return svc.repo.CreateMajorGroup(ctx, ng)
}

func (svc *Service) UpdateMajorGroup(ctx context.Context, id string, ug UpdateMajorGroup) (MajorGroup, error) {
	return svc.repo.UpdateMajorGroup(ctx, id, ug)
}

func (svc *Service) DeleteMajorGroup(ctx context.Context, id string) error {
	return svc.repo.DeleteMajorGroup(ctx, id)
}
