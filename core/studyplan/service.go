package studyplan

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/fmsedu/curriculum/core"
)

const planStatusTag = "planstatus"

type (
	Repository interface {
		FilterStudyPlans(ctx context.Context, filter QueryFilter) ([]StudyPlan, int, error)
		// GetStudyPlan returns the plan with its semesters.
		GetStudyPlan(ctx context.Context, id string) (StudyPlan, error)
		CreateStudyPlan(ctx context.Context, np NewStudyPlan) (StudyPlan, error)
		UpdateStudyPlan(ctx context.Context, id string, up UpdateStudyPlan) (StudyPlan, error)
		DeleteStudyPlan(ctx context.Context, id string) error
		QueryPlanRows(ctx context.Context, planID string) ([]PlanRow, error)

		CreateSemester(ctx context.Context, ns NewSemester) (Semester, error)
		UpdateSemester(ctx context.Context, id string, us UpdateSemester) (Semester, error)
		DeleteSemester(ctx context.Context, id string) error

		// The semester subject writes recompute the owning semester's total credits in the same
		// transaction and return the new total.
		QuerySemesterSubjects(ctx context.Context, semesterID string) ([]SemesterSubject, error)
		AddSemesterSubject(ctx context.Context, ns NewSemesterSubject) (SemesterSubject, int, error)
		UpdateSemesterSubject(ctx context.Context, id string, us UpdateSemesterSubject) (SemesterSubject, int, error)
		RemoveSemesterSubject(ctx context.Context, id string) (int, error)
		// RecomputeAllCredits recomputes every semester total and returns how many changed.
		RecomputeAllCredits(ctx context.Context) (int, error)
	}

	Service struct {
		repo Repository
	}
)

// InitValidators registers the study plan validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, planStatusTag, Statuses...)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) FilterPlans(ctx context.Context, filter QueryFilter) ([]StudyPlan, int, error) {
	filter.Clean()
	return svc.repo.FilterStudyPlans(ctx, filter)
}

func (svc *Service) GetPlan(ctx context.Context, id string) (StudyPlan, error) {
	return svc.repo.GetStudyPlan(ctx, id)
}

func (svc *Service) CreatePlan(ctx context.Context, np NewStudyPlan) (StudyPlan, error) {
	return svc.repo.CreateStudyPlan(ctx, np)
}

func (svc *Service) UpdatePlan(ctx context.Context, id string, up UpdateStudyPlan) (StudyPlan, error) {
	return svc.repo.UpdateStudyPlan(ctx, id, up)
}

func (svc *Service) DeletePlan(ctx context.Context, id string) error {
	return svc.repo.DeleteStudyPlan(ctx, id)
}

func (svc *Service) PlanRows(ctx context.Context, planID string) ([]PlanRow, error) {
	return svc.repo.QueryPlanRows(ctx, planID)
}

func (svc *Service) CreateSemester(ctx context.Context, ns NewSemester) (Semester, error) {
	return svc.repo.CreateSemester(ctx, ns)
}

func (svc *Service) UpdateSemester(ctx context.Context, id string, us UpdateSemester) (Semester, error) {
	return svc.repo.UpdateSemester(ctx, id, us)
}

func (svc *Service) DeleteSemester(ctx context.Context, id string) error {
	return svc.repo.DeleteSemester(ctx, id)
}

func (svc *Service) SemesterSubjects(ctx context.Context, semesterID string) ([]SemesterSubject, error) {
	return svc.repo.QuerySemesterSubjects(ctx, semesterID)
}

func (svc *Service) AddSubject(ctx context.Context, ns NewSemesterSubject) (SemesterSubject, int, error) {
	return svc.repo.AddSemesterSubject(ctx, ns)
}

func (svc *Service) UpdateSubject(ctx context.Context, id string, us UpdateSemesterSubject) (SemesterSubject, int, error) {
	return svc.repo.UpdateSemesterSubject(ctx, id, us)
}

func (svc *Service) RemoveSubject(ctx context.Context, id string) (int, error) {
	return svc.repo.RemoveSemesterSubject(ctx, id)
}

func (svc *Service) RecomputeAllCredits(ctx context.Context) (int, error) {
	return svc.repo.RecomputeAllCredits(ctx)
}
