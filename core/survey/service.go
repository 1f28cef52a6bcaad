package survey

import (
	"context"
	"strings"

	"github.com/fmsedu/curriculum/core"
)

type (
	Repository interface {
		// QueryStakeholders lists the program's active stakeholders by sort_order.
		QueryStakeholders(ctx context.Context, programID string) ([]Stakeholder, error)
		CreateStakeholder(ctx context.Context, ns NewStakeholder) (Stakeholder, error)
		UpdateStakeholder(ctx context.Context, id string, us UpdateStakeholder) (Stakeholder, error)
		DeactivateStakeholder(ctx context.Context, id string) error

		QuerySurveys(ctx context.Context, filter QueryFilter) ([]Survey, error)
		GetSurvey(ctx context.Context, id string) (Survey, error)
		CreateSurvey(ctx context.Context, ns NewSurvey) (Survey, error)
		DeleteSurvey(ctx context.Context, id string) error
		QueryMatrix(ctx context.Context, surveyID string) ([]MatrixCell, error)
		QuerySummary(ctx context.Context, surveyID string) ([]PLOSummary, error)

		// ReplaceMappings clears the survey's mappings and inserts the given ones in one transaction.
		ReplaceMappings(ctx context.Context, surveyID string, mappings []MappingInput) error
		UpsertMapping(ctx context.Context, surveyID string, m MappingInput) error
		DeleteMapping(ctx context.Context, surveyID, stakeholderID, ploID string) error
		// ImportMappings runs the whole sheet import in one transaction and returns the inserted count.
		ImportMappings(ctx context.Context, surveyID string, req ImportRequest) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Stakeholders(ctx context.Context, programID string) ([]Stakeholder, error) {
	return svc.repo.QueryStakeholders(ctx, programID)
}

func (svc *Service) CreateStakeholder(ctx context.Context, ns NewStakeholder) (Stakeholder, error) {
	return svc.repo.CreateStakeholder(ctx, ns)
}

func (svc *Service) UpdateStakeholder(ctx context.Context, id string, us UpdateStakeholder) (Stakeholder, error) {
	return svc.repo.UpdateStakeholder(ctx, id, us)
}

func (svc *Service) DeleteStakeholder(ctx context.Context, id string) error {
	return svc.repo.DeactivateStakeholder(ctx, id)
}

func (svc *Service) Surveys(ctx context.Context, filter QueryFilter) ([]Survey, error) {
	filter.Clean()
	return svc.repo.QuerySurveys(ctx, filter)
}

func (svc *Service) GetSurvey(ctx context.Context, id string) (Survey, error) {
	return svc.repo.GetSurvey(ctx, id)
}

func (svc *Service) CreateSurvey(ctx context.Context, ns NewSurvey) (Survey, error) {
	return svc.repo.CreateSurvey(ctx, ns)
}

func (svc *Service) DeleteSurvey(ctx context.Context, id string) error {
	return svc.repo.DeleteSurvey(ctx, id)
}

func (svc *Service) Matrix(ctx context.Context, surveyID string) ([]MatrixCell, error) {
	return svc.repo.QueryMatrix(ctx, surveyID)
}

func (svc *Service) Summary(ctx context.Context, surveyID string) ([]PLOSummary, error) {
	return svc.repo.QuerySummary(ctx, surveyID)
}

// ReplaceMappings drops the entries without a valid level and returns how many were saved.
func (svc *Service) ReplaceMappings(ctx context.Context, surveyID string, rm ReplaceMappings) (int, error) {
	valid := FilterMappings(rm.Mappings)
	if err := svc.repo.ReplaceMappings(ctx, surveyID, valid); err != nil {
		return 0, err
	}
	return len(valid), nil
}

// SetMapping upserts the pair when the level is valid and removes it otherwise.
func (svc *Service) SetMapping(ctx context.Context, surveyID string, sm SetMapping) error {
	stakeholderID := core.CleanString(sm.StakeholderID, true /* lower */)
	ploID := core.CleanString(sm.PLOID, true /* lower */)
	lvl, ok := ParseLevel(sm.Level)
	if !ok {
		return svc.repo.DeleteMapping(ctx, surveyID, stakeholderID, ploID)
	}
	return svc.repo.UpsertMapping(ctx, surveyID, MappingInput{
		StakeholderID: stakeholderID,
		PLOID:         ploID,
		Level:         string(lvl),
	})
}

func (svc *Service) Import(ctx context.Context, surveyID string, req ImportRequest) (int, error) {
	return svc.repo.ImportMappings(ctx, strings.ToLower(surveyID), req)
}
