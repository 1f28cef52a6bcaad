package outcome

import (
	"context"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/fmsedu/curriculum/core"
)

const kasTypeTag = "kastype"

type (
	Repository interface {
		// PLOs & KAS items are listed per program, each PLO with its KAS items.
		QueryPLOs(ctx context.Context, programID string) ([]PLO, error)
		CreatePLO(ctx context.Context, np NewPLO) (PLO, error)
		UpdatePLO(ctx context.Context, id string, uo UpdateOutcome) (PLO, error)
		DeletePLO(ctx context.Context, id string) error

		// typ filters on the KAS type when not empty.
		QueryKASItems(ctx context.Context, programID, typ string) ([]KASItem, error)
		CreateKASItem(ctx context.Context, nk NewKASItem) (KASItem, error)
		UpdateKASItem(ctx context.Context, id string, uk UpdateKASItem) (KASItem, error)
		DeleteKASItem(ctx context.Context, id string) error

		QueryMLOs(ctx context.Context, majorGroupID string) ([]MLO, error)
		CreateMLO(ctx context.Context, nm NewMLO) (MLO, error)
		UpdateMLO(ctx context.Context, id string, uo UpdateOutcome) (MLO, error)
		DeleteMLO(ctx context.Context, id string) error

		QueryCLOs(ctx context.Context, subjectID string) ([]CLO, error)
		GetCLO(ctx context.Context, id string) (CLO, error)
		CreateCLO(ctx context.Context, nc NewCLO) (CLO, error)
		UpdateCLO(ctx context.Context, id string, uc UpdateCLO) (CLO, error)
		DeleteCLO(ctx context.Context, id string) error
		QueryCLOFull(ctx context.Context, programID, subjectID string) ([]CLOFull, error)

		// ReplaceLinks atomically makes relatedIDs the owner's full set for rel.
		// Unknown related ids reject the whole request.
		ReplaceLinks(ctx context.Context, rel Relation, ownerID string, relatedIDs []string) error
		// RemoveLink deletes one row; removing an absent row is not an error.
		RemoveLink(ctx context.Context, rel Relation, ownerID, relatedID string) error
	}

	Service struct {
		repo Repository
	}
)

// InitValidators registers the outcome validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, kasTypeTag, KASTypes...)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) PLOs(ctx context.Context, programID string) ([]PLO, error) {
	return svc.repo.QueryPLOs(ctx, programID)
}

func (svc *Service) CreatePLO(ctx context.Context, np NewPLO) (PLO, error) {
	return svc.repo.CreatePLO(ctx, np)
}

func (svc *Service) UpdatePLO(ctx context.Context, id string, uo UpdateOutcome) (PLO, error) {
	return svc.repo.UpdatePLO(ctx, id, uo)
}

func (svc *Service) DeletePLO(ctx context.Context, id string) error {
	return svc.repo.DeletePLO(ctx, id)
}

func (svc *Service) KASItems(ctx context.Context, programID, typ string) ([]KASItem, error) {
	return svc.repo.QueryKASItems(ctx, programID, NormalizeKASType(typ))
}

func (svc *Service) CreateKASItem(ctx context.Context, nk NewKASItem) (KASItem, error) {
	return svc.repo.CreateKASItem(ctx, nk)
}

func (svc *Service) UpdateKASItem(ctx context.Context, id string, uk UpdateKASItem) (KASItem, error) {
	return svc.repo.UpdateKASItem(ctx, id, uk)
}

func (svc *Service) DeleteKASItem(ctx context.Context, id string) error {
	return svc.repo.DeleteKASItem(ctx, id)
}

func (svc *Service) MLOs(ctx context.Context, majorGroupID string) ([]MLO, error) {
	return svc.repo.QueryMLOs(ctx, majorGroupID)
}

func (svc *Service) CreateMLO(ctx context.Context, nm NewMLO) (MLO, error) {
	return svc.repo.CreateMLO(ctx, nm)
}

func (svc *Service) UpdateMLO(ctx context.Context, id string, uo UpdateOutcome) (MLO, error) {
	return svc.repo.UpdateMLO(ctx, id, uo)
}

func (svc *Service) DeleteMLO(ctx context.Context, id string) error {
	return svc.repo.DeleteMLO(ctx, id)
}

func (svc *Service) CLOs(ctx context.Context, subjectID string) ([]CLO, error) {
	return svc.repo.QueryCLOs(ctx, subjectID)
}

func (svc *Service) GetCLO(ctx context.Context, id string) (CLO, error) {
	return svc.repo.GetCLO(ctx, id)
}

func (svc *Service) CreateCLO(ctx context.Context, nc NewCLO) (CLO, error) {
	return svc.repo.CreateCLO(ctx, nc)
}

func (svc *Service) UpdateCLO(ctx context.Context, id string, uc UpdateCLO) (CLO, error) {
	return svc.repo.UpdateCLO(ctx, id, uc)
}

func (svc *Service) DeleteCLO(ctx context.Context, id string) error {
	return svc.repo.DeleteCLO(ctx, id)
}

func (svc *Service) CLOFull(ctx context.Context, programID, subjectID string) ([]CLOFull, error) {
	return svc.repo.QueryCLOFull(ctx, programID, subjectID)
}

// ReplaceLinks normalizes the requested set before handing it to the repository.
func (svc *Service) ReplaceLinks(ctx context.Context, rel Relation, set LinkSet) error {
	owner := strings.ToLower(core.CleanString(set.Owner()))
	return svc.repo.ReplaceLinks(ctx, rel, owner, NormalizeIDs(set.Related()))
}

func (svc *Service) RemoveLink(ctx context.Context, rel Relation, pair LinkPair) error {
	owner := strings.ToLower(core.CleanString(pair.Owner()))
	related := strings.ToLower(core.CleanString(pair.RelatedOne()))
	return svc.repo.RemoveLink(ctx, rel, owner, related)
}
