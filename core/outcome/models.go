package outcome

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/fmsedu/curriculum/core"
)

// KAS types
const (
	KASKnowledge = "Knowledge"
	KASAttitude  = "Attitude"
	KASSkill     = "Skill"
)

var KASTypes = []string{KASKnowledge, KASAttitude, KASSkill}

// KASRef is a KAS item as embedded in the outcomes it is mapped to.
type KASRef struct {
	ID    string `db:"id" json:"id"`
	Code  string `db:"code" json:"code"`
	Label string `db:"label" json:"label"`
	Type  string `db:"type" json:"type"`
}

// OutcomeRef is a PLO or MLO as embedded in the CLOs mapped to it.
type OutcomeRef struct {
	ID          string `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description"`
}

type PLO struct {
	ID          string    `db:"id" json:"id"`
	ProgramID   string    `db:"program_id" json:"program_id"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	KAS         []KASRef  `db:"-" json:"kas"`
}

type NewPLO struct {
	ProgramID   string `json:"program_id" validate:"required,uuid"`
	Code        string `json:"code" validate:"required,code"`
	Description string `json:"description" validate:"required"`
	SortOrder   int    `json:"sort_order"`
}

func (np *NewPLO) Validate(validate *validator.Validate) error {
	np.Code = core.CleanString(np.Code)
	np.Description = core.CleanString(np.Description)
	return validate.Struct(np)
}

// UpdateOutcome is the partial update of a PLO or an MLO.
type UpdateOutcome struct {
	Code        *string `json:"code" validate:"omitempty,code"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	SortOrder   *int    `json:"sort_order"`
}

func (uo *UpdateOutcome) Validate(validate *validator.Validate) error {
	uo.Code = core.CleanStringPtr(uo.Code)
	uo.Description = core.CleanStringPtr(uo.Description)
	return validate.Struct(uo)
}

type KASItem struct {
	ID        string    `db:"id" json:"id"`
	ProgramID string    `db:"program_id" json:"program_id"`
	Type      string    `db:"type" json:"type"`
	Code      string    `db:"code" json:"code"`
	Label     string    `db:"label" json:"label"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type NewKASItem struct {
	ProgramID string `json:"program_id" validate:"required,uuid"`
	Type      string `json:"type" validate:"required,kastype"`
	Code      string `json:"code" validate:"required,code"`
	Label     string `json:"label" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

func (nk *NewKASItem) Validate(validate *validator.Validate) error {
	nk.Type = NormalizeKASType(nk.Type)
	nk.Code = core.CleanString(nk.Code)
	nk.Label = core.CleanString(nk.Label)
	return validate.Struct(nk)
}

type UpdateKASItem struct {
	Type      *string `json:"type" validate:"omitempty,kastype"`
	Code      *string `json:"code" validate:"omitempty,code"`
	Label     *string `json:"label" validate:"omitempty,min=1"`
	SortOrder *int    `json:"sort_order"`
}

func (uk *UpdateKASItem) Validate(validate *validator.Validate) error {
	if uk.Type != nil {
		typ := NormalizeKASType(*uk.Type)
		uk.Type = &typ
	}
	uk.Code = core.CleanStringPtr(uk.Code)
	uk.Label = core.CleanStringPtr(uk.Label)
	return validate.Struct(uk)
}

// NormalizeKASType maps "skill", " SKILL " etc. onto "Skill".
func NormalizeKASType(s string) string {
	s = core.CleanString(s, true /* lower */)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type MLO struct {
	ID           string    `db:"id" json:"id"`
	MajorGroupID string    `db:"major_group_id" json:"major_group_id"`
	Code         string    `db:"code" json:"code"`
	Description  string    `db:"description" json:"description"`
	SortOrder    int       `db:"sort_order" json:"sort_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	KAS          []KASRef  `db:"-" json:"kas"`
}

type NewMLO struct {
	MajorGroupID string `json:"major_group_id" validate:"required,uuid"`
	Code         string `json:"code" validate:"required,code"`
	Description  string `json:"description" validate:"required"`
	SortOrder    int    `json:"sort_order"`
}

func (nm *NewMLO) Validate(validate *validator.Validate) error {
	nm.Code = core.CleanString(nm.Code)
	nm.Description = core.CleanString(nm.Description)
	return validate.Struct(nm)
}

type CLO struct {
	ID            string       `db:"id" json:"id"`
	SubjectID     string       `db:"subject_id" json:"subject_id"`
	Seq           int          `db:"seq" json:"seq"`
	DescriptionTH string       `db:"description_th" json:"description_th"`
	DescriptionEN null.String  `db:"description_en" json:"description_en"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
	PLOs          []OutcomeRef `db:"-" json:"plos"`
	MLOs          []OutcomeRef `db:"-" json:"mlos"`
	KAS           []KASRef     `db:"-" json:"kas"`
}

type NewCLO struct {
	SubjectID     string  `json:"subject_id" validate:"required,uuid"`
	Seq           int     `json:"seq" validate:"required,min=1"`
	DescriptionTH string  `json:"description_th" validate:"required"`
	DescriptionEN *string `json:"description_en"`
}

func (nc *NewCLO) Validate(validate *validator.Validate) error {
	nc.DescriptionTH = core.CleanString(nc.DescriptionTH)
	nc.DescriptionEN = core.CleanStringPtr(nc.DescriptionEN)
	return validate.Struct(nc)
}

type UpdateCLO struct {
	Seq           *int    `json:"seq" validate:"omitempty,min=1"`
	DescriptionTH *string `json:"description_th" validate:"omitempty,min=1"`
	DescriptionEN *string `json:"description_en"`
}

func (uc *UpdateCLO) Validate(validate *validator.Validate) error {
	uc.DescriptionTH = core.CleanStringPtr(uc.DescriptionTH)
	uc.DescriptionEN = core.CleanStringPtr(uc.DescriptionEN)
	return validate.Struct(uc)
}

// CLOFull is a CLO flattened with its subject and the codes it maps to.
type CLOFull struct {
	CLOID         string      `db:"clo_id" json:"clo_id"`
	SubjectID     string      `db:"subject_id" json:"subject_id"`
	SubjectCode   string      `db:"subject_code" json:"subject_code"`
	SubjectNameTH string      `db:"subject_name_th" json:"subject_name_th"`
	SubjectNameEN null.String `db:"subject_name_en" json:"subject_name_en"`
	Seq           int         `db:"seq" json:"seq"`
	DescriptionTH string      `db:"description_th" json:"description_th"`
	DescriptionEN null.String `db:"description_en" json:"description_en"`
	PLOCodes      null.String `db:"plo_codes" json:"plo_codes"`
	MLOCodes      null.String `db:"mlo_codes" json:"mlo_codes"`
	KASCodes      null.String `db:"kas_codes" json:"kas_codes"`
}
