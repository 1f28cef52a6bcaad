package survey

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/fmsedu/curriculum/core"
)

type Stakeholder struct {
	ID        string      `db:"id" json:"id"`
	ProgramID string      `db:"program_id" json:"program_id"`
	NameTH    string      `db:"name_th" json:"name_th"`
	NameEN    null.String `db:"name_en" json:"name_en"`
	SortOrder int         `db:"sort_order" json:"sort_order"`
	IsActive  bool        `db:"is_active" json:"is_active"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

type NewStakeholder struct {
	ProgramID string  `json:"program_id" validate:"required,uuid"`
	NameTH    string  `json:"name_th" validate:"required"`
	NameEN    *string `json:"name_en"`
	SortOrder int     `json:"sort_order"`
}

func (ns *NewStakeholder) Validate(validate *validator.Validate) error {
	ns.NameTH = core.CleanString(ns.NameTH)
	ns.NameEN = core.CleanStringPtr(ns.NameEN)
	return validate.Struct(ns)
}

type UpdateStakeholder struct {
	NameTH    *string `json:"name_th" validate:"omitempty,min=1"`
	NameEN    *string `json:"name_en"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

func (us *UpdateStakeholder) Validate(validate *validator.Validate) error {
	us.NameTH = core.CleanStringPtr(us.NameTH)
	us.NameEN = core.CleanStringPtr(us.NameEN)
	return validate.Struct(us)
}

type Survey struct {
	ID           string      `db:"id" json:"id"`
	ProgramID    string      `db:"program_id" json:"program_id"`
	Title        string      `db:"title" json:"title"`
	AcademicYear int         `db:"academic_year" json:"academic_year"`
	SurveyDate   null.Time   `db:"survey_date" json:"survey_date"`
	Note         null.String `db:"note" json:"note"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

type NewSurvey struct {
	ProgramID    string  `json:"program_id" validate:"required,uuid"`
	Title        string  `json:"title" validate:"required"`
	AcademicYear int     `json:"academic_year" validate:"required,min=1900,max=3000"`
	SurveyDate   *string `json:"survey_date" validate:"omitempty,datetime=2006-01-02"`
	Note         *string `json:"note"`
}

func (ns *NewSurvey) Validate(validate *validator.Validate) error {
	ns.Title = core.CleanString(ns.Title)
	ns.SurveyDate = core.CleanStringPtr(ns.SurveyDate)
	if ns.SurveyDate != nil && *ns.SurveyDate == "" {
		ns.SurveyDate = nil
	}
	ns.Note = core.CleanStringPtr(ns.Note)
	return validate.Struct(ns)
}

type QueryFilter struct {
	ProgramID string `query:"program_id"`
	Year      int    `query:"year"`
}

func (f *QueryFilter) Clean() {
	f.ProgramID = core.CleanString(f.ProgramID, true /* lower */)
}

type Mapping struct {
	ID            string    `db:"id" json:"id"`
	SurveyID      string    `db:"survey_id" json:"survey_id"`
	StakeholderID string    `db:"stakeholder_id" json:"stakeholder_id"`
	PLOID         string    `db:"plo_id" json:"plo_id"`
	Level         Level     `db:"level" json:"level"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// MappingInput is one cell of a mapping request. Level is free text: anything that does not
// parse as F, M or P means "no mapping".
type MappingInput struct {
	StakeholderID string `json:"stakeholder_id" validate:"required,uuid"`
	PLOID         string `json:"plo_id" validate:"required,uuid"`
	Level         string `json:"level"`
}

type ReplaceMappings struct {
	Mappings []MappingInput `json:"mappings" validate:"required,dive"`
}

func (rm *ReplaceMappings) Validate(validate *validator.Validate) error {
	return validate.Struct(rm)
}

type SetMapping MappingInput

func (sm *SetMapping) Validate(validate *validator.Validate) error {
	return validate.Struct(sm)
}

// MatrixCell is a row of v_stakeholder_plo_matrix: every active stakeholder crossed with every PLO
// of the survey's program, Level being null where no mapping exists.
type MatrixCell struct {
	SurveyID             string      `db:"survey_id" json:"survey_id"`
	StakeholderID        string      `db:"stakeholder_id" json:"stakeholder_id"`
	StakeholderNameTH    string      `db:"stakeholder_name_th" json:"stakeholder_name_th"`
	StakeholderNameEN    null.String `db:"stakeholder_name_en" json:"stakeholder_name_en"`
	StakeholderSortOrder int         `db:"stakeholder_sort_order" json:"stakeholder_sort_order"`
	PLOID                string      `db:"plo_id" json:"plo_id"`
	PLOCode              string      `db:"plo_code" json:"plo_code"`
	PLODescription       string      `db:"plo_description" json:"plo_description"`
	Level                null.String `db:"level" json:"level"`
}

// PLOSummary is a row of v_plo_stakeholder_summary.
type PLOSummary struct {
	SurveyID       string `db:"survey_id" json:"survey_id"`
	PLOID          string `db:"plo_id" json:"plo_id"`
	PLOCode        string `db:"plo_code" json:"plo_code"`
	PLODescription string `db:"plo_description" json:"plo_description"`
	FCount         int    `db:"f_count" json:"f_count"`
	MCount         int    `db:"m_count" json:"m_count"`
	PCount         int    `db:"p_count" json:"p_count"`
	Total          int    `db:"total" json:"total"`
}
