package subject

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/fmsedu/curriculum/core"
)

// Subject is a catalog entry; DefaultCredits applies wherever a semester does not override it.
type Subject struct {
	ID                   string      `db:"id" json:"id"`
	Code                 string      `db:"code" json:"code"`
	NameTH               string      `db:"name_th" json:"name_th"`
	NameEN               null.String `db:"name_en" json:"name_en"`
	DefaultCredits       int         `db:"default_credits" json:"default_credits"`
	DefaultHourStructure null.String `db:"default_hour_structure" json:"default_hour_structure"`
	DescriptionTH        null.String `db:"description_th" json:"description_th"`
	DescriptionEN        null.String `db:"description_en" json:"description_en"`
	OutcomesTH           null.String `db:"outcomes_th" json:"outcomes_th"`
	OutcomesEN           null.String `db:"outcomes_en" json:"outcomes_en"`
	CreatedAt            time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at" json:"updated_at"`
}

type NewSubject struct {
	Code                 string  `json:"code" validate:"required,code"`
	NameTH               string  `json:"name_th" validate:"required"`
	NameEN               *string `json:"name_en"`
	DefaultCredits       int     `json:"default_credits" validate:"min=0,max=30"`
	DefaultHourStructure *string `json:"default_hour_structure"`
	DescriptionTH        *string `json:"description_th"`
	DescriptionEN        *string `json:"description_en"`
	OutcomesTH           *string `json:"outcomes_th"`
	OutcomesEN           *string `json:"outcomes_en"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Code = core.CleanString(ns.Code)
	ns.NameTH = core.CleanString(ns.NameTH)
	ns.NameEN = core.CleanStringPtr(ns.NameEN)
	ns.DefaultHourStructure = core.CleanStringPtr(ns.DefaultHourStructure)
	return validate.Struct(ns)
}

type UpdateSubject struct {
	Code                 *string `json:"code" validate:"omitempty,code"`
	NameTH               *string `json:"name_th" validate:"omitempty,min=1"`
	NameEN               *string `json:"name_en"`
	DefaultCredits       *int    `json:"default_credits" validate:"omitempty,min=0,max=30"`
	DefaultHourStructure *string `json:"default_hour_structure"`
	DescriptionTH        *string `json:"description_th"`
	DescriptionEN        *string `json:"description_en"`
	OutcomesTH           *string `json:"outcomes_th"`
	OutcomesEN           *string `json:"outcomes_en"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate) error {
	us.Code = core.CleanStringPtr(us.Code)
	us.NameTH = core.CleanStringPtr(us.NameTH)
	us.NameEN = core.CleanStringPtr(us.NameEN)
	us.DefaultHourStructure = core.CleanStringPtr(us.DefaultHourStructure)
	return validate.Struct(us)
}

type QueryFilter struct {
	Search string `query:"search"`
	core.Pagination
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Pagination.Clean()
}
