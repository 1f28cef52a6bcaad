package program

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/fmsedu/curriculum/core"
)

type Course struct {
	ID        string      `db:"id" json:"id"`
	Code      string      `db:"code" json:"code"`
	NameTH    string      `db:"name_th" json:"name_th"`
	NameEN    null.String `db:"name_en" json:"name_en"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

type NewCourse struct {
	Code   string  `json:"code" validate:"required,code"`
	NameTH string  `json:"name_th" validate:"required"`
	NameEN *string `json:"name_en"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Code = core.CleanString(nc.Code)
	nc.NameTH = core.CleanString(nc.NameTH)
	nc.NameEN = core.CleanStringPtr(nc.NameEN)
	return validate.Struct(nc)
}

type UpdateCourse struct {
	Code   *string `json:"code" validate:"omitempty,code"`
	NameTH *string `json:"name_th" validate:"omitempty,min=1"`
	NameEN *string `json:"name_en"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Code = core.CleanStringPtr(uc.Code)
	uc.NameTH = core.CleanStringPtr(uc.NameTH)
	uc.NameEN = core.CleanStringPtr(uc.NameEN)
	return validate.Struct(uc)
}

type Program struct {
	ID        string      `db:"id" json:"id"`
	CourseID  null.String `db:"course_id" json:"course_id"`
	Code      string      `db:"code" json:"code"`
	NameTH    string      `db:"name_th" json:"name_th"`
	NameEN    null.String `db:"name_en" json:"name_en"`
	Year      null.Int    `db:"year" json:"year"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

type NewProgram struct {
	CourseID *string `json:"course_id" validate:"omitempty,uuid"`
	Code     string  `json:"code" validate:"required,code"`
	NameTH   string  `json:"name_th" validate:"required"`
	NameEN   *string `json:"name_en"`
	Year     *int    `json:"year" validate:"omitempty,min=1900,max=3000"`
}

func (np *NewProgram) Validate(validate *validator.Validate) error {
	np.Code = core.CleanString(np.Code)
	np.NameTH = core.CleanString(np.NameTH)
	np.NameEN = core.CleanStringPtr(np.NameEN)
	return validate.Struct(np)
}

type UpdateProgram struct {
	CourseID *string `json:"course_id" validate:"omitempty,uuid"`
	Code     *string `json:"code" validate:"omitempty,code"`
	NameTH   *string `json:"name_th" validate:"omitempty,min=1"`
	NameEN   *string `json:"name_en"`
	Year     *int    `json:"year" validate:"omitempty,min=1900,max=3000"`
}

func (up *UpdateProgram) Validate(validate *validator.Validate) error {
	up.Code = core.CleanStringPtr(up.Code)
	up.NameTH = core.CleanStringPtr(up.NameTH)
	up.NameEN = core.CleanStringPtr(up.NameEN)
	return validate.Struct(up)
}

type QueryFilter struct {
	Search string `query:"search"`
	Year   int    `query:"year"`
	core.Pagination
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Pagination.Clean()
}

type Major struct {
	ID            string      `db:"id" json:"id"`
	CourseID      string      `db:"course_id" json:"course_id"`
	Code          string      `db:"code" json:"code"`
	NameTH        string      `db:"name_th" json:"name_th"`
	NameEN        null.String `db:"name_en" json:"name_en"`
	DescriptionTH null.String `db:"description_th" json:"description_th"`
	DescriptionEN null.String `db:"description_en" json:"description_en"`
	PlanSlots     int         `db:"plan_slots" json:"plan_slots"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

type NewMajor struct {
	CourseID      string  `json:"course_id" validate:"required,uuid"`
	Code          string  `json:"code" validate:"required,code"`
	NameTH        string  `json:"name_th" validate:"required"`
	NameEN        *string `json:"name_en"`
	DescriptionTH *string `json:"description_th"`
	DescriptionEN *string `json:"description_en"`
	PlanSlots     int     `json:"plan_slots" validate:"min=0"`
}

func (nm *NewMajor) Validate(validate *validator.Validate) error {
	nm.Code = core.CleanString(nm.Code)
	nm.NameTH = core.CleanString(nm.NameTH)
	nm.NameEN = core.CleanStringPtr(nm.NameEN)
	return validate.Struct(nm)
}

type UpdateMajor struct {
	Code          *string `json:"code" validate:"omitempty,code"`
	NameTH        *string `json:"name_th" validate:"omitempty,min=1"`
	NameEN        *string `json:"name_en"`
	DescriptionTH *string `json:"description_th"`
	DescriptionEN *string `json:"description_en"`
	PlanSlots     *int    `json:"plan_slots" validate:"omitempty,min=0"`
}

func (um *UpdateMajor) Validate(validate *validator.Validate) error {
	um.Code = core.CleanStringPtr(um.Code)
	um.NameTH = core.CleanStringPtr(um.NameTH)
	um.NameEN = core.CleanStringPtr(um.NameEN)
	return validate.Struct(um)
}

// MajorGroup groups MLOs inside a program, optionally tied to a major.
type MajorGroup struct {
	ID          string      `db:"id" json:"id"`
	ProgramID   string      `db:"program_id" json:"program_id"`
	MajorID     null.String `db:"major_id" json:"major_id"`
	Label       string      `db:"label" json:"label"`
	Icon        null.String `db:"icon" json:"icon"`
	SortOrder   int         `db:"sort_order" json:"sort_order"`
	MajorNameTH null.String `db:"major_name_th" json:"major_name_th,omitempty"`
	MajorNameEN null.String `db:"major_name_en" json:"major_name_en,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

type NewMajorGroup struct {
	ProgramID string  `json:"program_id" validate:"required,uuid"`
	MajorID   *string `json:"major_id" validate:"omitempty,uuid"`
	Label     string  `json:"label" validate:"required"`
	Icon      *string `json:"icon"`
	SortOrder int     `json:"sort_order"`
}

func (ng *NewMajorGroup) Validate(validate *validator.Validate) error {
	ng.Label = core.CleanString(ng.Label)
	ng.Icon = core.CleanStringPtr(ng.Icon)
	return validate.Struct(ng)
}

type UpdateMajorGroup struct {
	MajorID   *string `json:"major_id" validate:"omitempty,uuid"`
	Label     *string `json:"label" validate:"omitempty,min=1"`
	Icon      *string `json:"icon"`
	SortOrder *int    `json:"sort_order"`
}

func (ug *UpdateMajorGroup) Validate(validate *validator.Validate) error {
	ug.Label = core.CleanStringPtr(ug.Label)
	ug.Icon = core.CleanStringPtr(ug.Icon)
	return validate.Struct(ug)
}
