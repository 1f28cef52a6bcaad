package score

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/fmsedu/curriculum/core"
)

// PLOScore is the attainment score of one learning outcome for an academic year.
type PLOScore struct {
	ID            string       `db:"id" json:"id"`
	ProgramID     string       `db:"program_id" json:"program_id"`
	LOLevel       string       `db:"lo_level" json:"lo_level"`
	LOCode        string       `db:"lo_code" json:"lo_code"`
	LODescription null.String  `db:"lo_description" json:"lo_description"`
	AcademicYear  int          `db:"academic_year" json:"academic_year"`
	Semester1     null.Float64 `db:"semester_1" json:"semester_1"`
	Semester2     null.Float64 `db:"semester_2" json:"semester_2"`
	Note          null.String  `db:"note" json:"note"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// Summary is a row of v_plo_score_summary.
type Summary struct {
	ProgramID     string       `db:"program_id" json:"program_id"`
	LOLevel       string       `db:"lo_level" json:"lo_level"`
	LOCode        string       `db:"lo_code" json:"lo_code"`
	LODescription null.String  `db:"lo_description" json:"lo_description"`
	AcademicYear  int          `db:"academic_year" json:"academic_year"`
	Semester1     null.Float64 `db:"semester_1" json:"semester_1"`
	Semester2     null.Float64 `db:"semester_2" json:"semester_2"`
	Average       null.Float64 `db:"average" json:"average"`
}

// UpsertScore creates the score or, when (program, code, year) already exists, overwrites it.
type UpsertScore struct {
	ProgramID     string   `json:"program_id" validate:"required,uuid"`
	LOLevel       string   `json:"lo_level" validate:"required"`
	LOCode        string   `json:"lo_code" validate:"required,code"`
	LODescription *string  `json:"lo_description"`
	AcademicYear  int      `json:"academic_year" validate:"required,min=1900,max=3000"`
	Semester1     *float64 `json:"semester_1" validate:"omitempty,min=0"`
	Semester2     *float64 `json:"semester_2" validate:"omitempty,min=0"`
	Note          *string  `json:"note"`
}

func (us *UpsertScore) Validate(validate *validator.Validate) error {
	us.LOLevel = core.CleanString(us.LOLevel)
	us.LOCode = core.CleanString(us.LOCode)
	us.LODescription = core.CleanStringPtr(us.LODescription)
	us.Note = core.CleanStringPtr(us.Note)
	return validate.Struct(us)
}

type UpdateScore struct {
	LODescription *string  `json:"lo_description"`
	Semester1     *float64 `json:"semester_1" validate:"omitempty,min=0"`
	Semester2     *float64 `json:"semester_2" validate:"omitempty,min=0"`
	Note          *string  `json:"note"`
}

func (us *UpdateScore) Validate(validate *validator.Validate) error {
	us.LODescription = core.CleanStringPtr(us.LODescription)
	us.Note = core.CleanStringPtr(us.Note)
	return validate.Struct(us)
}

type QueryFilter struct {
	Year    int    `query:"year"`
	LOLevel string `query:"lo_level"`
}

func (f *QueryFilter) Clean() {
	f.LOLevel = core.CleanString(f.LOLevel)
	if f.Year < 0 {
		f.Year = 0
	}
}
