package studyplan

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/fmsedu/curriculum/core"
)

// Statuses
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

var Statuses = []string{StatusDraft, StatusActive, StatusArchived}

var errOwner = errors.New("exactly one of course_id or major_id is required")

// StudyPlan belongs to either a course or a major; (owner, academic_year, year_no) is unique.
type StudyPlan struct {
	ID           string      `db:"id" json:"id"`
	CourseID     null.String `db:"course_id" json:"course_id"`
	MajorID      null.String `db:"major_id" json:"major_id"`
	Name         null.String `db:"name" json:"name"`
	AcademicYear int         `db:"academic_year" json:"academic_year"`
	YearNo       int         `db:"year_no" json:"year_no"`
	Status       string      `db:"status" json:"status"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
	Semesters    []Semester  `db:"-" json:"semesters,omitempty"`
}

type NewStudyPlan struct {
	CourseID     *string `json:"course_id" validate:"omitempty,uuid"`
	MajorID      *string `json:"major_id" validate:"omitempty,uuid"`
	Name         *string `json:"name"`
	AcademicYear int     `json:"academic_year" validate:"required,min=1900,max=3000"`
	YearNo       int     `json:"year_no" validate:"required,min=1,max=8"`
	Status       string  `json:"status" validate:"omitempty,planstatus"`
}

func (np *NewStudyPlan) Validate(validate *validator.Validate) error {
	np.Name = core.CleanStringPtr(np.Name)
	np.Status = core.CleanString(np.Status, true /* lower */)
	if np.Status == "" {
		np.Status = StatusDraft
	}
	if err := validate.Struct(np); err != nil {
		return err
	}
	if (np.CourseID == nil) == (np.MajorID == nil) {
		return core.NewValidationError(errOwner,
			core.FieldError{Field: "course_id", Error: errOwner.Error()},
			core.FieldError{Field: "major_id", Error: errOwner.Error()},
		)
	}
	return nil
}

type UpdateStudyPlan struct {
	Name         *string `json:"name"`
	AcademicYear *int    `json:"academic_year" validate:"omitempty,min=1900,max=3000"`
	YearNo       *int    `json:"year_no" validate:"omitempty,min=1,max=8"`
	Status       *string `json:"status" validate:"omitempty,planstatus"`
}

func (up *UpdateStudyPlan) Validate(validate *validator.Validate) error {
	up.Name = core.CleanStringPtr(up.Name)
	up.Status = core.CleanStringPtr(up.Status, true /* lower */)
	return validate.Struct(up)
}

type QueryFilter struct {
	CourseID string `query:"course_id"`
	MajorID  string `query:"major_id"`
	Year     int    `query:"year"`
	Status   string `query:"status"`
	core.Pagination
}

func (qf *QueryFilter) Clean() {
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.MajorID = core.CleanString(qf.MajorID)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Pagination.Clean()
}

// Semester.TotalCredits is derived: the sum of its subjects' effective credits.
type Semester struct {
	ID           string            `db:"id" json:"id"`
	StudyPlanID  string            `db:"study_plan_id" json:"study_plan_id"`
	Term         int               `db:"term" json:"term"`
	SortOrder    int               `db:"sort_order" json:"sort_order"`
	TotalCredits int               `db:"total_credits" json:"total_credits"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
	Subjects     []SemesterSubject `db:"-" json:"subjects,omitempty"`
}

type NewSemester struct {
	StudyPlanID string `json:"study_plan_id" validate:"required,uuid"`
	Term        int    `json:"term" validate:"required,min=1,max=3"`
	SortOrder   int    `json:"sort_order"`
}

func (ns *NewSemester) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

type UpdateSemester struct {
	Term      *int `json:"term" validate:"omitempty,min=1,max=3"`
	SortOrder *int `json:"sort_order"`
}

func (us *UpdateSemester) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}

// SemesterSubject places a subject into a semester with per-offering overrides.
type SemesterSubject struct {
	ID               string      `db:"id" json:"id"`
	SemesterID       string      `db:"semester_id" json:"semester_id"`
	SubjectID        string      `db:"subject_id" json:"subject_id"`
	Category         null.String `db:"category" json:"category"`
	Credits          null.Int    `db:"credits" json:"credits"`
	HourStructure    null.String `db:"hour_structure" json:"hour_structure"`
	SortOrder        int         `db:"sort_order" json:"sort_order"`
	SubjectCode      string      `db:"subject_code" json:"subject_code"`
	SubjectNameTH    string      `db:"subject_name_th" json:"subject_name_th"`
	SubjectNameEN    null.String `db:"subject_name_en" json:"subject_name_en"`
	EffectiveCredits int         `db:"effective_credits" json:"effective_credits"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

type NewSemesterSubject struct {
	SemesterID    string  `json:"semester_id" validate:"required,uuid"`
	SubjectID     string  `json:"subject_id" validate:"required,uuid"`
	Category      *string `json:"category"`
	Credits       *int    `json:"credits" validate:"omitempty,min=0,max=30"`
	HourStructure *string `json:"hour_structure"`
	SortOrder     int     `json:"sort_order"`
}

func (ns *NewSemesterSubject) Validate(validate *validator.Validate) error {
	ns.Category = core.CleanStringPtr(ns.Category)
	ns.HourStructure = core.CleanStringPtr(ns.HourStructure)
	return validate.Struct(ns)
}

// UpdateSemesterSubject leaves unset fields unchanged; ResetCredits drops the credit override.
type UpdateSemesterSubject struct {
	Category      *string `json:"category"`
	Credits       *int    `json:"credits" validate:"omitempty,min=0,max=30"`
	ResetCredits  bool    `json:"reset_credits"`
	HourStructure *string `json:"hour_structure"`
	SortOrder     *int    `json:"sort_order"`
}

func (us *UpdateSemesterSubject) Validate(validate *validator.Validate) error {
	us.Category = core.CleanStringPtr(us.Category)
	us.HourStructure = core.CleanStringPtr(us.HourStructure)
	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.ResetCredits && us.Credits != nil {
		msg := "credits cannot be set together with reset_credits"
		return core.NewValidationError(errors.New(msg), core.FieldError{Field: "credits", Error: msg})
	}
	return nil
}

// PlanRow is one line of the flattened study plan (plan × semester × subject).
type PlanRow struct {
	PlanID            string      `db:"plan_id" json:"plan_id"`
	AcademicYear      int         `db:"academic_year" json:"academic_year"`
	YearNo            int         `db:"year_no" json:"year_no"`
	Status            string      `db:"status" json:"status"`
	SemesterID        null.String `db:"semester_id" json:"semester_id"`
	Term              null.Int    `db:"term" json:"term"`
	SemesterSortOrder null.Int    `db:"semester_sort_order" json:"semester_sort_order"`
	TotalCredits      null.Int    `db:"total_credits" json:"total_credits"`
	SubjectID         null.String `db:"subject_id" json:"subject_id"`
	SubjectCode       null.String `db:"subject_code" json:"subject_code"`
	SubjectNameTH     null.String `db:"subject_name_th" json:"subject_name_th"`
	SubjectNameEN     null.String `db:"subject_name_en" json:"subject_name_en"`
	Category          null.String `db:"category" json:"category"`
	Credits           null.Int    `db:"credits" json:"credits"`
	HourStructure     null.String `db:"hour_structure" json:"hour_structure"`
	SortOrder         null.Int    `db:"sort_order" json:"sort_order"`
}
