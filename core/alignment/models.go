package alignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/fmsedu/curriculum/core"
)

// Row is one line of a program's alignment matrix.
type Row struct {
	ID          string      `db:"id" json:"id"`
	ProgramID   string      `db:"program_id" json:"program_id"`
	GroupLabel  string      `db:"group_label" json:"group_label"`
	Title       string      `db:"title" json:"title"`
	Description null.String `db:"description" json:"description"`
	SortOrder   int         `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
	PLOChecks   []PLOCheck  `db:"-" json:"plo_checks"`
	MLOChecks   []MLOCheck  `db:"-" json:"mlo_checks"`
}

type PLOCheck struct {
	RowID   string `db:"alignment_row_id" json:"-"`
	PLOID   string `db:"plo_id" json:"plo_id"`
	Code    string `db:"code" json:"code"`
	Checked bool   `db:"checked" json:"checked"`
}

type MLOCheck struct {
	RowID   string `db:"alignment_row_id" json:"-"`
	MLOID   string `db:"mlo_id" json:"mlo_id"`
	Code    string `db:"code" json:"code"`
	Checked bool   `db:"checked" json:"checked"`
}

type NewRow struct {
	ProgramID   string  `json:"program_id" validate:"required,uuid"`
	GroupLabel  string  `json:"group_label" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order"`
}

func (nr *NewRow) Validate(validate *validator.Validate) error {
	nr.GroupLabel = core.CleanString(nr.GroupLabel)
	nr.Title = core.CleanString(nr.Title)
	nr.Description = core.CleanStringPtr(nr.Description)
	return validate.Struct(nr)
}

type UpdateRow struct {
	GroupLabel  *string `json:"group_label" validate:"omitempty,min=1"`
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

func (ur *UpdateRow) Validate(validate *validator.Validate) error {
	ur.GroupLabel = core.CleanStringPtr(ur.GroupLabel)
	ur.Title = core.CleanStringPtr(ur.Title)
	ur.Description = core.CleanStringPtr(ur.Description)
	return validate.Struct(ur)
}

// SetPLOCheck ticks or unticks a PLO on a row. Checked is a pointer so that a missing value is
// told apart from false.
type SetPLOCheck struct {
	PLOID   string `json:"plo_id" validate:"required,uuid"`
	Checked *bool  `json:"checked" validate:"required"`
}

func (sc *SetPLOCheck) Validate(validate *validator.Validate) error {
	return validate.Struct(sc)
}

type SetMLOCheck struct {
	MLOID   string `json:"mlo_id" validate:"required,uuid"`
	Checked *bool  `json:"checked" validate:"required"`
}

func (sc *SetMLOCheck) Validate(validate *validator.Validate) error {
	return validate.Struct(sc)
}

// AttachChecks distributes the checks onto their rows, leaving every row with non-nil lists.
func AttachChecks(rows []Row, ploChecks []PLOCheck, mloChecks []MLOCheck) {
	idx := make(map[string]int, len(rows))
	for i := range rows {
		idx[rows[i].ID] = i
		rows[i].PLOChecks = []PLOCheck{}
		rows[i].MLOChecks = []MLOCheck{}
	}
	for _, chk := range ploChecks {
		if i, ok := idx[chk.RowID]; ok {
			rows[i].PLOChecks = append(rows[i].PLOChecks, chk)
		}
	}
	for _, chk := range mloChecks {
		if i, ok := idx[chk.RowID]; ok {
			rows[i].MLOChecks = append(rows[i].MLOChecks, chk)
		}
	}
}
