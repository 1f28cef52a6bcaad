package survey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fmsedu/curriculum/core"
)

// ImportRow is one spreadsheet line: "plo_no" (or "no") identifies the PLO and every other key is
// a stakeholder name holding that stakeholder's level.
type ImportRow map[string]interface{}

type ImportRequest struct {
	Stakeholders []string    `json:"stakeholders" validate:"required,dive,required"`
	Rows         []ImportRow `json:"rows" validate:"required"`
}

func (ir *ImportRequest) Validate(validate *validator.Validate) error {
	names := make([]string, 0, len(ir.Stakeholders))
	for _, name := range ir.Stakeholders {
		names = append(names, core.CleanString(name))
	}
	if ir.Stakeholders != nil {
		ir.Stakeholders = core.DedupeStrings(names)
	}
	for i, row := range ir.Rows {
		ir.Rows[i] = row.trimKeys()
	}
	return validate.Struct(ir)
}

// trimKeys trims the header names the same way as the stakeholder names. When two headers trim
// to the same name, a filled cell wins over a blank one.
func (row ImportRow) trimKeys() ImportRow {
	out := make(ImportRow, len(row))
	for key, val := range row {
		key = core.CleanString(key)
		if prev, ok := out[key]; ok && cellString(prev) != "" {
			continue
		}
		out[key] = val
	}
	return out
}

// StagedMapping is an import cell that carries a valid level, not yet resolved to ids.
type StagedMapping struct {
	Stakeholder string
	PLOCode     string
	Level       Level
}

// PLOCode derives the PLO code of the row at index: "PLO" followed by plo_no, else no, else the
// 1-based row position.
func PLOCode(row ImportRow, index int) string {
	for _, key := range []string{"plo_no", "no"} {
		if s := cellString(row[key]); s != "" && s != "0" {
			return "PLO" + s
		}
	}
	return "PLO" + strconv.Itoa(index+1)
}

// StageImport turns the sheet into the mappings to insert. Rows whose PLO code is not known are
// skipped, as are cells without a valid level.
func StageImport(stakeholders []string, rows []ImportRow, knownPLOs map[string]string) []StagedMapping {
	var staged []StagedMapping
	for i, row := range rows {
		code := PLOCode(row, i)
		if _, ok := knownPLOs[code]; !ok {
			continue
		}
		for _, name := range stakeholders {
			lvl, ok := ParseLevel(cellString(row[name]))
			if !ok {
				continue
			}
			staged = append(staged, StagedMapping{Stakeholder: name, PLOCode: code, Level: lvl})
		}
	}
	return staged
}

// cellString renders a decoded JSON value the way it was typed in the sheet.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if !val {
			return ""
		}
		return "true"
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
