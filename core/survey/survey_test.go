package survey

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core"
)

const (
	sk1  = "1e0f8c1a-6a8e-4b5e-9a65-31f1b3c0aa01"
	sk2  = "1e0f8c1a-6a8e-4b5e-9a65-31f1b3c0aa02"
	plo1 = "9d3c2b1a-0f1e-4d2c-8b7a-6e5f4d3c2b01"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{in: "F", want: LevelF, wantOK: true},
		{in: " m ", want: LevelM, wantOK: true},
		{in: "p", want: LevelP, wantOK: true},
		{in: "", wantOK: false},
		{in: "X", wantOK: false},
		{in: "FM", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterMappings(t *testing.T) {
	got := FilterMappings([]MappingInput{
		{StakeholderID: sk1, PLOID: plo1, Level: "f"},
		{StakeholderID: sk2, PLOID: plo1, Level: "X"},
		{StakeholderID: sk2, PLOID: plo1, Level: ""},
		{StakeholderID: sk1, PLOID: plo1, Level: "P"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "P", got[0].Level)
	assert.Empty(t, FilterMappings(nil))
}

func TestPLOCode(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		index int
		want  string
	}{
		{name: "plo_no number", row: `{"plo_no": 3}`, index: 0, want: "PLO3"},
		{name: "plo_no string", row: `{"plo_no": " 4 "}`, index: 0, want: "PLO4"},
		{name: "falls back to no", row: `{"no": 2}`, index: 5, want: "PLO2"},
		{name: "empty plo_no", row: `{"plo_no": "", "no": 7}`, index: 0, want: "PLO7"},
		{name: "falls back to position", row: `{}`, index: 4, want: "PLO5"},
		{name: "zero is unset", row: `{"plo_no": 0}`, index: 1, want: "PLO2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var row ImportRow
			require.NoError(t, json.Unmarshal([]byte(tt.row), &row))
			assert.Equal(t, tt.want, PLOCode(row, tt.index))
		})
	}
}

func TestStageImport(t *testing.T) {
	var rows []ImportRow
	require.NoError(t, json.Unmarshal([]byte(`[
		{"plo_no": 1, "Employers": " f ", "Alumni": "m"},
		{"plo_no": 2, "Employers": "x", "Alumni": null},
		{"plo_no": 9, "Employers": "P"},
		{"Employers": "P", "Alumni": "p"}
	]`), &rows))
	known := map[string]string{"PLO1": "id-1", "PLO2": "id-2", "PLO4": "id-4"}

	got := StageImport([]string{"Employers", "Alumni"}, rows, known)
	assert.Equal(t, []StagedMapping{
		{Stakeholder: "Employers", PLOCode: "PLO1", Level: LevelF},
		{Stakeholder: "Alumni", PLOCode: "PLO1", Level: LevelM},
		{Stakeholder: "Employers", PLOCode: "PLO4", Level: LevelP},
		{Stakeholder: "Alumni", PLOCode: "PLO4", Level: LevelP},
	}, got)

	assert.Empty(t, StageImport([]string{"Employers"}, nil, known))
}

func TestImportRequest_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	req := ImportRequest{Stakeholders: []string{" Alumni", "Alumni "}, Rows: []ImportRow{}}
	require.NoError(t, req.Validate(validate))
	assert.Equal(t, []string{"Alumni"}, req.Stakeholders)

	req = ImportRequest{Rows: []ImportRow{}}
	assert.Error(t, req.Validate(validate))
}

func TestImportRequest_paddedHeaders(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	known := map[string]string{"PLO1": "id-1", "PLO2": "id-2"}

	var req ImportRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"stakeholders": ["Employer ", " Alumni"],
		"rows": [
			{"plo_no": 1, "Employer ": "F", " Alumni": "m"},
			{"plo_no": 2, "Employer ": "", "Employer": "p"}
		]
	}`), &req))
	require.NoError(t, req.Validate(validate))
	assert.Equal(t, []string{"Employer", "Alumni"}, req.Stakeholders)

	got := StageImport(req.Stakeholders, req.Rows, known)
	assert.Equal(t, []StagedMapping{
		{Stakeholder: "Employer", PLOCode: "PLO1", Level: LevelF},
		{Stakeholder: "Alumni", PLOCode: "PLO1", Level: LevelM},
		{Stakeholder: "Employer", PLOCode: "PLO2", Level: LevelP},
	}, got)
}

func TestNewSurvey_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	date := "2024-06-30"
	ns := NewSurvey{ProgramID: plo1, Title: " Survey ", AcademicYear: 2567, SurveyDate: &date}
	require.NoError(t, ns.Validate(validate))
	assert.Equal(t, "Survey", ns.Title)

	bad := "30/06/2024"
	ns.SurveyDate = &bad
	err := ns.Validate(validate)
	require.Error(t, err)
	assert.Equal(t, "survey_date", err.(validator.ValidationErrors)[0].Field())
}
