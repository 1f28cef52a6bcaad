package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core/score"
	"github.com/fmsedu/curriculum/testutil"
)

func Test_scoreApi(t *testing.T) {
	testutil.ResetDB(t, db)

	progID := create(t, "/api/programs", "program", obj{"code": "CS-2566", "name_th": "CS"})

	upsert := func(data obj) score.PLOScore {
		t.Helper()
		rec := do(http.MethodPost, "/api/plo-scores", marchallObj(t, data))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			Score score.PLOScore `json:"score"`
		}
		decode(t, rec, &resp)
		return resp.Score
	}

	first := upsert(obj{"program_id": progID, "lo_level": "PLO", "lo_code": "PLO1", "academic_year": 2023, "semester_1": 80})
	again := upsert(obj{"program_id": progID, "lo_level": "PLO", "lo_code": "PLO1", "academic_year": 2023, "semester_1": 70, "semester_2": 90})
	assert.Equal(t, first.ID, again.ID, "same (program, code, year) overwrites")
	assert.Equal(t, 70.0, again.Semester1.Float64)
	upsert(obj{"program_id": progID, "lo_level": "PLO", "lo_code": "PLO1", "academic_year": 2022, "semester_1": 60})
	upsert(obj{"program_id": progID, "lo_level": "SubPLO", "lo_code": "PLO1.1", "academic_year": 2023})

	runHTTPTests(t, []httpTest{
		{
			name:     "missing code",
			method:   http.MethodPost,
			path:     "/api/plo-scores",
			body:     marchallObj(t, obj{"program_id": progID, "lo_level": "PLO", "academic_year": 2023}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "negative score",
			method:   http.MethodPut,
			path:     "/api/plo-scores/" + first.ID,
			body:     []byte(`{"semester_1":-1}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown score",
			method:   http.MethodDelete,
			path:     "/api/plo-scores/00000000-0000-4000-8000-000000000000",
			wantCode: http.StatusNotFound,
		},
	})

	var scores []score.PLOScore
	decode(t, do(http.MethodGet, "/api/programs/"+progID+"/plo-scores?year=2023"), &scores)
	assert.Len(t, scores, 2)
	decode(t, do(http.MethodGet, "/api/programs/"+progID+"/plo-scores?lo_level=SubPLO"), &scores)
	require.Len(t, scores, 1)
	assert.Equal(t, "PLO1.1", scores[0].LOCode)

	// partial update keeps semester_2
	rec := do(http.MethodPut, "/api/plo-scores/"+first.ID, []byte(`{"note":"rechecked"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary []score.Summary
	decode(t, do(http.MethodGet, "/api/programs/"+progID+"/plo-score-summary?year=2023"), &summary)
	require.Len(t, summary, 2)
	for _, row := range summary {
		switch row.LOCode {
		case "PLO1":
			assert.Equal(t, 80.0, row.Average.Float64)
		case "PLO1.1":
			assert.False(t, row.Average.Valid)
		}
	}

	rec = do(http.MethodDelete, "/api/plo-scores/"+first.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
}
