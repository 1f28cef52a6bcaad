package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core/alignment"
	"github.com/fmsedu/curriculum/testutil"
)

func Test_alignmentApi(t *testing.T) {
	testutil.ResetDB(t, db)

	progID := create(t, "/api/programs", "program", obj{"code": "CS-2566", "name_th": "CS"})
	ploID := create(t, "/api/plos", "plo", obj{"program_id": progID, "code": "PLO1", "description": "Analyze"})
	rowID := create(t, "/api/alignment-rows", "row", obj{"program_id": progID, "group_label": "Core", "title": "Algorithms"})

	runHTTPTests(t, []httpTest{
		{
			name:     "row without title",
			method:   http.MethodPost,
			path:     "/api/alignment-rows",
			body:     marchallObj(t, obj{"program_id": progID, "group_label": "Core"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "check without value",
			method:   http.MethodPut,
			path:     "/api/alignment-rows/" + rowID + "/plo-checks",
			body:     marchallObj(t, obj{"plo_id": ploID}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "tick",
			method:   http.MethodPut,
			path:     "/api/alignment-rows/" + rowID + "/plo-checks",
			body:     marchallObj(t, obj{"plo_id": ploID, "checked": true}),
			wantCode: http.StatusOK,
			wantData: []byte(`{"message":"PLO check saved"}`),
		},
		{
			name:     "untick",
			method:   http.MethodPut,
			path:     "/api/alignment-rows/" + rowID + "/plo-checks",
			body:     marchallObj(t, obj{"plo_id": ploID, "checked": false}),
			wantCode: http.StatusOK,
		},
		{
			name:     "check on unknown row",
			method:   http.MethodPut,
			path:     "/api/alignment-rows/00000000-0000-4000-8000-000000000000/plo-checks",
			body:     marchallObj(t, obj{"plo_id": ploID, "checked": true}),
			wantCode: http.StatusBadRequest,
		},
	})

	var rows []alignment.Row
	decode(t, do(http.MethodGet, "/api/programs/"+progID+"/alignment-rows"), &rows)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].PLOChecks, 1)
	assert.Equal(t, "PLO1", rows[0].PLOChecks[0].Code)
	assert.False(t, rows[0].PLOChecks[0].Checked)
	assert.Empty(t, rows[0].MLOChecks)

	// deleting the PLO drops its checks
	rec := do(http.MethodDelete, "/api/plos/"+ploID)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, do(http.MethodGet, "/api/programs/"+progID+"/alignment-rows"), &rows)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].PLOChecks)

	rec = do(http.MethodDelete, "/api/alignment-rows/"+rowID)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(http.MethodDelete, "/api/alignment-rows/"+rowID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
