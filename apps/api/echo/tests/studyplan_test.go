package tests

import (
	"net/http"
	"testing"

	"github.com/fmsedu/curriculum/testutil"
)

type semesterSubjectResp struct {
	Message         string `json:"message"`
	SemesterSubject *struct {
		ID               string `json:"id"`
		EffectiveCredits int    `json:"effective_credits"`
	} `json:"semester_subject"`
	TotalCredits int `json:"total_credits"`
}

func Test_studyPlanApi_credits(t *testing.T) {
	testutil.ResetDB(t, db)

	algo := create(t, "/api/subjects", "subject", obj{"code": "261217", "name_th": "Algorithms", "default_credits": 3})
	ds := create(t, "/api/subjects", "subject", obj{"code": "261218", "name_th": "Data structures", "default_credits": 2})
	courseID := create(t, "/api/courses", "course", obj{"code": "CPE", "name_th": "Computer engineering"})
	planID := create(t, "/api/study-plans", "study_plan", obj{"course_id": courseID, "academic_year": 2023, "year_no": 2})
	semID := create(t, "/api/semesters", "semester", obj{"study_plan_id": planID, "term": 1})

	write := func(t *testing.T, method, path string, body interface{}, wantCode, wantTotal int) semesterSubjectResp {
		t.Helper()
		var data []byte
		if body != nil {
			data = marchallObj(t, body)
		}
		rec := do(method, path, data)
		if rec.Code != wantCode {
			t.Fatalf("code = %d; want %d; body %s", rec.Code, wantCode, rec.Body.String())
		}
		var resp semesterSubjectResp
		decode(t, rec, &resp)
		if resp.TotalCredits != wantTotal {
			t.Errorf("total_credits = %d; want %d", resp.TotalCredits, wantTotal)
		}
		return resp
	}

	first := write(t, http.MethodPost, "/api/semester-subjects", obj{"semester_id": semID, "subject_id": algo}, http.StatusCreated, 3)
	second := write(t, http.MethodPost, "/api/semester-subjects", obj{"semester_id": semID, "subject_id": ds, "credits": 4}, http.StatusCreated, 7)
	if second.SemesterSubject == nil || second.SemesterSubject.EffectiveCredits != 4 {
		t.Errorf("semester_subject = %+v", second.SemesterSubject)
	}

	write(t, http.MethodPut, "/api/semester-subjects/"+first.SemesterSubject.ID, obj{"credits": 1}, http.StatusOK, 5)
	write(t, http.MethodPut, "/api/semester-subjects/"+second.SemesterSubject.ID, obj{"reset_credits": true}, http.StatusOK, 3)

	runHTTPTests(t, []httpTest{
		{
			name:     "plan without owner",
			method:   http.MethodPost,
			path:     "/api/study-plans",
			body:     []byte(`{"academic_year":2023,"year_no":1}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "subject in use",
			method:   http.MethodDelete,
			path:     "/api/subjects/" + ds,
			wantCode: http.StatusConflict,
			wantData: []byte(`{"message":"subject is still in use"}`),
		},
		{
			name:     "unknown semester",
			method:   http.MethodPost,
			path:     "/api/semester-subjects",
			body:     []byte(`{"semester_id":"00000000-0000-4000-8000-000000000000","subject_id":"` + ds + `"}`),
			wantCode: http.StatusBadRequest,
		},
	})

	removed := write(t, http.MethodDelete, "/api/semester-subjects/"+second.SemesterSubject.ID, nil, http.StatusOK, 1)
	if removed.SemesterSubject != nil {
		t.Errorf("semester_subject = %+v; want none", removed.SemesterSubject)
	}

	t.Run("full plan", func(t *testing.T) {
		var rows []obj
		decode(t, do(http.MethodGet, "/api/study-plans/"+planID+"/full", nil), &rows)
		if len(rows) != 1 || rows[0]["subject_code"] != "261217" {
			t.Errorf("rows = %v", rows)
		}
	})

	t.Run("deleting the plan cascades", func(t *testing.T) {
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, do(http.MethodDelete, "/api/study-plans/"+planID, nil))
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, do(http.MethodDelete, "/api/subjects/"+algo, nil))
	})
}
