package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	. "github.com/fmsedu/curriculum/apps/api/echo"
	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/alignment"
	"github.com/fmsedu/curriculum/core/outcome"
	"github.com/fmsedu/curriculum/core/program"
	"github.com/fmsedu/curriculum/core/score"
	"github.com/fmsedu/curriculum/core/studyplan"
	"github.com/fmsedu/curriculum/core/subject"
	"github.com/fmsedu/curriculum/core/survey"
	"github.com/fmsedu/curriculum/core/user"
	logsvc "github.com/fmsedu/curriculum/services/logger"
	"github.com/fmsedu/curriculum/storage/database/sqlxrepos"
	"github.com/fmsedu/curriculum/testutil"
)

var (
	db      *sqlx.DB
	conf    *core.Config
	app     *Server
	usrRepo user.Repository
)

func TestMain(m *testing.M) {
	var err error

	// set up DB & repos
	db, conf, err = testutil.OpenDB()
	if err != nil {
		fmt.Printf("skipping API tests, no test database: %v\n", err)
		os.Exit(0)
	}
	usrRepo = sqlxrepos.NewUserRepository(db)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	outcome.InitValidators(validate, translator)
	studyplan.InitValidators(validate, translator)

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)

	frontend, err := ioutil.TempDir("", "frontend")
	if err != nil {
		fmt.Printf("ioutil.TempDir(): %v", err)
		os.Exit(1)
	}
	conf.Server.FrontendDir = frontend
	conf.Server.UploadDir = frontend

	// set up server
	app = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		DB:           db,
		Validate:     validate,
		Translator:   translator,
		UserSvc:      user.NewService(usrRepo),
		ProgramSvc:   program.NewService(sqlxrepos.NewProgramRepository(db)),
		SubjectSvc:   subject.NewService(sqlxrepos.NewSubjectRepository(db)),
		StudyPlanSvc: studyplan.NewService(sqlxrepos.NewStudyPlanRepository(db)),
		OutcomeSvc:   outcome.NewService(sqlxrepos.NewOutcomeRepository(db)),
		AlignmentSvc: alignment.NewService(sqlxrepos.NewAlignmentRepository(db)),
		ScoreSvc:     score.NewService(sqlxrepos.NewScoreRepository(db)),
		SurveySvc:    survey.NewService(sqlxrepos.NewSurveyRepository(db)),
	})

	// run tests
	code := m.Run()

	// clean up
	_ = os.RemoveAll(frontend)
	if err = db.Close(); err != nil {
		fmt.Printf("db.Close(): %v", err)
		os.Exit(1)
	}

	os.Exit(code)
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data...)
	app.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, do(tt.method, tt.path, tt.body))
		})
	}
}

// create POSTs data to path and returns the id of the object stored under key.
func create(t *testing.T, path, key string, data interface{}) string {
	t.Helper()
	rec := do(http.MethodPost, path, marchallObj(t, data))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create(%s): code = %d; body %s", path, rec.Code, rec.Body.String())
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("create(%s): %v", path, err)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp[key], &created); err != nil || created.ID == "" {
		t.Fatalf("create(%s): no %q in %s", path, key, rec.Body.String())
	}
	return created.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode(): %v; body %s", err, rec.Body.String())
	}
}

type obj = map[string]interface{}
