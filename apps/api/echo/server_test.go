package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/user"
	inmemdb "github.com/fmsedu/curriculum/storage/database/inmem"
)

// fakeGuard locks a key once it failed `after` times.
type fakeGuard struct {
	after     int
	failures  map[string]int
	succeeded []string
}

func (g *fakeGuard) Locked(_ context.Context, key string) time.Duration {
	if g.after > 0 && g.failures[key] >= g.after {
		return 90 * time.Second
	}
	return 0
}
func (g *fakeGuard) Failed(_ context.Context, key string)    { g.failures[key]++ }
func (g *fakeGuard) Succeeded(_ context.Context, key string) { g.succeeded = append(g.succeeded, key) }

type fakeStore struct{ saved []string }

func (s *fakeStore) Save(fh *multipart.FileHeader) (string, error) {
	s.saved = append(s.saved, fh.Filename)
	return "123-" + fh.Filename, nil
}

type testEnv struct {
	conf   *core.Config
	repo   *inmemdb.UserRepository
	guard  *fakeGuard
	store  *fakeStore
	server *Server
}

func testConfig(t *testing.T) *core.Config {
	return &core.Config{
		AppName:   "test",
		SecretKey: "test-secret",
		TestMode:  true,
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
			FrontendDir:               t.TempDir(),
			UploadDir:                 t.TempDir(),
			MaxUploadSize:             1 << 20,
		},
	}
}

func setup(t *testing.T) *testEnv {
	conf := testConfig(t)
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	env := &testEnv{
		conf:  conf,
		repo:  inmemdb.NewUserRepository(inmemdb.Open()),
		guard: &fakeGuard{failures: make(map[string]int)},
		store: &fakeStore{},
	}
	env.server = NewServer(ServerDeps{
		Conf:       conf,
		Logger:     nopLogger{},
		Validate:   validate,
		Translator: translator,
		LoginGuard: env.guard,
		Uploads:    env.store,
		UserSvc:    user.NewService(env.repo),
	})
	return env
}

func (env *testEnv) createUser(t *testing.T, email, pwd string, active bool) user.User {
	usr := user.User{Email: email, Role: user.RoleStaff}
	require.NoError(t, usr.SetPassword(pwd))
	usr, err := env.repo.UpsertUser(context.Background(), usr)
	require.NoError(t, err)
	if !active {
		require.NoError(t, env.repo.SetActive(usr.ID, false))
		usr.IsActive = false
	}
	return usr
}

func (env *testEnv) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestLogin(t *testing.T) {
	env := setup(t)
	env.createUser(t, "staff@cmu.ac.th", "S3cret!pass", true)
	env.createUser(t, "gone@cmu.ac.th", "S3cret!pass", false)

	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantFields []string
	}{
		{name: "missing fields", body: `{}`, wantCode: http.StatusBadRequest, wantFields: []string{"email", "password"}},
		{name: "malformed json", body: `{"email":`, wantCode: http.StatusBadRequest},
		{name: "unknown email", body: `{"email":"who@cmu.ac.th","password":"S3cret!pass"}`, wantCode: http.StatusUnauthorized},
		{name: "wrong password", body: `{"email":"staff@cmu.ac.th","password":"nope"}`, wantCode: http.StatusUnauthorized},
		{name: "deactivated", body: `{"email":"gone@cmu.ac.th","password":"S3cret!pass"}`, wantCode: http.StatusUnauthorized},
		{name: "ok with messy email", body: `{"email":"  Staff@CMU.ac.th ","password":"S3cret!pass"}`, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/login", "", []byte(tt.body))
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusOK {
				var resp ErrorResponse
				decode(t, rec, &resp)
				assert.NotEmpty(t, resp.Message)
				for _, fld := range tt.wantFields {
					assert.Contains(t, resp.Fields, fld)
				}
				return
			}

			var raw map[string]interface{}
			decode(t, rec, &raw)
			assert.NotEmpty(t, raw["token"])
			usr := raw["user"].(map[string]interface{})
			assert.Equal(t, "staff@cmu.ac.th", usr["email"])
			assert.NotContains(t, usr, "password_hash")
			assert.NotNil(t, usr["last_login"])
		})
	}
	assert.Len(t, env.guard.succeeded, 1)
}

func TestLogin_throttled(t *testing.T) {
	env := setup(t)
	env.guard.after = 2
	env.createUser(t, "staff@cmu.ac.th", "S3cret!pass", true)

	bad := []byte(`{"email":"staff@cmu.ac.th","password":"nope"}`)
	good := []byte(`{"email":"staff@cmu.ac.th","password":"S3cret!pass"}`)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/login", "", bad).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/login", "", bad).Code)

	rec := env.do(http.MethodPost, "/api/login", "", good)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
}

func TestTokenRefresh(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "staff@cmu.ac.th", "S3cret!pass", true)
	gone := env.createUser(t, "gone@cmu.ac.th", "S3cret!pass", false)

	token := func(u user.User, origIat int64) string {
		tok, err := GenerateToken(env.conf, NewClaims(env.conf, u, origIat))
		require.NoError(t, err)
		return tok
	}
	now := time.Now().Unix()

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{name: "no token", wantCode: http.StatusUnauthorized},
		{name: "garbage token", token: "abc.def.ghi", wantCode: http.StatusUnauthorized},
		{name: "refresh expired", token: token(usr, now-int64((48*time.Hour).Seconds())), wantCode: http.StatusForbidden},
		{name: "deactivated", token: token(gone, now), wantCode: http.StatusForbidden},
		{name: "ok", token: token(usr, now), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/token-refresh", tt.token, nil)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestStatic(t *testing.T) {
	env := setup(t)
	dir := env.conf.Server.FrontendDir
	require.NoError(t, os.WriteFile(filepath.Join(dir, "login.html"), []byte("login page"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(env.conf.Server.UploadDir, "logo.png"), []byte("png"), 0o644))

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{path: "/app.js", wantCode: http.StatusOK, wantBody: "console.log(1)"},
		{path: "/dashboard", wantCode: http.StatusOK, wantBody: "login page"},
		{path: "/../../etc/passwd", wantCode: http.StatusOK, wantBody: "login page"},
		{path: "/uploads/logo.png", wantCode: http.StatusOK, wantBody: "png"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := env.do(http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, string(bytes.TrimSpace(rec.Body.Bytes())))
		})
	}

	rec := env.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Message)
}

func TestUpload(t *testing.T) {
	env := setup(t)

	t.Run("missing file", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/uploads", "", []byte(`{}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp ErrorResponse
		decode(t, rec, &resp)
		assert.Contains(t, resp.Fields, "file")
	})

	t.Run("ok", func(t *testing.T) {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		part, err := w.CreateFormFile("file", "logo.png")
		require.NoError(t, err)
		_, _ = part.Write([]byte("\x89PNG\x0D\x0A\x1A\x0A"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp UploadResponse
		decode(t, rec, &resp)
		assert.Equal(t, "123-logo.png", resp.Filename)
		assert.Equal(t, "/uploads/123-logo.png", resp.URL)
		assert.Equal(t, []string{"logo.png"}, env.store.saved)
	})
}
