package tests

import (
	"net/http"
	"testing"

	"github.com/fmsedu/curriculum/core/user"
	"github.com/fmsedu/curriculum/testutil"
)

func Test_authApi_login(t *testing.T) {
	testutil.ResetDB(t, db)

	testutil.CreateUser(t, db, "staff@cmu.ac.th", "Curr1culum!", user.RoleStaff, true)
	testutil.CreateUser(t, db, "old@cmu.ac.th", "Curr1culum!", user.RoleStaff, false)

	invalid := []byte(`{"message":"invalid email or password"}`)

	runHTTPTests(t, []httpTest{
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/login",
			body:     []byte(`{"email":""}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"message":"invalid data","fields":{"email":"this field is required","password":"this field is required"}}`),
		},
		{
			name:     "unknown user",
			method:   http.MethodPost,
			path:     "/api/login",
			body:     []byte(`{"email":"nobody@cmu.ac.th","password":"Curr1culum!"}`),
			wantCode: http.StatusUnauthorized,
			wantData: invalid,
		},
		{
			name:     "bad password",
			method:   http.MethodPost,
			path:     "/api/login",
			body:     []byte(`{"email":"staff@cmu.ac.th","password":"curriculum"}`),
			wantCode: http.StatusUnauthorized,
			wantData: invalid,
		},
		{
			name:     "inactive user",
			method:   http.MethodPost,
			path:     "/api/login",
			body:     []byte(`{"email":"old@cmu.ac.th","password":"Curr1culum!"}`),
			wantCode: http.StatusUnauthorized,
			wantData: invalid,
		},
	})

	t.Run("ok", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/login", []byte(`{"email":"STAFF@cmu.ac.th","password":"Curr1culum!"}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Token string `json:"token"`
			User  obj    `json:"user"`
		}
		decode(t, rec, &resp)
		if resp.Token == "" {
			t.Error("missing token")
		}
		if _, ok := resp.User["password_hash"]; ok {
			t.Error("password hash leaked")
		}
		if resp.User["last_login"] == nil {
			t.Error("last_login not set")
		}

		// the token works for a refresh
		req, rec := newAuthRequest(http.MethodPost, "/api/token-refresh", resp.Token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("refresh code = %d; body %s", rec.Code, rec.Body.String())
		}
	})
}

func TestHealth(t *testing.T) {
	runHTTPTests(t, []httpTest{
		{name: "ok", method: http.MethodGet, path: "/health", wantCode: http.StatusOK, wantData: []byte(`{"status":"ok"}`)},
	})
}
