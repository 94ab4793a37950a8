package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/modules/core/domain/aggregates/user"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/middleware"
)

type stubAdminVerifier struct {
	admin *admin.Admin
}

func (s *stubAdminVerifier) VerifyAdminCredential(_ context.Context, token string) (*admin.Admin, error) {
	if s.admin == nil || token != "valid-token" {
		return nil, errors.New("bad token")
	}
	return s.admin, nil
}

type stubUserVerifier struct {
	user *user.User
}

func (s *stubUserVerifier) VerifyUserSession(_ context.Context, token string) (*user.User, error) {
	if s.user == nil || token != "valid-session" {
		return nil, errors.New("bad session")
	}
	return s.user, nil
}

func adminRouter(verifier middleware.AdminVerifier, minRole admin.Role) *mux.Router {
	r := mux.NewRouter()
	protected := r.PathPrefix("/admin").Subrouter()
	protected.Use(middleware.RequireAdmin(verifier, minRole))
	protected.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		a, err := composables.UseAdmin(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(a.Email))
	}).Methods(http.MethodGet)
	return r
}

func doRequest(r *mux.Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func failureMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	return body.Error
}

func TestRequireAdminMissingHeader(t *testing.T) {
	r := adminRouter(&stubAdminVerifier{}, admin.RoleEditor)

	rec := doRequest(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "authentication required", failureMessage(t, rec))
}

func TestRequireAdminMalformedHeader(t *testing.T) {
	r := adminRouter(&stubAdminVerifier{}, admin.RoleEditor)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := doRequest(r, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminInvalidToken(t *testing.T) {
	r := adminRouter(&stubAdminVerifier{admin: &admin.Admin{Email: "a@b.c", Role: admin.RoleAdmin}}, admin.RoleEditor)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := doRequest(r, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid or expired credential", failureMessage(t, rec))
}

func TestRequireAdminInsufficientRole(t *testing.T) {
	editor := &admin.Admin{Email: "editor@example.com", Role: admin.RoleEditor}
	r := adminRouter(&stubAdminVerifier{admin: editor}, admin.RoleSuperAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := doRequest(r, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "insufficient role", failureMessage(t, rec))
}

func TestRequireAdminRoleRankAdmitsHigherRole(t *testing.T) {
	super := &admin.Admin{Email: "root@example.com", Role: admin.RoleSuperAdmin}
	r := adminRouter(&stubAdminVerifier{admin: super}, admin.RoleEditor)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := doRequest(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "root@example.com", rec.Body.String())
}

func TestRequireUser(t *testing.T) {
	u := &user.User{ID: 7, Email: "listener@example.com"}
	r := mux.NewRouter()
	protected := r.PathPrefix("/account").Subrouter()
	protected.Use(middleware.RequireUser(&stubUserVerifier{user: u}, "sid"))
	protected.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		got, err := composables.UseUser(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(got.Email))
	}).Methods(http.MethodGet)

	// No cookie.
	rec := doRequest(r, httptest.NewRequest(http.MethodGet, "/account", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bad cookie.
	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	rec = doRequest(r, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid cookie.
	req = httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "valid-session"})
	rec = doRequest(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "listener@example.com", rec.Body.String())
}
