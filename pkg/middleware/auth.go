package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/modules/core/domain/aggregates/user"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/httpapi"
)

// AdminVerifier decodes an admin bearer token. UserVerifier resolves an
// end-user session cookie. The two credential populations stay decoupled:
// they have different formats and expiry policies.
type AdminVerifier interface {
	VerifyAdminCredential(ctx context.Context, token string) (*admin.Admin, error)
}

type UserVerifier interface {
	VerifyUserSession(ctx context.Context, token string) (*user.User, error)
}

// RequireAdmin authenticates the bearer credential and enforces the minimum
// role. Missing or invalid credentials yield 401; a valid credential below
// the required rank yields 403.
func RequireAdmin(verifier AdminVerifier, minRole admin.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			a, err := verifier.VerifyAdminCredential(r.Context(), token)
			if err != nil {
				httpapi.WriteFailure(w, http.StatusUnauthorized, "invalid or expired credential")
				return
			}
			if !a.Role.AtLeast(minRole) {
				httpapi.WriteFailure(w, http.StatusForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithAdmin(r.Context(), a)))
		})
	}
}

// RequireUser authenticates the end-user session cookie.
func RequireUser(verifier UserVerifier, cookieName string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
				return
			}

			u, err := verifier.VerifyUserSession(r.Context(), cookie.Value)
			if err != nil {
				httpapi.WriteFailure(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithUser(r.Context(), u)))
		})
	}
}
