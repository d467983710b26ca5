package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskpad/taskpad/internal/auth"
)

// RequireOwner returns middleware that enforces the ownership contract:
// the user_id route parameter must equal the verified token identity.
// Must be applied after Auth middleware.
//
// Identities are opaque strings compared byte-exact; any mismatch denies
// before the handler (and therefore the repository) runs. The response never
// reveals whether the addressed resource exists.
func RequireOwner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.IdentityFromContext(r.Context())
			if identity == nil {
				writeAuthError(w)
				return
			}

			pathUserID := chi.URLParam(r, "user_id")
			if pathUserID == "" || pathUserID != identity.UserID {
				writeOwnerError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeOwnerError writes a 403 Forbidden response.
func writeOwnerError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"not authorized to access this user's tasks","code":"FORBIDDEN"}`))
}
