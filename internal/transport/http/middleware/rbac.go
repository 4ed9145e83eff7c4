package middleware

import (
	"net/http"

	"github.com/islamipic/api/internal/domain"
)

// RequireRoles is an allow-list check on the live role loaded by Auth.
// The five roles are peers as far as routing goes; each route names the roles
// it accepts instead of ranking them.
func RequireRoles(writeErr WriteErrFunc, roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				// Auth middleware missing or not run.
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			if !allowed[role] {
				writeErr(w, r, domain.ErrForbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
