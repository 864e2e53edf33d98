package auth

import (
	"net/http"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/pkg/logger"
)

// RequireRole lets a request through only when the identity attached by
// Gate.Authenticate has one of roles. Everything else gets 403.
func RequireRole(roles ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				logger.From(r.Context()).Warn("access denied: no identity", "path", r.URL.Path)
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			if !id.In(roles...) {
				logger.From(r.Context()).Warn("access denied: role not permitted",
					"user_id", id.UserID,
					"role", id.Role,
					"required_roles", roles,
					"path", r.URL.Path)
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
