package middleware

import (
	"log/slog"
	"net/http"

	"github.com/TonyS-dev/nexus-hr/internal/auth"
)

// RequireAccessLevel gates a route to employees holding one of the given
// access levels. The auth middleware must have run first.
func RequireAccessLevel(levels ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			emp, ok := auth.EmployeeFromContext(r.Context())
			if !ok || emp == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed := false
			for _, level := range levels {
				if emp.AccessLevel == level {
					allowed = true
					break
				}
			}

			if !allowed {
				slog.Warn("access denied: employee lacks required access level",
					"employee_id", emp.ID,
					"access_level", emp.AccessLevel,
					"required_levels", levels)
				http.Error(w, "Forbidden: insufficient access level", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
