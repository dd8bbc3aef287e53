package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AdminChecker decides admin access from the authenticated user's role and
// email, so the allow-list lives in one place.
type AdminChecker func(role, email string) bool

// NewAdminChecker grants admin to the admin role or to any email on the
// static allow-list.
func NewAdminChecker(allowedEmails []string) AdminChecker {
	allowList := make(map[string]bool, len(allowedEmails))
	for _, email := range allowedEmails {
		allowList[strings.ToLower(strings.TrimSpace(email))] = true
	}

	return func(role, email string) bool {
		if role == "admin" {
			return true
		}
		return allowList[strings.ToLower(email)]
	}
}

// RequireAdmin middleware ensures the user has admin access
func RequireAdmin(isAdmin AdminChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			email, _ := GetUserEmail(r.Context())

			if !isAdmin(role, email) {
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("role", role),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole middleware ensures the user has one of the specified roles
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			// Check if user's role is in allowed roles
			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				logger.Warn("User role not authorized",
					zap.String("role", role),
					zap.Strings("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
