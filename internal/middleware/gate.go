package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// TokenValidator checks an access token and returns its role and email
// claims. Validation errors mean "not authenticated".
type TokenValidator func(token string) (role, email string, err error)

// RouteGate redirects browser page navigation based on session state:
// unauthenticated users away from /account and /admin to /login,
// authenticated non-admins away from /admin to /, and authenticated users
// away from /login and /register to /. API routes are untouched.
func RouteGate(validate TokenValidator, isAdmin AdminChecker, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			protected := strings.HasPrefix(path, "/account") || strings.HasPrefix(path, "/admin")
			guestOnly := strings.HasPrefix(path, "/login") || strings.HasPrefix(path, "/register")

			if !protected && !guestOnly {
				next.ServeHTTP(w, r)
				return
			}

			role, email := "", ""
			authenticated := false
			if token, ok := ExtractToken(r); ok {
				var err error
				role, email, err = validate(token)
				if err != nil {
					logger.Debug("Session token rejected at route gate", zap.Error(err))
				} else {
					authenticated = true
				}
			}

			if protected && !authenticated {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if strings.HasPrefix(path, "/admin") && !isAdmin(role, email) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			if guestOnly && authenticated {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
