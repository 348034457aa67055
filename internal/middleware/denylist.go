package middleware

import (
	"net/http"

	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	"github.com/Wolfof420Street/Employee-Tracker/internal/httpctx"
	"github.com/Wolfof420Street/Employee-Tracker/internal/security"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

// Denylist blocks requests from seats marked as denied. It runs ahead of
// RequireAuth, so it resolves the session cookie itself rather than
// relying on the context.
func Denylist(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := httpctx.UserID(r.Context())
			if !ok {
				if sess := auth.ReadSession(r, sessions); sess != nil {
					id, ok = sess.UserID, true
				}
			}
			if ok && security.IsSeatDenied(id) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
