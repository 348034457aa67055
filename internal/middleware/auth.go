package middleware

import (
	"net/http"

	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

// RequireAuth authenticates using the "session" cookie, confirms the seat
// still exists, and injects the session into the context.
func RequireAuth(store repo.Store, sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s := auth.ReadSession(req, sessions)
			if s == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if _, err := store.UserByID(req.Context(), s.UserID); err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithSession(req.Context(), s)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
