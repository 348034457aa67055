package admin

import (
	"net/http"
	"time"

	httpserver "github.com/Wolfof420Street/Employee-Tracker/internal/http"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

// ListSessionsHandler returns JSON of active sessions. The route group
// already enforces authentication and the national-admin role.
func ListSessionsHandler(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		type item struct {
			ID        string    `json:"id"`
			UserID    int64     `json:"user_id"`
			Role      string    `json:"role"`
			Name      string    `json:"name"`
			ExpiresAt time.Time `json:"expires_at"`
		}
		entries := sessions.List()
		out := make([]item, 0, len(entries))
		for _, e := range entries {
			out = append(out, item{
				ID:        e.ID,
				UserID:    e.Session.UserID,
				Role:      string(e.Session.Role),
				Name:      e.Session.Name,
				ExpiresAt: e.Session.Expiry,
			})
		}
		httpserver.JSON(w, http.StatusOK, out)
	}
}
