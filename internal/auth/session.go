// internal/auth/session.go
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

type ctxKeySession struct{}

// cookieSecure controls whether the session cookie is marked Secure.
// Default true; main() should override based on config for local dev.
var cookieSecure = true

// SetCookieSecurity allows main.go to configure whether cookies are Secure.
func SetCookieSecurity(secure bool) { cookieSecure = secure }

var sameSiteMode = http.SameSiteLaxMode

// SetCookieSameSite allows configuring SameSite mode: "lax", "none", "strict".
func SetCookieSameSite(mode string) {
	switch mode {
	case "none":
		sameSiteMode = http.SameSiteNoneMode
	case "strict":
		sameSiteMode = http.SameSiteStrictMode
	default:
		sameSiteMode = http.SameSiteLaxMode
	}
}

func SetSessionCookie(w http.ResponseWriter, store *session.Store, s models.Session) {
	// Store server-side and set an opaque session id cookie
	sid := store.Create(s)
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: sameSiteMode,
		Expires:  s.Expiry,
	})
}

func ClearSessionCookie(w http.ResponseWriter, store *session.Store, r *http.Request) {
	if c, err := r.Cookie("session"); err == nil && c.Value != "" {
		store.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: sameSiteMode,
		MaxAge:   -1,
	})
}

// ReadSession resolves the "session" cookie to a live session, or nil.
func ReadSession(r *http.Request, store *session.Store) *models.Session {
	c, err := r.Cookie("session")
	if err != nil || c.Value == "" {
		return nil
	}
	sess, ok := store.Get(c.Value)
	if !ok {
		return nil
	}
	if !sess.Expiry.IsZero() && sess.Expiry.Before(time.Now()) {
		return nil
	}
	// Return a copy to avoid mutation of store by callers
	s := sess
	return &s
}

func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession{}, s)
}

func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(ctxKeySession{}).(*models.Session)
	return s, ok
}
