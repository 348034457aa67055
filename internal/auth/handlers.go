// internal/auth/handlers.go
package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	httpserver "github.com/Wolfof420Street/Employee-Tracker/internal/http"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
	"github.com/Wolfof420Street/Employee-Tracker/internal/security"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

const sessionTTL = 8 * time.Hour

type identityResponse struct {
	ID          int64   `json:"id"`
	Role        string  `json:"role"`
	Name        string  `json:"name"`
	RegionID    *string `json:"region_id,omitempty"`
	CountyID    *string `json:"county_id,omitempty"`
	SubCountyID *string `json:"sub_county_id,omitempty"`
}

// LoginHandler exchanges an access key for a session. Identities are role
// seats: the display name is the bound unit's name, not a personal name.
// POST /auth/login { "access_key": "..." }
func LoginHandler(store repo.Store, sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			AccessKey string `json:"access_key"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		key := strings.TrimSpace(body.AccessKey)
		if key == "" {
			httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "access key is required"})
			return
		}
		if security.IsKeyDenied(KeyDigest(key)) {
			// Revoked keys look exactly like unknown ones.
			httpserver.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid access key"})
			return
		}

		user, phc, err := store.UserByAccessKeyDigest(req.Context(), KeyDigest(key))
		if err != nil || !VerifyKey(key, phc) {
			// Same response for unknown digest and failed verify.
			httpserver.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid access key"})
			return
		}

		name, err := SeatName(req.Context(), store, user)
		if err != nil {
			slog.ErrorContext(req.Context(), "seat name resolution failed", "user_id", user.ID, "err", err)
			httpserver.JSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
			return
		}

		sess := models.Session{
			UserID:      user.ID,
			Role:        user.Role,
			Name:        name,
			RegionID:    user.RegionID,
			CountyID:    user.CountyID,
			SubCountyID: user.SubCountyID,
			Expiry:      time.Now().Add(sessionTTL),
		}
		SetSessionCookie(w, sessions, sess)
		slog.InfoContext(req.Context(), "login", "user_id", user.ID, "role", user.Role)

		httpserver.JSON(w, http.StatusOK, identityResponse{
			ID:          user.ID,
			Role:        string(user.Role),
			Name:        name,
			RegionID:    user.RegionID,
			CountyID:    user.CountyID,
			SubCountyID: user.SubCountyID,
		})
	}
}

// LogoutHandler drops the server-side session and expires the cookie.
func LogoutHandler(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ClearSessionCookie(w, sessions, req)
		httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// MeHandler echoes the current identity.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		sess, ok := SessionFromContext(req.Context())
		if !ok || sess == nil {
			httpserver.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		httpserver.JSON(w, http.StatusOK, identityResponse{
			ID:          sess.UserID,
			Role:        string(sess.Role),
			Name:        sess.Name,
			RegionID:    sess.RegionID,
			CountyID:    sess.CountyID,
			SubCountyID: sess.SubCountyID,
		})
	}
}

// SeatName derives the display name for a seat from the unit it is bound
// to. National seats have no unit.
func SeatName(ctx context.Context, store repo.Store, u models.User) (string, error) {
	switch {
	case u.SubCountyID != nil && *u.SubCountyID != "":
		sc, err := store.SubCounty(ctx, *u.SubCountyID)
		if err != nil {
			return "", err
		}
		return sc.Name, nil
	case u.CountyID != nil && *u.CountyID != "":
		c, err := store.County(ctx, *u.CountyID)
		if err != nil {
			return "", err
		}
		return c.Name, nil
	case u.RegionID != nil && *u.RegionID != "":
		r, err := store.Region(ctx, *u.RegionID)
		if err != nil {
			return "", err
		}
		return r.Name, nil
	}
	return "Country Admin", nil
}
