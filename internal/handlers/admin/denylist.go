package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	httpserver "github.com/Wolfof420Street/Employee-Tracker/internal/http"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/security"
)

// DenySeatHandler handles POST /admin/denylist/seats/{id}: blocks every
// request from the seat until it is allowed again. Existing sessions keep
// working through the denylist middleware check, so the block is immediate.
func DenySeatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			httpserver.Error(w, models.ErrInvalidInput, "invalid seat id")
			return
		}
		security.DenySeat(id)
		httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// AllowSeatHandler handles DELETE /admin/denylist/seats/{id}.
func AllowSeatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			httpserver.Error(w, models.ErrInvalidInput, "invalid seat id")
			return
		}
		security.AllowSeat(id)
		httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// DenyKeyHandler handles POST /admin/denylist/keys: revokes an access key
// by its lookup digest before the seat is reprovisioned.
func DenyKeyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		digest := req.URL.Query().Get("digest")
		if digest == "" {
			httpserver.Error(w, models.ErrInvalidInput, "digest is required")
			return
		}
		security.DenyKey(digest)
		httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// AllowKeyHandler handles DELETE /admin/denylist/keys.
func AllowKeyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		digest := req.URL.Query().Get("digest")
		if digest == "" {
			httpserver.Error(w, models.ErrInvalidInput, "digest is required")
			return
		}
		security.AllowKey(digest)
		httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
