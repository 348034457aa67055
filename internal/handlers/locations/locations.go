package locations

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Wolfof420Street/Employee-Tracker/internal/httpctx"
	httpserver "github.com/Wolfof420Street/Employee-Tracker/internal/http"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
)

// Handler serves the administrative hierarchy as reference data for
// pickers and dashboards.
type Handler struct {
	store repo.Store
}

func New(store repo.Store) *Handler { return &Handler{store: store} }

func listOpts(r *http.Request) repo.ListOpts {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return repo.ListOpts{
		Search:           q.Get("search"),
		SortBy:           q.Get("sort_by"),
		Descending:       q.Get("order") == "desc",
		Page:             page,
		Limit:            limit,
		WithoutEquipment: q.Get("without_equipment") == "true",
	}
}

func pageMeta(total int, opts repo.ListOpts) models.PageMeta {
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	pages := (total + limit - 1) / limit
	return models.PageMeta{Total: total, Page: page, Limit: limit, Pages: pages}
}

// ListCounties handles GET /counties. A region admin only ever sees the
// counties of its own region, whatever the query says.
func (h *Handler) ListCounties(w http.ResponseWriter, r *http.Request) {
	sess, ok := httpctx.Session(r.Context())
	if !ok || sess == nil {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	var regionID *string
	if v := r.URL.Query().Get("region_id"); v != "" {
		regionID = &v
	}
	if sess.Role == models.RoleRegionAdmin {
		if sess.RegionID == nil || *sess.RegionID == "" {
			httpserver.Error(w, models.ErrConfiguration, "")
			return
		}
		regionID = sess.RegionID
	}

	opts := listOpts(r)
	counties, total, err := h.store.ListCounties(r.Context(), regionID, opts)
	if err != nil {
		httpserver.Error(w, err, "failed to list counties")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{
		"counties": counties,
		"meta":     pageMeta(total, opts),
	})
}

// ListSubCounties handles GET /counties/{id}/subcounties.
func (h *Handler) ListSubCounties(w http.ResponseWriter, r *http.Request) {
	sess, ok := httpctx.Session(r.Context())
	if !ok || sess == nil {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	countyID := chi.URLParam(r, "id")
	if _, err := h.store.County(r.Context(), countyID); err != nil {
		httpserver.Error(w, err, "failed to list sub-counties")
		return
	}

	opts := listOpts(r)
	subCounties, total, err := h.store.ListSubCounties(r.Context(), countyID, opts)
	if err != nil {
		httpserver.Error(w, err, "failed to list sub-counties")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{
		"sub_counties": subCounties,
		"meta":         pageMeta(total, opts),
	})
}
