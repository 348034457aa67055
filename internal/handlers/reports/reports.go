package reports

import (
	"fmt"
	"net/http"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/analysis"
	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	httpserver "github.com/Wolfof420Street/Employee-Tracker/internal/http"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
)

// Handler serves the dashboard aggregates.
type Handler struct {
	store    repo.Store
	engine   *analysis.Engine
	resolver *access.Resolver
}

func New(store repo.Store) *Handler {
	return &Handler{
		store:    store,
		engine:   analysis.NewEngine(store),
		resolver: access.NewResolver(store),
	}
}

func actorFrom(r *http.Request) (access.Actor, bool) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok || sess == nil {
		return access.Actor{}, false
	}
	return access.ActorFromSession(*sess), true
}

// Overview handles GET /analysis. time_range selects the acquisition
// lookback window and defaults to one year.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	scope, err := access.BuildScope(actor)
	if err != nil {
		httpserver.Error(w, err, "failed to compute analysis")
		return
	}
	scope = scope.Narrow(filterFromQuery(r))

	timeRange := r.URL.Query().Get("time_range")
	if timeRange == "" {
		timeRange = "1y"
	}

	out, err := h.engine.Overview(r.Context(), scope, timeRange)
	if err != nil {
		httpserver.Error(w, err, "failed to compute analysis")
		return
	}
	httpserver.JSON(w, http.StatusOK, out)
}

// Distribution handles GET /analysis/distribution: the equipment-type gap
// report across sub-counties. A county admin is pinned to its own county;
// a region admin may only ask about counties inside its region.
func (h *Handler) Distribution(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	var countyID *string
	if v := r.URL.Query().Get("county_id"); v != "" {
		countyID = &v
	}

	switch actor.Role {
	case models.RoleSubCountyUser:
		httpserver.Error(w, models.ErrForbidden, "")
		return
	case models.RoleCountyAdmin:
		if actor.CountyID == nil || *actor.CountyID == "" {
			httpserver.Error(w, models.ErrConfiguration, "")
			return
		}
		countyID = actor.CountyID
	case models.RoleRegionAdmin:
		// A region-wide roll-up is not offered; the report is per county.
		if countyID == nil {
			httpserver.Error(w, fmt.Errorf("%w: county_id is required", models.ErrInvalidInput), "")
			return
		}
		allowed, err := h.resolver.CanAccess(r.Context(), actor, access.Binding{CountyID: countyID})
		if err != nil {
			httpserver.Error(w, err, "failed to compute distribution")
			return
		}
		if !allowed {
			httpserver.Error(w, models.ErrForbidden, "")
			return
		}
	}

	out, err := h.engine.Distribution(r.Context(), h.store, countyID)
	if err != nil {
		httpserver.Error(w, err, "failed to compute distribution")
		return
	}
	httpserver.JSON(w, http.StatusOK, out)
}

func filterFromQuery(r *http.Request) access.ListFilter {
	q := r.URL.Query()
	var f access.ListFilter
	if v := q.Get("office"); v != "" {
		o := models.Office(v)
		f.Office = &o
	}
	if v := q.Get("region_id"); v != "" {
		f.RegionID = &v
	}
	if v := q.Get("county_id"); v != "" {
		f.CountyID = &v
	}
	if v := q.Get("sub_county_id"); v != "" {
		f.SubCountyID = &v
	}
	return f
}
