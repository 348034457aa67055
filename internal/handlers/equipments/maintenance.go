package equipments

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	httpserver "github.com/Wolfof420Street/Employee-Tracker/internal/http"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// visibleEquipment loads an equipment record and applies the read policy:
// out-of-scope records answer as if they did not exist.
func (h *Handler) visibleEquipment(r *http.Request, actor access.Actor, id string) (models.Equipment, error) {
	e, err := h.store.EquipmentByID(r.Context(), id)
	if err != nil {
		return models.Equipment{}, err
	}
	allowed, err := h.resolver.CanAccess(r.Context(), actor, access.EquipmentBinding(e))
	if err != nil {
		return models.Equipment{}, err
	}
	if !allowed {
		return models.Equipment{}, models.ErrNotFound
	}
	return e, nil
}

// ListMaintenance handles GET /equipments/{id}/maintenance.
func (h *Handler) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	e, err := h.visibleEquipment(r, actor, chi.URLParam(r, "id"))
	if err != nil {
		httpserver.Error(w, err, "failed to list maintenance")
		return
	}
	records, err := h.store.ListMaintenance(r.Context(), e.ID)
	if err != nil {
		httpserver.Error(w, err, "failed to list maintenance")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"maintenance": records, "count": len(records)})
}

// CreateMaintenance handles POST /equipments/{id}/maintenance.
func (h *Handler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	var body struct {
		MaintenanceDate *time.Time `json:"maintenance_date"`
		Description     string     `json:"description"`
		RepairCost      *float64   `json:"repair_cost"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&body); err != nil {
		httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	defer r.Body.Close()

	if body.Description == "" {
		httpserver.Error(w, fmt.Errorf("%w: description is required", models.ErrInvalidInput), "")
		return
	}

	e, err := h.visibleEquipment(r, actor, chi.URLParam(r, "id"))
	if err != nil {
		httpserver.Error(w, err, "failed to record maintenance")
		return
	}

	when := time.Now()
	if body.MaintenanceDate != nil {
		when = *body.MaintenanceDate
	}
	created, err := h.store.CreateMaintenance(r.Context(), models.Maintenance{
		EquipmentID:     e.ID,
		MaintenanceDate: when,
		Description:     body.Description,
		RepairCost:      body.RepairCost,
	})
	if err != nil {
		httpserver.Error(w, err, "failed to record maintenance")
		return
	}
	httpserver.JSON(w, http.StatusCreated, created)
}

// ResolveMaintenance handles POST /maintenance/{id}/resolve. Authorization
// runs against the owning equipment inside the same transaction as the write.
func (h *Handler) ResolveMaintenance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	var body struct {
		ResolvedDate *time.Time `json:"resolved_date"`
		RepairCost   *float64   `json:"repair_cost"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&body); err != nil {
		httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	defer r.Body.Close()

	resolvedAt := time.Now()
	if body.ResolvedDate != nil {
		resolvedAt = *body.ResolvedDate
	}

	ctx := r.Context()
	updated, err := h.store.ResolveMaintenance(ctx, chi.URLParam(r, "id"), resolvedAt, body.RepairCost, func(m models.Maintenance, e models.Equipment) error {
		if m.Resolved {
			return fmt.Errorf("%w: maintenance already resolved", models.ErrInvalidInput)
		}
		if resolvedAt.Before(m.MaintenanceDate) {
			return fmt.Errorf("%w: resolved date precedes maintenance date", models.ErrInvalidInput)
		}
		allowed, err := h.resolver.CanAccess(ctx, actor, access.EquipmentBinding(e))
		if err != nil {
			return err
		}
		if !allowed {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		httpserver.Error(w, err, "failed to resolve maintenance")
		return
	}
	httpserver.JSON(w, http.StatusOK, updated)
}
