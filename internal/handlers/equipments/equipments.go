package equipments

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	"github.com/Wolfof420Street/Employee-Tracker/internal/export"
	httpserver "github.com/Wolfof420Street/Employee-Tracker/internal/http"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
)

type Handler struct {
	store    repo.Store
	resolver *access.Resolver
}

func New(store repo.Store) *Handler {
	return &Handler{store: store, resolver: access.NewResolver(store)}
}

func actorFrom(r *http.Request) (access.Actor, bool) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok || sess == nil {
		return access.Actor{}, false
	}
	return access.ActorFromSession(*sess), true
}

type equipmentBody struct {
	Name         *string    `json:"name"`
	Type         *string    `json:"type"`
	Condition    *string    `json:"condition"`
	SerialNumber *string    `json:"serial_number"`
	PurchaseDate *time.Time `json:"purchase_date"`
	RegionID     *string    `json:"region_id"`
	CountyID     *string    `json:"county_id"`
	SubCountyID  *string    `json:"sub_county_id"`
}

// List handles GET /equipments with optional office/region_id/county_id/
// sub_county_id narrowing; parameters above the caller's tier are ignored.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	scope, err := access.BuildScope(actor)
	if err != nil {
		httpserver.Error(w, err, "failed to list equipment")
		return
	}
	scope = scope.Narrow(filterFromQuery(r))

	items, err := h.store.ListEquipment(r.Context(), scope)
	if err != nil {
		httpserver.Error(w, err, "failed to list equipment")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"equipments": items, "count": len(items)})
}

// Create handles POST /equipments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	var body equipmentBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&body); err != nil {
		httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	defer r.Body.Close()

	if body.Name == nil || *body.Name == "" {
		httpserver.Error(w, fmt.Errorf("%w: name is required", models.ErrInvalidInput), "")
		return
	}
	if body.Type == nil || !models.EquipmentType(*body.Type).Valid() {
		httpserver.Error(w, fmt.Errorf("%w: invalid equipment type", models.ErrInvalidInput), "")
		return
	}
	cond := models.ConditionGood
	if body.Condition != nil {
		cond = models.EquipmentCondition(*body.Condition)
		if !cond.Valid() {
			httpserver.Error(w, fmt.Errorf("%w: invalid equipment condition", models.ErrInvalidInput), "")
			return
		}
	}

	binding := access.Binding{RegionID: body.RegionID, CountyID: body.CountyID, SubCountyID: body.SubCountyID}
	if err := binding.Validate(); err != nil {
		httpserver.Error(w, err, "")
		return
	}
	allowed, err := h.resolver.CanAssign(r.Context(), actor, binding)
	if err != nil {
		httpserver.Error(w, err, "failed to create equipment")
		return
	}
	if !allowed {
		httpserver.Error(w, models.ErrForbidden, "")
		return
	}

	e := models.Equipment{
		Name:         *body.Name,
		Type:         models.EquipmentType(*body.Type),
		Condition:    cond,
		SerialNumber: body.SerialNumber,
		PurchaseDate: body.PurchaseDate,
		Location:     binding.Office(),
		RegionID:     body.RegionID,
		CountyID:     body.CountyID,
		SubCountyID:  body.SubCountyID,
	}
	created, err := h.store.CreateEquipment(r.Context(), e)
	if err != nil {
		httpserver.Error(w, err, "failed to create equipment")
		return
	}
	httpserver.JSON(w, http.StatusCreated, created)
}

// Get handles GET /equipments/{id}. Records outside the caller's scope
// answer 404, indistinguishable from records that do not exist.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	e, err := h.store.EquipmentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpserver.Error(w, err, "failed to load equipment")
		return
	}
	allowed, err := h.resolver.CanAccess(r.Context(), actor, access.EquipmentBinding(e))
	if err != nil {
		httpserver.Error(w, err, "failed to load equipment")
		return
	}
	if !allowed {
		httpserver.Error(w, models.ErrNotFound, "")
		return
	}
	httpserver.JSON(w, http.StatusOK, e)
}

// Update handles PATCH /equipments/{id}. The authorization check and the
// write happen inside one transaction against a locked row, so a record
// cannot be moved out from under the check.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	var body equipmentBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&body); err != nil {
		httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	defer r.Body.Close()

	ctx := r.Context()
	updated, err := h.store.UpdateEquipment(ctx, chi.URLParam(r, "id"), func(cur models.Equipment) (models.Equipment, error) {
		allowed, err := h.resolver.CanAccess(ctx, actor, access.EquipmentBinding(cur))
		if err != nil {
			return cur, err
		}
		if !allowed {
			return cur, models.ErrNotFound
		}

		if body.Name != nil {
			if *body.Name == "" {
				return cur, fmt.Errorf("%w: name cannot be empty", models.ErrInvalidInput)
			}
			cur.Name = *body.Name
		}
		if body.Type != nil {
			t := models.EquipmentType(*body.Type)
			if !t.Valid() {
				return cur, fmt.Errorf("%w: invalid equipment type", models.ErrInvalidInput)
			}
			cur.Type = t
		}
		if body.Condition != nil {
			c := models.EquipmentCondition(*body.Condition)
			if !c.Valid() {
				return cur, fmt.Errorf("%w: invalid equipment condition", models.ErrInvalidInput)
			}
			cur.Condition = c
		}
		if body.SerialNumber != nil {
			cur.SerialNumber = body.SerialNumber
		}
		if body.PurchaseDate != nil {
			cur.PurchaseDate = body.PurchaseDate
		}

		// A move replaces the whole binding.
		if body.RegionID != nil || body.CountyID != nil || body.SubCountyID != nil {
			binding := access.Binding{RegionID: body.RegionID, CountyID: body.CountyID, SubCountyID: body.SubCountyID}
			if err := binding.Validate(); err != nil {
				return cur, err
			}
			allowed, err := h.resolver.CanAssign(ctx, actor, binding)
			if err != nil {
				return cur, err
			}
			if !allowed {
				// The caller can see the record, so denial of the move
				// target is an explicit 403 rather than a 404.
				return cur, models.ErrForbidden
			}
			cur.RegionID = binding.RegionID
			cur.CountyID = binding.CountyID
			cur.SubCountyID = binding.SubCountyID
			cur.Location = binding.Office()
		}
		return cur, nil
	})
	if err != nil {
		httpserver.Error(w, err, "failed to update equipment")
		return
	}
	httpserver.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /equipments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	ctx := r.Context()
	err := h.store.DeleteEquipment(ctx, chi.URLParam(r, "id"), func(cur models.Equipment) error {
		allowed, err := h.resolver.CanAccess(ctx, actor, access.EquipmentBinding(cur))
		if err != nil {
			return err
		}
		if !allowed {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		httpserver.Error(w, err, "failed to delete equipment")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Export handles GET /equipments/export, streaming the caller's visible
// equipment as an XLSX workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	scope, err := access.BuildScope(actor)
	if err != nil {
		httpserver.Error(w, err, "failed to export equipment")
		return
	}
	scope = scope.Narrow(filterFromQuery(r))

	items, err := h.store.ListEquipment(r.Context(), scope)
	if err != nil {
		httpserver.Error(w, err, "failed to export equipment")
		return
	}

	book, err := export.EquipmentXLSX(items)
	if err != nil {
		httpserver.Error(w, err, "failed to export equipment")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="equipment.xlsx"`)
	w.Write(book)
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
