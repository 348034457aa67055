package staff

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

type staffBody struct {
	Surname        *string    `json:"surname"`
	FirstName      *string    `json:"first_name"`
	OtherNames     *string    `json:"other_names"`
	Gender         *string    `json:"gender"`
	PersonalNumber *string    `json:"personal_number"`
	JobTitle       *string    `json:"job_title"`
	JobGroup       *string    `json:"job_group"`
	CSG            *string    `json:"csg"`
	BirthDate      *time.Time `json:"birth_date"`
	DateHired      *time.Time `json:"date_hired"`
	DateOfPost     *time.Time `json:"date_of_post"`
	TermsOfService *string    `json:"terms_of_service"`
	RegionID       *string    `json:"region_id"`
	CountyID       *string    `json:"county_id"`
	SubCountyID    *string    `json:"sub_county_id"`
}

func validGender(g models.Gender) bool {
	switch g {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	}
	return false
}

func validTerms(t models.TermsOfService) bool {
	switch t {
	case models.TermsPermanent, models.TermsContract, models.TermsTemporary:
		return true
	}
	return false
}

// List handles GET /staff with the same narrowing rules as equipment.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	scope, err := access.BuildScope(actor)
	if err != nil {
		httpserver.Error(w, err, "failed to list staff")
		return
	}
	scope = scope.Narrow(filterFromQuery(r))

	items, err := h.store.ListStaff(r.Context(), scope)
	if err != nil {
		httpserver.Error(w, err, "failed to list staff")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"staff": items, "count": len(items)})
}

// Create handles POST /staff.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	var body staffBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&body); err != nil {
		httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	defer r.Body.Close()

	required := map[string]*string{
		"surname":         body.Surname,
		"first_name":      body.FirstName,
		"personal_number": body.PersonalNumber,
		"job_title":       body.JobTitle,
		"job_group":       body.JobGroup,
		"csg":             body.CSG,
	}
	for field, v := range required {
		if v == nil || *v == "" {
			httpserver.Error(w, fmt.Errorf("%w: %s is required", models.ErrInvalidInput, field), "")
			return
		}
	}
	if body.Gender == nil || !validGender(models.Gender(*body.Gender)) {
		httpserver.Error(w, fmt.Errorf("%w: invalid gender", models.ErrInvalidInput), "")
		return
	}
	if body.TermsOfService == nil || !validTerms(models.TermsOfService(*body.TermsOfService)) {
		httpserver.Error(w, fmt.Errorf("%w: invalid terms of service", models.ErrInvalidInput), "")
		return
	}
	if body.BirthDate == nil || body.DateHired == nil || body.DateOfPost == nil {
		httpserver.Error(w, fmt.Errorf("%w: birth_date, date_hired and date_of_post are required", models.ErrInvalidInput), "")
		return
	}

	binding := access.Binding{RegionID: body.RegionID, CountyID: body.CountyID, SubCountyID: body.SubCountyID}
	if err := binding.Validate(); err != nil {
		httpserver.Error(w, err, "")
		return
	}
	allowed, err := h.resolver.CanAssign(r.Context(), actor, binding)
	if err != nil {
		httpserver.Error(w, err, "failed to create staff")
		return
	}
	if !allowed {
		httpserver.Error(w, models.ErrForbidden, "")
		return
	}

	s := models.Staff{
		Surname:        *body.Surname,
		FirstName:      *body.FirstName,
		OtherNames:     body.OtherNames,
		Gender:         models.Gender(*body.Gender),
		PersonalNumber: *body.PersonalNumber,
		JobTitle:       *body.JobTitle,
		JobGroup:       *body.JobGroup,
		CSG:            *body.CSG,
		BirthDate:      *body.BirthDate,
		DateHired:      *body.DateHired,
		DateOfPost:     *body.DateOfPost,
		TermsOfService: models.TermsOfService(*body.TermsOfService),
		Location:       binding.Office(),
		RegionID:       body.RegionID,
		CountyID:       body.CountyID,
		SubCountyID:    body.SubCountyID,
	}
	created, err := h.store.CreateStaff(r.Context(), s)
	if err != nil {
		httpserver.Error(w, err, "failed to create staff")
		return
	}
	httpserver.JSON(w, http.StatusCreated, created)
}

// Get handles GET /staff/{id} with the uniform not-found read policy.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	s, err := h.store.StaffByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpserver.Error(w, err, "failed to load staff")
		return
	}
	allowed, err := h.resolver.CanAccess(r.Context(), actor, access.StaffBinding(s))
	if err != nil {
		httpserver.Error(w, err, "failed to load staff")
		return
	}
	if !allowed {
		httpserver.Error(w, models.ErrNotFound, "")
		return
	}
	httpserver.JSON(w, http.StatusOK, s)
}

// Update handles PATCH /staff/{id} under the same transactional contract as
// equipment updates.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}

	var body staffBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&body); err != nil {
		httpserver.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	defer r.Body.Close()

	ctx := r.Context()
	updated, err := h.store.UpdateStaff(ctx, chi.URLParam(r, "id"), func(cur models.Staff) (models.Staff, error) {
		allowed, err := h.resolver.CanAccess(ctx, actor, access.StaffBinding(cur))
		if err != nil {
			return cur, err
		}
		if !allowed {
			return cur, models.ErrNotFound
		}

		if body.Surname != nil {
			if *body.Surname == "" {
				return cur, fmt.Errorf("%w: surname cannot be empty", models.ErrInvalidInput)
			}
			cur.Surname = *body.Surname
		}
		if body.FirstName != nil {
			if *body.FirstName == "" {
				return cur, fmt.Errorf("%w: first_name cannot be empty", models.ErrInvalidInput)
			}
			cur.FirstName = *body.FirstName
		}
		if body.OtherNames != nil {
			cur.OtherNames = body.OtherNames
		}
		if body.Gender != nil {
			g := models.Gender(*body.Gender)
			if !validGender(g) {
				return cur, fmt.Errorf("%w: invalid gender", models.ErrInvalidInput)
			}
			cur.Gender = g
		}
		if body.PersonalNumber != nil {
			if *body.PersonalNumber == "" {
				return cur, fmt.Errorf("%w: personal_number cannot be empty", models.ErrInvalidInput)
			}
			cur.PersonalNumber = *body.PersonalNumber
		}
		if body.JobTitle != nil {
			cur.JobTitle = *body.JobTitle
		}
		if body.JobGroup != nil {
			cur.JobGroup = *body.JobGroup
		}
		if body.CSG != nil {
			cur.CSG = *body.CSG
		}
		if body.BirthDate != nil {
			cur.BirthDate = *body.BirthDate
		}
		if body.DateHired != nil {
			cur.DateHired = *body.DateHired
		}
		if body.DateOfPost != nil {
			cur.DateOfPost = *body.DateOfPost
		}
		if body.TermsOfService != nil {
			t := models.TermsOfService(*body.TermsOfService)
			if !validTerms(t) {
				return cur, fmt.Errorf("%w: invalid terms of service", models.ErrInvalidInput)
			}
			cur.TermsOfService = t
		}

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
		httpserver.Error(w, err, "failed to update staff")
		return
	}
	httpserver.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /staff/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	ctx := r.Context()
	err := h.store.DeleteStaff(ctx, chi.URLParam(r, "id"), func(cur models.Staff) error {
		allowed, err := h.resolver.CanAccess(ctx, actor, access.StaffBinding(cur))
		if err != nil {
			return err
		}
		if !allowed {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		httpserver.Error(w, err, "failed to delete staff")
		return
	}
	httpserver.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Export handles GET /staff/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpserver.Error(w, models.ErrUnauthenticated, "unauthorized")
		return
	}
	scope, err := access.BuildScope(actor)
	if err != nil {
		httpserver.Error(w, err, "failed to export staff")
		return
	}
	scope = scope.Narrow(filterFromQuery(r))

	items, err := h.store.ListStaff(r.Context(), scope)
	if err != nil {
		httpserver.Error(w, err, "failed to export staff")
		return
	}
	book, err := export.StaffXLSX(items)
	if err != nil {
		httpserver.Error(w, err, "failed to export staff")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="staff.xlsx"`)
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
