package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/middleware"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

// fixture is a two-region hierarchy with seats for every tier:
//
//	North (r) -> Alpha (c) -> Alpha East (sc)
//	          -> Beta (c)
//	South (r) -> Gamma (c) -> Gamma West (sc)
type fixture struct {
	store    *repo.MemStore
	sessions *session.Store
	mux      *chi.Mux

	north, south           models.Region
	alpha, beta, gamma     models.County
	alphaEast, gammaWest   models.SubCounty
	national, northAdmin   models.User
	alphaAdmin, eastUser   models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: repo.NewMemStore(), sessions: session.NewStore()}

	f.north = f.store.AddRegion(models.Region{Name: "North"})
	f.south = f.store.AddRegion(models.Region{Name: "South"})
	f.alpha = f.store.AddCounty(models.County{Name: "Alpha", RegionID: f.north.ID})
	f.beta = f.store.AddCounty(models.County{Name: "Beta", RegionID: f.north.ID})
	f.gamma = f.store.AddCounty(models.County{Name: "Gamma", RegionID: f.south.ID})
	f.alphaEast = f.store.AddSubCounty(models.SubCounty{Name: "Alpha East", CountyID: f.alpha.ID})
	f.gammaWest = f.store.AddSubCounty(models.SubCounty{Name: "Gamma West", CountyID: f.gamma.ID})

	f.national = f.store.AddUser(models.User{Role: models.RoleCountryAdmin}, "", "")
	f.northAdmin = f.store.AddUser(models.User{Role: models.RoleRegionAdmin, RegionID: &f.north.ID}, "", "")
	f.alphaAdmin = f.store.AddUser(models.User{Role: models.RoleCountyAdmin, CountyID: &f.alpha.ID}, "", "")
	f.eastUser = f.store.AddUser(models.User{Role: models.RoleSubCountyUser, SubCountyID: &f.alphaEast.ID}, "", "")

	f.mux = chi.NewRouter()
	RegisterRoutes(f.mux, f.store, f.sessions)
	return f
}

func (f *fixture) login(u models.User) *http.Cookie {
	sid := f.sessions.Create(models.Session{
		UserID:      u.ID,
		Role:        u.Role,
		RegionID:    u.RegionID,
		CountyID:    u.CountyID,
		SubCountyID: u.SubCountyID,
		Expiry:      time.Now().Add(time.Hour),
	})
	return &http.Cookie{Name: "session", Value: sid}
}

func (f *fixture) do(t *testing.T, u models.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.AddCookie(f.login(u))
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (f *fixture) addEquipment(t *testing.T, name string, b models.Equipment) models.Equipment {
	t.Helper()
	b.Name = name
	if b.Type == "" {
		b.Type = models.TypeLaptop
	}
	if b.Condition == "" {
		b.Condition = models.ConditionGood
	}
	switch {
	case b.RegionID != nil:
		b.Location = models.RegionOffice
	case b.CountyID != nil:
		b.Location = models.CountyOffice
	default:
		b.Location = models.SubCountyOffice
	}
	e, err := f.store.CreateEquipment(context.Background(), b)
	require.NoError(t, err)
	return e
}

func TestRoutesRequireAuth(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/equipments", "/staff", "/counties", "/analysis"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		f.mux.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestEquipmentCreateOneLocationInvariant(t *testing.T) {
	f := newFixture(t)

	body := fmt.Sprintf(`{"name":"Truck","type":"VEHICLE","county_id":%q,"region_id":%q}`, f.alpha.ID, f.north.ID)
	rr := f.do(t, f.national, http.MethodPost, "/equipments", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, f.national, http.MethodPost, "/equipments", `{"name":"Truck","type":"VEHICLE"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "no binding at all")

	body = fmt.Sprintf(`{"name":"Truck","type":"VEHICLE","county_id":%q}`, f.alpha.ID)
	rr = f.do(t, f.national, http.MethodPost, "/equipments", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[models.Equipment](t, rr)
	assert.Equal(t, models.CountyOffice, created.Location)
	assert.Equal(t, models.ConditionGood, created.Condition, "condition defaults to GOOD")
}

func TestEquipmentCreateValidation(t *testing.T) {
	f := newFixture(t)

	body := fmt.Sprintf(`{"name":"X","type":"HOVERCRAFT","county_id":%q}`, f.alpha.ID)
	rr := f.do(t, f.national, http.MethodPost, "/equipments", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body = fmt.Sprintf(`{"type":"VEHICLE","county_id":%q}`, f.alpha.ID)
	rr = f.do(t, f.national, http.MethodPost, "/equipments", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "name required")

	body = fmt.Sprintf(`{"name":"X","type":"VEHICLE","condition":"BROKEN","county_id":%q}`, f.alpha.ID)
	rr = f.do(t, f.national, http.MethodPost, "/equipments", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEquipmentCreateOutsideScopeForbidden(t *testing.T) {
	f := newFixture(t)

	body := fmt.Sprintf(`{"name":"Printer","type":"PRINTER","county_id":%q}`, f.gamma.ID)
	rr := f.do(t, f.northAdmin, http.MethodPost, "/equipments", body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	body = fmt.Sprintf(`{"name":"Printer","type":"PRINTER","sub_county_id":%q}`, f.gammaWest.ID)
	rr = f.do(t, f.eastUser, http.MethodPost, "/equipments", body)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestEquipmentListScoping(t *testing.T) {
	f := newFixture(t)
	f.addEquipment(t, "north-region", models.Equipment{RegionID: &f.north.ID})
	f.addEquipment(t, "alpha-county", models.Equipment{CountyID: &f.alpha.ID})
	f.addEquipment(t, "alpha-east", models.Equipment{SubCountyID: &f.alphaEast.ID})
	f.addEquipment(t, "gamma-county", models.Equipment{CountyID: &f.gamma.ID})

	type listResp struct {
		Count      int                `json:"count"`
		Equipments []models.Equipment `json:"equipments"`
	}

	rr := f.do(t, f.national, http.MethodGet, "/equipments", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 4, decode[listResp](t, rr).Count)

	rr = f.do(t, f.northAdmin, http.MethodGet, "/equipments", "")
	assert.Equal(t, 3, decode[listResp](t, rr).Count, "region sees region, county, and sub-county records")

	rr = f.do(t, f.alphaAdmin, http.MethodGet, "/equipments", "")
	assert.Equal(t, 2, decode[listResp](t, rr).Count, "county sees county and its sub-counties")

	rr = f.do(t, f.eastUser, http.MethodGet, "/equipments", "")
	got := decode[listResp](t, rr)
	require.Equal(t, 1, got.Count)
	assert.Equal(t, "alpha-east", got.Equipments[0].Name)
}

func TestEquipmentListNarrowing(t *testing.T) {
	f := newFixture(t)
	f.addEquipment(t, "alpha-county", models.Equipment{CountyID: &f.alpha.ID})
	f.addEquipment(t, "beta-county", models.Equipment{CountyID: &f.beta.ID})
	f.addEquipment(t, "gamma-county", models.Equipment{CountyID: &f.gamma.ID})

	type listResp struct {
		Count int `json:"count"`
	}

	rr := f.do(t, f.northAdmin, http.MethodGet, "/equipments?county_id="+f.beta.ID, "")
	assert.Equal(t, 1, decode[listResp](t, rr).Count)

	// A sub-county user cannot widen its scope with query parameters.
	rr = f.do(t, f.eastUser, http.MethodGet, "/equipments?county_id="+f.alpha.ID, "")
	assert.Equal(t, 0, decode[listResp](t, rr).Count)
}

func TestEquipmentGetDeniesAsNotFound(t *testing.T) {
	f := newFixture(t)
	mine := f.addEquipment(t, "mine", models.Equipment{SubCountyID: &f.alphaEast.ID})
	other := f.addEquipment(t, "other", models.Equipment{SubCountyID: &f.gammaWest.ID})

	rr := f.do(t, f.eastUser, http.MethodGet, "/equipments/"+mine.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, f.eastUser, http.MethodGet, "/equipments/"+other.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "out-of-scope reads look like missing records")

	rr = f.do(t, f.eastUser, http.MethodGet, "/equipments/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEquipmentUpdate(t *testing.T) {
	f := newFixture(t)
	e := f.addEquipment(t, "laptop", models.Equipment{CountyID: &f.alpha.ID})

	rr := f.do(t, f.alphaAdmin, http.MethodPatch, "/equipments/"+e.ID, `{"condition":"NEEDS_REPAIR"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got := decode[models.Equipment](t, rr)
	assert.Equal(t, models.ConditionNeedsRepair, got.Condition)
	assert.Equal(t, "laptop", got.Name)

	// Moving into a sub-county of the same county is allowed and rewrites
	// the binding plus the derived location.
	body := fmt.Sprintf(`{"sub_county_id":%q}`, f.alphaEast.ID)
	rr = f.do(t, f.alphaAdmin, http.MethodPatch, "/equipments/"+e.ID, body)
	require.Equal(t, http.StatusOK, rr.Code)
	got = decode[models.Equipment](t, rr)
	assert.Nil(t, got.CountyID)
	require.NotNil(t, got.SubCountyID)
	assert.Equal(t, f.alphaEast.ID, *got.SubCountyID)
	assert.Equal(t, models.SubCountyOffice, got.Location)
}

func TestEquipmentMoveTargetDenied(t *testing.T) {
	f := newFixture(t)
	e := f.addEquipment(t, "laptop", models.Equipment{CountyID: &f.alpha.ID})

	// The record is visible to the county admin, so a denied move target
	// is an explicit 403, not a 404.
	body := fmt.Sprintf(`{"county_id":%q}`, f.gamma.ID)
	rr := f.do(t, f.alphaAdmin, http.MethodPatch, "/equipments/"+e.ID, body)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Unchanged.
	cur, err := f.store.EquipmentByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alpha.ID, *cur.CountyID)
}

func TestEquipmentUpdateOutOfScope(t *testing.T) {
	f := newFixture(t)
	e := f.addEquipment(t, "laptop", models.Equipment{CountyID: &f.gamma.ID})

	rr := f.do(t, f.alphaAdmin, http.MethodPatch, "/equipments/"+e.ID, `{"name":"stolen"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEquipmentDelete(t *testing.T) {
	f := newFixture(t)
	mine := f.addEquipment(t, "mine", models.Equipment{CountyID: &f.alpha.ID})
	other := f.addEquipment(t, "other", models.Equipment{CountyID: &f.gamma.ID})

	rr := f.do(t, f.alphaAdmin, http.MethodDelete, "/equipments/"+other.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, f.alphaAdmin, http.MethodDelete, "/equipments/"+mine.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	_, err := f.store.EquipmentByID(context.Background(), mine.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMaintenanceFlow(t *testing.T) {
	f := newFixture(t)
	e := f.addEquipment(t, "generator", models.Equipment{CountyID: &f.alpha.ID})

	rr := f.do(t, f.alphaAdmin, http.MethodPost, "/equipments/"+e.ID+"/maintenance",
		`{"description":"fuel pump replacement","repair_cost":120.5}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rec := decode[models.Maintenance](t, rr)
	assert.False(t, rec.Resolved)
	require.NotNil(t, rec.RepairCost)
	assert.Equal(t, 120.5, *rec.RepairCost)

	type listResp struct {
		Count int `json:"count"`
	}
	rr = f.do(t, f.alphaAdmin, http.MethodGet, "/equipments/"+e.ID+"/maintenance", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decode[listResp](t, rr).Count)

	rr = f.do(t, f.alphaAdmin, http.MethodPost, "/maintenance/"+rec.ID+"/resolve", `{}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resolved := decode[models.Maintenance](t, rr)
	assert.True(t, resolved.Resolved)
	require.NotNil(t, resolved.ResolvedDate)

	// Resolving twice is rejected.
	rr = f.do(t, f.alphaAdmin, http.MethodPost, "/maintenance/"+rec.ID+"/resolve", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMaintenanceOutOfScope(t *testing.T) {
	f := newFixture(t)
	e := f.addEquipment(t, "generator", models.Equipment{CountyID: &f.gamma.ID})

	rr := f.do(t, f.alphaAdmin, http.MethodPost, "/equipments/"+e.ID+"/maintenance",
		`{"description":"sneaky"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rec, err := f.store.CreateMaintenance(context.Background(), models.Maintenance{
		EquipmentID: e.ID, MaintenanceDate: time.Now(), Description: "real",
	})
	require.NoError(t, err)
	rr = f.do(t, f.alphaAdmin, http.MethodPost, "/maintenance/"+rec.ID+"/resolve", `{}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaffLifecycle(t *testing.T) {
	f := newFixture(t)

	body := fmt.Sprintf(`{
		"surname":"Otieno","first_name":"Grace","gender":"FEMALE",
		"personal_number":"PN-001","job_title":"Clerk","job_group":"F","csg":"CSG-9",
		"birth_date":"1990-04-01T00:00:00Z","date_hired":"2015-01-10T00:00:00Z",
		"date_of_post":"2020-06-01T00:00:00Z","terms_of_service":"PERMANENT",
		"sub_county_id":%q}`, f.alphaEast.ID)
	rr := f.do(t, f.alphaAdmin, http.MethodPost, "/staff", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[models.Staff](t, rr)
	assert.Equal(t, models.SubCountyOffice, created.Location)

	rr = f.do(t, f.eastUser, http.MethodGet, "/staff/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code, "sub-county user sees own staff")

	rr = f.do(t, f.eastUser, http.MethodPatch, "/staff/"+created.ID, `{"job_group":"G"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "G", decode[models.Staff](t, rr).JobGroup)

	// Sub-county user cannot move staff out of its unit.
	moveBody := fmt.Sprintf(`{"county_id":%q}`, f.alpha.ID)
	rr = f.do(t, f.eastUser, http.MethodPatch, "/staff/"+created.ID, moveBody)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(t, f.alphaAdmin, http.MethodDelete, "/staff/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStaffCreateValidation(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, f.national, http.MethodPost, "/staff",
		fmt.Sprintf(`{"surname":"X","first_name":"Y","gender":"UNKNOWN","personal_number":"1",
		"job_title":"t","job_group":"g","csg":"c","terms_of_service":"PERMANENT","county_id":%q}`, f.alpha.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code, "bad gender")

	rr = f.do(t, f.national, http.MethodPost, "/staff",
		fmt.Sprintf(`{"first_name":"Y","gender":"MALE","personal_number":"1",
		"job_title":"t","job_group":"g","csg":"c","terms_of_service":"PERMANENT","county_id":%q}`, f.alpha.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code, "missing surname")
}

func TestCountiesListing(t *testing.T) {
	f := newFixture(t)
	f.addEquipment(t, "alpha-kit", models.Equipment{CountyID: &f.alpha.ID})

	type resp struct {
		Counties []models.County `json:"counties"`
		Meta     models.PageMeta `json:"meta"`
	}

	rr := f.do(t, f.national, http.MethodGet, "/counties", "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[resp](t, rr)
	assert.Equal(t, 3, got.Meta.Total)

	// Region admins are pinned to their own region regardless of filters.
	rr = f.do(t, f.northAdmin, http.MethodGet, "/counties?region_id="+f.south.ID, "")
	got = decode[resp](t, rr)
	require.Equal(t, 2, got.Meta.Total)
	for _, c := range got.Counties {
		assert.Equal(t, f.north.ID, c.RegionID)
	}

	rr = f.do(t, f.national, http.MethodGet, "/counties?without_equipment=true", "")
	got = decode[resp](t, rr)
	assert.Equal(t, 2, got.Meta.Total, "alpha has equipment and is excluded")

	rr = f.do(t, f.national, http.MethodGet, "/counties?search=alp", "")
	got = decode[resp](t, rr)
	require.Equal(t, 1, got.Meta.Total)
	assert.Equal(t, "Alpha", got.Counties[0].Name)
}

func TestSubCountiesListing(t *testing.T) {
	f := newFixture(t)

	type resp struct {
		SubCounties []models.SubCounty `json:"sub_counties"`
		Meta        models.PageMeta    `json:"meta"`
	}

	rr := f.do(t, f.national, http.MethodGet, "/counties/"+f.alpha.ID+"/subcounties", "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[resp](t, rr)
	require.Equal(t, 1, got.Meta.Total)
	assert.Equal(t, "Alpha East", got.SubCounties[0].Name)

	rr = f.do(t, f.national, http.MethodGet, "/counties/missing/subcounties", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAnalysisOverview(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEquipment(t, "good-1", models.Equipment{CountyID: &f.alpha.ID, PurchaseDate: &now})
	f.addEquipment(t, "broken", models.Equipment{CountyID: &f.alpha.ID, Condition: models.ConditionOutOfService})
	f.addEquipment(t, "southern", models.Equipment{CountyID: &f.gamma.ID})

	type overview struct {
		Overview struct {
			TotalEquipment  int `json:"total_equipment"`
			ActiveEquipment int `json:"active_equipment"`
		} `json:"overview"`
		Counties []struct {
			Name string `json:"name"`
		} `json:"counties"`
	}

	rr := f.do(t, f.national, http.MethodGet, "/analysis", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got := decode[overview](t, rr)
	assert.Equal(t, 3, got.Overview.TotalEquipment)
	assert.Equal(t, 2, got.Overview.ActiveEquipment)
	assert.Empty(t, got.Counties)

	rr = f.do(t, f.northAdmin, http.MethodGet, "/analysis", "")
	require.Equal(t, http.StatusOK, rr.Code)
	got = decode[overview](t, rr)
	assert.Equal(t, 2, got.Overview.TotalEquipment, "south is out of scope")
	assert.Len(t, got.Counties, 2, "region payload breaks down its counties")

	rr = f.do(t, f.national, http.MethodGet, "/analysis?time_range=99d", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDistributionAccess(t *testing.T) {
	f := newFixture(t)
	f.addEquipment(t, "east-laptop", models.Equipment{SubCountyID: &f.alphaEast.ID})
	f.addEquipment(t, "west-truck", models.Equipment{Type: models.TypeVehicle, SubCountyID: &f.gammaWest.ID})

	rr := f.do(t, f.eastUser, http.MethodGet, "/analysis/distribution", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	type dist struct {
		Analysis []struct {
			SubCountyName string   `json:"sub_county_name"`
			MissingTypes  []string `json:"missing_equipment_types"`
		} `json:"analysis"`
	}

	// County admin is pinned to its own county.
	rr = f.do(t, f.alphaAdmin, http.MethodGet, "/analysis/distribution?county_id="+f.gamma.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[dist](t, rr)
	require.Len(t, got.Analysis, 1)
	assert.Equal(t, "Alpha East", got.Analysis[0].SubCountyName)
	assert.Equal(t, []string{"VEHICLE"}, got.Analysis[0].MissingTypes)

	// Region admin must name a county inside its region.
	rr = f.do(t, f.northAdmin, http.MethodGet, "/analysis/distribution", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = f.do(t, f.northAdmin, http.MethodGet, "/analysis/distribution?county_id="+f.gamma.ID, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = f.do(t, f.northAdmin, http.MethodGet, "/analysis/distribution?county_id="+f.alpha.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, f.national, http.MethodGet, "/analysis/distribution", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[dist](t, rr).Analysis, 2)
}

func TestEquipmentExport(t *testing.T) {
	f := newFixture(t)
	f.addEquipment(t, "export-me", models.Equipment{CountyID: &f.alpha.ID})

	rr := f.do(t, f.alphaAdmin, http.MethodGet, "/equipments/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "equipment.xlsx")
	// XLSX files are zip archives.
	require.Greater(t, rr.Body.Len(), 4)
	assert.Equal(t, "PK", rr.Body.String()[:2])
}

func TestAdminSessionsRequiresNationalRole(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, f.alphaAdmin, http.MethodGet, "/admin/sessions", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(t, f.national, http.MethodGet, "/admin/sessions", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSeatDenylist(t *testing.T) {
	f := newFixture(t)
	// The server applies the denylist middleware ahead of the routes.
	outer := chi.NewRouter()
	outer.Use(middleware.Denylist(f.sessions))
	outer.Mount("/", f.mux)

	cookie := f.login(f.alphaAdmin)
	get := func() int {
		req := httptest.NewRequest(http.MethodGet, "/equipments", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		outer.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, get())

	rr := f.do(t, f.national, http.MethodPost, fmt.Sprintf("/admin/denylist/seats/%d", f.alphaAdmin.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusForbidden, get(), "existing session is blocked immediately")

	rr = f.do(t, f.national, http.MethodDelete, fmt.Sprintf("/admin/denylist/seats/%d", f.alphaAdmin.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, http.StatusOK, get())
}

func TestStaleSessionRejected(t *testing.T) {
	f := newFixture(t)

	// Session for a seat that no longer exists.
	sid := f.sessions.Create(models.Session{UserID: 9999, Role: models.RoleCountryAdmin, Expiry: time.Now().Add(time.Hour)})
	req := httptest.NewRequest(http.MethodGet, "/equipments", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sid})
	rr := httptest.NewRecorder()
	f.mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
