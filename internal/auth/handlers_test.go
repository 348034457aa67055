package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

func seedSeat(t *testing.T, store *repo.MemStore, role models.Role, key string, regionID, countyID, subCountyID *string) models.User {
	t.Helper()
	phc, err := HashKey(key, testParams())
	require.NoError(t, err)
	return store.AddUser(models.User{
		Role:        role,
		RegionID:    regionID,
		CountyID:    countyID,
		SubCountyID: subCountyID,
	}, KeyDigest(key), phc)
}

func TestLoginReturnsSeatIdentity(t *testing.T) {
	store := repo.NewMemStore()
	county := store.AddCounty(models.County{Name: "Alpha County", RegionID: "r1"})
	seedSeat(t, store, models.RoleCountyAdmin, "county-key", nil, &county.ID, nil)

	sessions := session.NewStore()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"access_key":"county-key"}`))
	rr := httptest.NewRecorder()
	LoginHandler(store, sessions)(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		ID       int64   `json:"id"`
		Role     string  `json:"role"`
		Name     string  `json:"name"`
		CountyID *string `json:"county_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "COUNTY_ADMIN", got.Role)
	assert.Equal(t, "Alpha County", got.Name, "seat name is the unit name")
	require.NotNil(t, got.CountyID)
	assert.Equal(t, county.ID, *got.CountyID)

	// A session cookie must be set and resolvable.
	res := rr.Result()
	var sid string
	for _, c := range res.Cookies() {
		if c.Name == "session" {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)
	sess, ok := sessions.Get(sid)
	require.True(t, ok)
	assert.Equal(t, got.ID, sess.UserID)
	assert.Equal(t, "Alpha County", sess.Name)
}

func TestLoginNationalSeatName(t *testing.T) {
	store := repo.NewMemStore()
	seedSeat(t, store, models.RoleCountryAdmin, "national-key", nil, nil, nil)

	sessions := session.NewStore()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"access_key":"national-key"}`))
	rr := httptest.NewRecorder()
	LoginHandler(store, sessions)(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Country Admin", got.Name)
}

func TestLoginRejectsBadKey(t *testing.T) {
	store := repo.NewMemStore()
	county := store.AddCounty(models.County{Name: "Alpha County", RegionID: "r1"})
	seedSeat(t, store, models.RoleCountyAdmin, "county-key", nil, &county.ID, nil)
	sessions := session.NewStore()

	for _, body := range []string{
		`{"access_key":"wrong-key"}`,
		`{"access_key":"county-keyX"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rr := httptest.NewRecorder()
		LoginHandler(store, sessions)(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, body)
	}
}

func TestLoginValidation(t *testing.T) {
	store := repo.NewMemStore()
	sessions := session.NewStore()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"access_key":""}`))
	rr := httptest.NewRecorder()
	LoginHandler(store, sessions)(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{not json`))
	rr = httptest.NewRecorder()
	LoginHandler(store, sessions)(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogoutDropsSession(t *testing.T) {
	sessions := session.NewStore()
	sid := sessions.Create(models.Session{UserID: 1, Role: models.RoleCountryAdmin})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sid})
	rr := httptest.NewRecorder()
	LogoutHandler(sessions)(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	_, ok := sessions.Get(sid)
	assert.False(t, ok)
}

func TestMeHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	MeHandler()(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	sess := &models.Session{UserID: 7, Role: models.RoleRegionAdmin, Name: "North"}
	req = req.WithContext(WithSession(context.Background(), sess))
	rr = httptest.NewRecorder()
	MeHandler()(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "North", got.Name)
}
