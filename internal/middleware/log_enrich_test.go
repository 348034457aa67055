package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

// The enrichment middleware sits on the outer chain, before the
// route-level RequireAuth, so it has to resolve the cookie on its own.
// This wires the two together in main.go's order and checks the seat
// identity is visible inside the handler.
func TestEnrichLoggerResolvesCookieBeforeAuth(t *testing.T) {
	store := repo.NewMemStore()
	county := store.AddCounty(models.County{Name: "Alpha", RegionID: "r1"})
	seat := store.AddUser(models.User{Role: models.RoleCountyAdmin, CountyID: &county.ID}, "", "")

	sessions := session.NewStore()
	sid := sessions.Create(models.Session{
		UserID:   seat.ID,
		Role:     seat.Role,
		Name:     county.Name,
		CountyID: &county.ID,
		Expiry:   time.Now().Add(time.Hour),
	})

	var gotUserID, gotRole, gotSeat string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetLogUserID(r.Context())
		gotRole, _ = GetLogRole(r.Context())
		gotSeat, _ = GetLogSeat(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	chain := EnrichLogger(sessions)(RequireAuth(store, sessions)(inner))

	req := httptest.NewRequest(http.MethodGet, "/equipments", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: sid})
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", gotUserID)
	assert.Equal(t, string(models.RoleCountyAdmin), gotRole)
	assert.Equal(t, "Alpha", gotSeat)
}

func TestEnrichLoggerAnonymousRequest(t *testing.T) {
	sessions := session.NewStore()

	var ok bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetLogUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	chain := EnrichLogger(sessions)(inner)

	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ok, "no seat identity without a session")
}
