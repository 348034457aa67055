// internal/handlers/router.go
package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	"github.com/Wolfof420Street/Employee-Tracker/internal/handlers/admin"
	"github.com/Wolfof420Street/Employee-Tracker/internal/handlers/equipments"
	"github.com/Wolfof420Street/Employee-Tracker/internal/handlers/locations"
	"github.com/Wolfof420Street/Employee-Tracker/internal/handlers/reports"
	"github.com/Wolfof420Street/Employee-Tracker/internal/handlers/staff"
	"github.com/Wolfof420Street/Employee-Tracker/internal/middleware"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/repo"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

func RegisterRoutes(mux *chi.Mux, store repo.Store, sessions *session.Store) {
	e := equipments.New(store)
	s := staff.New(store)
	l := locations.New(store)
	rp := reports.New(store)

	mux.Route("/auth", func(sr chi.Router) {
		sr.Post("/login", auth.LoginHandler(store, sessions))
		sr.Post("/logout", auth.LogoutHandler(sessions))
		sr.With(middleware.RequireAuth(store, sessions)).Get("/me", auth.MeHandler())
	})

	mux.Route("/equipments", func(sr chi.Router) {
		sr.Use(middleware.RequireAuth(store, sessions))

		sr.Get("/", e.List)
		sr.Post("/", e.Create)
		sr.Get("/export", e.Export)
		sr.Get("/{id}", e.Get)
		sr.Patch("/{id}", e.Update)
		sr.Delete("/{id}", e.Delete)
		sr.Get("/{id}/maintenance", e.ListMaintenance)
		sr.Post("/{id}/maintenance", e.CreateMaintenance)
	})

	mux.Route("/maintenance", func(sr chi.Router) {
		sr.Use(middleware.RequireAuth(store, sessions))
		sr.Post("/{id}/resolve", e.ResolveMaintenance)
	})

	mux.Route("/staff", func(sr chi.Router) {
		sr.Use(middleware.RequireAuth(store, sessions))

		sr.Get("/", s.List)
		sr.Post("/", s.Create)
		sr.Get("/export", s.Export)
		sr.Get("/{id}", s.Get)
		sr.Patch("/{id}", s.Update)
		sr.Delete("/{id}", s.Delete)
	})

	mux.Route("/counties", func(sr chi.Router) {
		sr.Use(middleware.RequireAuth(store, sessions))
		sr.Get("/", l.ListCounties)
		sr.Get("/{id}/subcounties", l.ListSubCounties)
	})

	mux.Route("/analysis", func(sr chi.Router) {
		sr.Use(middleware.RequireAuth(store, sessions))
		sr.Get("/", rp.Overview)
		sr.With(middleware.RequireRole(
			models.RoleCountryAdmin, models.RoleNationalAdmin,
			models.RoleRegionAdmin, models.RoleCountyAdmin,
		)).Get("/distribution", rp.Distribution)
	})

	mux.Route("/admin", func(sr chi.Router) {
		sr.Use(middleware.RequireAuth(store, sessions))
		sr.Use(middleware.RequireRole(models.RoleCountryAdmin, models.RoleNationalAdmin))
		sr.Get("/sessions", admin.ListSessionsHandler(sessions))
		sr.Post("/denylist/seats/{id}", admin.DenySeatHandler())
		sr.Delete("/denylist/seats/{id}", admin.AllowSeatHandler())
		sr.Post("/denylist/keys", admin.DenyKeyHandler())
		sr.Delete("/denylist/keys", admin.AllowKeyHandler())
	})
}
