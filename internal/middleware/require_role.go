// internal/middleware/require_role.go
package middleware

import (
	"net/http"

	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// roleLevels ranks the administrative tiers; a seat passes a gate when its
// level meets the lowest allowed level.
var roleLevels = map[models.Role]int{
	models.RoleSubCountyUser: 1,
	models.RoleCountyAdmin:   2,
	models.RoleRegionAdmin:   3,
	models.RoleCountryAdmin:  4,
	models.RoleNationalAdmin: 4,
}

func RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	// Find the minimum allowed role level
	minAllowedLevel := 9999
	for _, role := range allowed {
		lvl, ok := roleLevels[role]
		if !ok {
			continue
		}
		if lvl < minAllowedLevel {
			minAllowedLevel = lvl
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, _ := auth.SessionFromContext(req.Context())
			if sess == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			userLevel, ok := roleLevels[sess.Role]
			if !ok || userLevel < minAllowedLevel {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}
