// internal/access/scope.go
package access

import (
	"fmt"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// ListFilter carries the explicit narrowing parameters a caller may supply
// on listing and analysis endpoints. Filters are ANDed into the scope;
// which fields a role may use follows the original listing behavior and is
// applied by Scope.Narrow.
type ListFilter struct {
	Office      *models.Office
	RegionID    *string
	CountyID    *string
	SubCountyID *string
}

// Scope is the query predicate that limits listings and aggregations to
// what the actor may see. When All is false, exactly one of the three ids
// is set and records match when they belong to that unit directly or
// transitively through the hierarchy.
type Scope struct {
	Role models.Role

	All         bool
	RegionID    string
	CountyID    string
	SubCountyID string

	Filter ListFilter
}

// BuildScope derives the visibility predicate for an actor. A role whose
// required binding is unset is a configuration fault, not a deny.
func BuildScope(actor Actor) (Scope, error) {
	switch actor.Role {
	case models.RoleCountryAdmin, models.RoleNationalAdmin:
		return Scope{Role: actor.Role, All: true}, nil
	case models.RoleRegionAdmin:
		if !strSet(actor.RegionID) {
			return Scope{}, fmt.Errorf("%w: user not associated with a region", models.ErrConfiguration)
		}
		return Scope{Role: actor.Role, RegionID: *actor.RegionID}, nil
	case models.RoleCountyAdmin:
		if !strSet(actor.CountyID) {
			return Scope{}, fmt.Errorf("%w: user not associated with a county", models.ErrConfiguration)
		}
		return Scope{Role: actor.Role, CountyID: *actor.CountyID}, nil
	case models.RoleSubCountyUser:
		if !strSet(actor.SubCountyID) {
			return Scope{}, fmt.Errorf("%w: user not associated with a sub-county", models.ErrConfiguration)
		}
		return Scope{Role: actor.Role, SubCountyID: *actor.SubCountyID}, nil
	}
	return Scope{}, fmt.Errorf("%w: invalid user role %q", models.ErrInvalidInput, actor.Role)
}

// Narrow ANDs caller-supplied filters into the scope. Each role only
// honors the parameters below its own tier; the rest are ignored so a
// caller cannot steer the predicate sideways.
func (s Scope) Narrow(f ListFilter) Scope {
	switch s.Role {
	case models.RoleCountryAdmin, models.RoleNationalAdmin:
		s.Filter = f
	case models.RoleRegionAdmin:
		s.Filter = ListFilter{Office: f.Office, CountyID: f.CountyID, SubCountyID: f.SubCountyID}
	case models.RoleCountyAdmin:
		s.Filter = ListFilter{Office: f.Office, SubCountyID: f.SubCountyID}
	case models.RoleSubCountyUser:
		// Sub-county scope is already a single unit.
	}
	return s
}
