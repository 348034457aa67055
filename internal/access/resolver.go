// internal/access/resolver.go
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// Actor is the authenticated identity a request acts as. Token/session
// validation happens upstream; the resolver trusts the shape it is handed.
type Actor struct {
	ID          int64
	Role        models.Role
	RegionID    *string
	CountyID    *string
	SubCountyID *string
}

// ActorFromSession adapts a session into the identity the resolver consumes.
func ActorFromSession(s models.Session) Actor {
	return Actor{
		ID:          s.UserID,
		Role:        s.Role,
		RegionID:    s.RegionID,
		CountyID:    s.CountyID,
		SubCountyID: s.SubCountyID,
	}
}

// Hierarchy provides the point lookups needed to resolve ancestry
// (county → region, sub-county → county → region). Implementations return
// models.ErrNotFound for absent ids.
type Hierarchy interface {
	County(ctx context.Context, id string) (models.County, error)
	SubCounty(ctx context.Context, id string) (models.SubCounty, error)
}

// Resolver decides whether an actor may touch a record bound to a given
// location. Deny is an ordinary return value, never an error; lookups that
// miss deny rather than fail. The only error conditions are a broken actor
// (role implies a binding that is nil) and store failures.
type Resolver struct {
	hier Hierarchy
}

func NewResolver(h Hierarchy) *Resolver { return &Resolver{hier: h} }

// CanAccess reports whether the actor may read/write a record currently
// bound to target.
func (r *Resolver) CanAccess(ctx context.Context, actor Actor, target Binding) (bool, error) {
	return r.allowed(ctx, actor, target)
}

// CanAssign reports whether the actor may bind a record to the proposed
// location. Callers must Validate() the binding first; CanAssign evaluates
// the same membership rules as CanAccess against the new location.
func (r *Resolver) CanAssign(ctx context.Context, actor Actor, proposed Binding) (bool, error) {
	return r.allowed(ctx, actor, proposed)
}

func (r *Resolver) allowed(ctx context.Context, actor Actor, b Binding) (bool, error) {
	switch actor.Role {
	case models.RoleCountryAdmin, models.RoleNationalAdmin:
		return true, nil

	case models.RoleRegionAdmin:
		if !strSet(actor.RegionID) {
			return false, fmt.Errorf("%w: REGION_ADMIN without region", models.ErrConfiguration)
		}
		region := *actor.RegionID
		if strSet(b.RegionID) && *b.RegionID == region {
			return true, nil
		}
		if strSet(b.CountyID) {
			ok, err := r.countyInRegion(ctx, *b.CountyID, region)
			if ok || err != nil {
				return ok, err
			}
		}
		if strSet(b.SubCountyID) {
			return r.subCountyInRegion(ctx, *b.SubCountyID, region)
		}
		return false, nil

	case models.RoleCountyAdmin:
		if !strSet(actor.CountyID) {
			return false, fmt.Errorf("%w: COUNTY_ADMIN without county", models.ErrConfiguration)
		}
		county := *actor.CountyID
		if strSet(b.CountyID) && *b.CountyID == county {
			return true, nil
		}
		if strSet(b.SubCountyID) {
			return r.subCountyInCounty(ctx, *b.SubCountyID, county)
		}
		return false, nil

	case models.RoleSubCountyUser:
		if !strSet(actor.SubCountyID) {
			return false, fmt.Errorf("%w: SUB_COUNTY_USER without sub-county", models.ErrConfiguration)
		}
		return strSet(b.SubCountyID) && *b.SubCountyID == *actor.SubCountyID, nil
	}

	// Unknown role never gets through.
	return false, nil
}

func (r *Resolver) countyInRegion(ctx context.Context, countyID, regionID string) (bool, error) {
	c, err := r.hier.County(ctx, countyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return c.RegionID == regionID, nil
}

func (r *Resolver) subCountyInRegion(ctx context.Context, subCountyID, regionID string) (bool, error) {
	sc, err := r.hier.SubCounty(ctx, subCountyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return r.countyInRegion(ctx, sc.CountyID, regionID)
}

func (r *Resolver) subCountyInCounty(ctx context.Context, subCountyID, countyID string) (bool, error) {
	sc, err := r.hier.SubCounty(ctx, subCountyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return sc.CountyID == countyID, nil
}
