package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// fakeHierarchy is two regions, each with one county, the first county
// having one sub-county.
type fakeHierarchy struct {
	counties    map[string]models.County
	subCounties map[string]models.SubCounty
}

func (f fakeHierarchy) County(_ context.Context, id string) (models.County, error) {
	c, ok := f.counties[id]
	if !ok {
		return models.County{}, models.ErrNotFound
	}
	return c, nil
}

func (f fakeHierarchy) SubCounty(_ context.Context, id string) (models.SubCounty, error) {
	sc, ok := f.subCounties[id]
	if !ok {
		return models.SubCounty{}, models.ErrNotFound
	}
	return sc, nil
}

func testResolver() *Resolver {
	return NewResolver(fakeHierarchy{
		counties: map[string]models.County{
			"c1": {ID: "c1", RegionID: "r1"},
			"c2": {ID: "c2", RegionID: "r2"},
		},
		subCounties: map[string]models.SubCounty{
			"sc1": {ID: "sc1", CountyID: "c1"},
			"sc2": {ID: "sc2", CountyID: "c2"},
		},
	})
}

func TestCountryAdminAccessesEverything(t *testing.T) {
	r := testResolver()
	actor := Actor{Role: models.RoleCountryAdmin}

	for _, b := range []Binding{
		{RegionID: strp("r1")},
		{CountyID: strp("c2")},
		{SubCountyID: strp("sc1")},
		{SubCountyID: strp("missing")},
	} {
		ok, err := r.CanAccess(context.Background(), actor, b)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRegionAdminScope(t *testing.T) {
	r := testResolver()
	actor := Actor{Role: models.RoleRegionAdmin, RegionID: strp("r1")}
	ctx := context.Background()

	cases := []struct {
		name    string
		binding Binding
		want    bool
	}{
		{"own region", Binding{RegionID: strp("r1")}, true},
		{"other region", Binding{RegionID: strp("r2")}, false},
		{"county in region", Binding{CountyID: strp("c1")}, true},
		{"county outside region", Binding{CountyID: strp("c2")}, false},
		{"sub-county in region", Binding{SubCountyID: strp("sc1")}, true},
		{"sub-county outside region", Binding{SubCountyID: strp("sc2")}, false},
		{"unknown county denies", Binding{CountyID: strp("nope")}, false},
		{"unknown sub-county denies", Binding{SubCountyID: strp("nope")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := r.CanAccess(ctx, actor, tc.binding)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestCountyAdminScope(t *testing.T) {
	r := testResolver()
	actor := Actor{Role: models.RoleCountyAdmin, CountyID: strp("c1")}
	ctx := context.Background()

	cases := []struct {
		name    string
		binding Binding
		want    bool
	}{
		{"own county", Binding{CountyID: strp("c1")}, true},
		{"other county", Binding{CountyID: strp("c2")}, false},
		{"sub-county in county", Binding{SubCountyID: strp("sc1")}, true},
		{"sub-county outside county", Binding{SubCountyID: strp("sc2")}, false},
		{"region record is above tier", Binding{RegionID: strp("r1")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := r.CanAccess(ctx, actor, tc.binding)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestSubCountyUserScope(t *testing.T) {
	r := testResolver()
	actor := Actor{Role: models.RoleSubCountyUser, SubCountyID: strp("sc1")}
	ctx := context.Background()

	ok, err := r.CanAccess(ctx, actor, Binding{SubCountyID: strp("sc1")})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.CanAccess(ctx, actor, Binding{SubCountyID: strp("sc2")})
	require.NoError(t, err)
	assert.False(t, ok)

	// Anything above its own sub-county is out of reach.
	ok, err = r.CanAccess(ctx, actor, Binding{CountyID: strp("c1")})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMissingBindingIsConfigurationError(t *testing.T) {
	r := testResolver()
	ctx := context.Background()

	for _, actor := range []Actor{
		{Role: models.RoleRegionAdmin},
		{Role: models.RoleCountyAdmin},
		{Role: models.RoleSubCountyUser},
	} {
		_, err := r.CanAccess(ctx, actor, Binding{SubCountyID: strp("sc1")})
		assert.ErrorIs(t, err, models.ErrConfiguration)
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	r := testResolver()
	ok, err := r.CanAccess(context.Background(), Actor{Role: "VISITOR"}, Binding{SubCountyID: strp("sc1")})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAssignUsesSameRules(t *testing.T) {
	r := testResolver()
	actor := Actor{Role: models.RoleCountyAdmin, CountyID: strp("c1")}

	ok, err := r.CanAssign(context.Background(), actor, Binding{SubCountyID: strp("sc1")})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.CanAssign(context.Background(), actor, Binding{CountyID: strp("c2")})
	require.NoError(t, err)
	assert.False(t, ok)
}
