package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

func TestBuildScopePerRole(t *testing.T) {
	s, err := BuildScope(Actor{Role: models.RoleCountryAdmin})
	require.NoError(t, err)
	assert.True(t, s.All)

	s, err = BuildScope(Actor{Role: models.RoleNationalAdmin})
	require.NoError(t, err)
	assert.True(t, s.All)

	s, err = BuildScope(Actor{Role: models.RoleRegionAdmin, RegionID: strp("r1")})
	require.NoError(t, err)
	assert.False(t, s.All)
	assert.Equal(t, "r1", s.RegionID)

	s, err = BuildScope(Actor{Role: models.RoleCountyAdmin, CountyID: strp("c1")})
	require.NoError(t, err)
	assert.Equal(t, "c1", s.CountyID)

	s, err = BuildScope(Actor{Role: models.RoleSubCountyUser, SubCountyID: strp("sc1")})
	require.NoError(t, err)
	assert.Equal(t, "sc1", s.SubCountyID)
}

func TestBuildScopeMissingBinding(t *testing.T) {
	_, err := BuildScope(Actor{Role: models.RoleRegionAdmin})
	require.ErrorIs(t, err, models.ErrConfiguration)
	assert.Contains(t, err.Error(), "not associated with a region")

	_, err = BuildScope(Actor{Role: models.RoleCountyAdmin})
	require.ErrorIs(t, err, models.ErrConfiguration)
	assert.Contains(t, err.Error(), "not associated with a county")

	_, err = BuildScope(Actor{Role: models.RoleSubCountyUser})
	require.ErrorIs(t, err, models.ErrConfiguration)
	assert.Contains(t, err.Error(), "not associated with a sub-county")
}

func TestBuildScopeUnknownRole(t *testing.T) {
	_, err := BuildScope(Actor{Role: "VISITOR"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestNarrowDropsFiltersAboveTier(t *testing.T) {
	office := models.CountyOffice
	full := ListFilter{
		Office:      &office,
		RegionID:    strp("r9"),
		CountyID:    strp("c9"),
		SubCountyID: strp("sc9"),
	}

	national, _ := BuildScope(Actor{Role: models.RoleCountryAdmin})
	assert.Equal(t, full, national.Narrow(full).Filter)

	region, _ := BuildScope(Actor{Role: models.RoleRegionAdmin, RegionID: strp("r1")})
	got := region.Narrow(full).Filter
	assert.Nil(t, got.RegionID, "region filter must not steer a region scope")
	assert.Equal(t, strp("c9"), got.CountyID)
	assert.Equal(t, strp("sc9"), got.SubCountyID)

	county, _ := BuildScope(Actor{Role: models.RoleCountyAdmin, CountyID: strp("c1")})
	got = county.Narrow(full).Filter
	assert.Nil(t, got.RegionID)
	assert.Nil(t, got.CountyID)
	assert.Equal(t, strp("sc9"), got.SubCountyID)

	sub, _ := BuildScope(Actor{Role: models.RoleSubCountyUser, SubCountyID: strp("sc1")})
	got = sub.Narrow(full).Filter
	assert.Equal(t, ListFilter{}, got, "sub-county scope ignores all filters")
}
