package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

func strp(s string) *string { return &s }

func TestBindingValidate(t *testing.T) {
	cases := []struct {
		name    string
		binding Binding
		ok      bool
	}{
		{"region only", Binding{RegionID: strp("r1")}, true},
		{"county only", Binding{CountyID: strp("c1")}, true},
		{"sub-county only", Binding{SubCountyID: strp("sc1")}, true},
		{"none", Binding{}, false},
		{"two levels", Binding{RegionID: strp("r1"), CountyID: strp("c1")}, false},
		{"all three", Binding{RegionID: strp("r1"), CountyID: strp("c1"), SubCountyID: strp("sc1")}, false},
		{"empty string does not count", Binding{RegionID: strp(""), CountyID: strp("c1")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.binding.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrInvalidInput)
			}
		})
	}
}

func TestBindingOffice(t *testing.T) {
	assert.Equal(t, models.RegionOffice, Binding{RegionID: strp("r1")}.Office())
	assert.Equal(t, models.CountyOffice, Binding{CountyID: strp("c1")}.Office())
	assert.Equal(t, models.SubCountyOffice, Binding{SubCountyID: strp("sc1")}.Office())
	assert.Equal(t, models.NationalOffice, Binding{}.Office())
}

func TestRecordBindings(t *testing.T) {
	e := models.Equipment{CountyID: strp("c9")}
	assert.Equal(t, Binding{CountyID: strp("c9")}, EquipmentBinding(e))

	s := models.Staff{SubCountyID: strp("sc9")}
	assert.Equal(t, Binding{SubCountyID: strp("sc9")}, StaffBinding(s))
}
