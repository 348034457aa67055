// internal/access/binding.go
package access

import (
	"fmt"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// Binding is the location-binding triple carried by records and actors.
// A well-formed record binding has exactly one field set.
type Binding struct {
	RegionID    *string `json:"region_id,omitempty"`
	CountyID    *string `json:"county_id,omitempty"`
	SubCountyID *string `json:"sub_county_id,omitempty"`
}

func strSet(p *string) bool { return p != nil && *p != "" }

// Set counts how many binding fields are present.
func (b Binding) Set() int {
	n := 0
	if strSet(b.RegionID) {
		n++
	}
	if strSet(b.CountyID) {
		n++
	}
	if strSet(b.SubCountyID) {
		n++
	}
	return n
}

// Validate enforces the one-location invariant for record mutations.
func (b Binding) Validate() error {
	if n := b.Set(); n != 1 {
		return fmt.Errorf("%w: record must be assigned to exactly one administrative level, got %d", models.ErrInvalidInput, n)
	}
	return nil
}

// Office derives the denormalized location label from the binding.
func (b Binding) Office() models.Office {
	switch {
	case strSet(b.RegionID):
		return models.RegionOffice
	case strSet(b.CountyID):
		return models.CountyOffice
	case strSet(b.SubCountyID):
		return models.SubCountyOffice
	}
	return models.NationalOffice
}

// EquipmentBinding extracts the location binding from an equipment record.
func EquipmentBinding(e models.Equipment) Binding {
	return Binding{RegionID: e.RegionID, CountyID: e.CountyID, SubCountyID: e.SubCountyID}
}

// StaffBinding extracts the location binding from a staff record.
func StaffBinding(s models.Staff) Binding {
	return Binding{RegionID: s.RegionID, CountyID: s.CountyID, SubCountyID: s.SubCountyID}
}
