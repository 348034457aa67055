package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

type fakeDistStore struct {
	inventories []SubCountyInventory
	types       []models.EquipmentType
}

func (f *fakeDistStore) SubCountyInventories(_ context.Context, countyID *string) ([]SubCountyInventory, error) {
	return f.inventories, nil
}

func (f *fakeDistStore) DistinctEquipmentTypes(context.Context) ([]models.EquipmentType, error) {
	return f.types, nil
}

func TestDistributionGaps(t *testing.T) {
	ds := &fakeDistStore{
		types: []models.EquipmentType{models.TypeLaptop, models.TypePrinter, models.TypeVehicle},
		inventories: []SubCountyInventory{
			{SubCountyName: "Full", CountyName: "Alpha", Types: []models.EquipmentType{
				models.TypeLaptop, models.TypePrinter, models.TypeVehicle, models.TypeLaptop,
			}},
			{SubCountyName: "NoVehicle", CountyName: "Alpha", Types: []models.EquipmentType{
				models.TypeLaptop, models.TypePrinter,
			}},
			{SubCountyName: "Empty", CountyName: "Beta", Types: nil},
		},
	}
	e := NewEngine(nil)

	out, err := e.Distribution(context.Background(), ds, nil)
	require.NoError(t, err)

	require.Len(t, out.Analysis, 3)

	full := out.Analysis[0]
	assert.True(t, full.HasAllEquipment)
	assert.Empty(t, full.MissingTypes)
	assert.Equal(t, 4, full.TotalEquipment, "duplicates count as items")

	noVehicle := out.Analysis[1]
	assert.False(t, noVehicle.HasAllEquipment)
	assert.Equal(t, []models.EquipmentType{models.TypeVehicle}, noVehicle.MissingTypes)

	empty := out.Analysis[2]
	assert.Len(t, empty.MissingTypes, 3)
	assert.Zero(t, empty.TotalEquipment)

	sum := out.Summary
	assert.Equal(t, 3, sum.TotalSubCounties)
	assert.Equal(t, 1, sum.WithAllEquipment)
	assert.Equal(t, 2, sum.WithMissing)

	// VEHICLE missing twice ranks first; LAPTOP/PRINTER tie broken by name.
	require.Len(t, sum.MostCommonMissing, 3)
	assert.Equal(t, models.TypeVehicle, sum.MostCommonMissing[0].Type)
	assert.Equal(t, 2, sum.MostCommonMissing[0].Count)
	assert.InDelta(t, 66.666, sum.MostCommonMissing[0].Percentage, 0.01)
	assert.Equal(t, models.TypeLaptop, sum.MostCommonMissing[1].Type)
	assert.Equal(t, models.TypePrinter, sum.MostCommonMissing[2].Type)
}

func TestDistributionNoSubCounties(t *testing.T) {
	e := NewEngine(nil)
	out, err := e.Distribution(context.Background(), &fakeDistStore{}, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Analysis)
	assert.Zero(t, out.Summary.TotalSubCounties)
	assert.Empty(t, out.Summary.MostCommonMissing)
}
