// internal/analysis/distribution.go
package analysis

import (
	"context"
	"sort"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// SubCountyInventory is a sub-county plus the type of every equipment item
// it holds (one entry per item, duplicates included).
type SubCountyInventory struct {
	SubCountyID   string
	SubCountyName string
	CountyName    string
	Types         []models.EquipmentType
}

// DistributionStore is the extra read surface the gap analysis needs.
type DistributionStore interface {
	SubCountyInventories(ctx context.Context, countyID *string) ([]SubCountyInventory, error)
	DistinctEquipmentTypes(ctx context.Context) ([]models.EquipmentType, error)
}

type SubCountyGap struct {
	CountyName      string                 `json:"county_name"`
	SubCountyName   string                 `json:"sub_county_name"`
	MissingTypes    []models.EquipmentType `json:"missing_equipment_types"`
	TotalEquipment  int                    `json:"total_equipment"`
	HasAllEquipment bool                   `json:"has_all_equipment"`
}

type MissingTypeStat struct {
	Type       models.EquipmentType `json:"type"`
	Count      int                  `json:"count"`
	Percentage float64              `json:"percentage"`
}

type DistributionSummary struct {
	TotalSubCounties   int               `json:"total_sub_counties"`
	WithAllEquipment   int               `json:"sub_counties_with_all_equipment"`
	WithMissing        int               `json:"sub_counties_with_missing_equipment"`
	MostCommonMissing  []MissingTypeStat `json:"most_common_missing_equipment"`
}

type Distribution struct {
	Analysis []SubCountyGap      `json:"analysis"`
	Summary  DistributionSummary `json:"summary"`
}

// Distribution reports which equipment types each sub-county is missing,
// measured against every type present anywhere in the system. countyID
// narrows the report to one county's sub-counties.
func (e *Engine) Distribution(ctx context.Context, ds DistributionStore, countyID *string) (Distribution, error) {
	inventories, err := ds.SubCountyInventories(ctx, countyID)
	if err != nil {
		return Distribution{}, err
	}
	allTypes, err := ds.DistinctEquipmentTypes(ctx)
	if err != nil {
		return Distribution{}, err
	}

	gaps := make([]SubCountyGap, 0, len(inventories))
	for _, inv := range inventories {
		have := make(map[models.EquipmentType]bool, len(inv.Types))
		for _, t := range inv.Types {
			have[t] = true
		}
		missing := make([]models.EquipmentType, 0)
		for _, t := range allTypes {
			if !have[t] {
				missing = append(missing, t)
			}
		}
		gaps = append(gaps, SubCountyGap{
			CountyName:      inv.CountyName,
			SubCountyName:   inv.SubCountyName,
			MissingTypes:    missing,
			TotalEquipment:  len(inv.Types),
			HasAllEquipment: len(missing) == 0,
		})
	}

	summary := DistributionSummary{TotalSubCounties: len(gaps)}
	missingCount := make(map[models.EquipmentType]int)
	for _, g := range gaps {
		if g.HasAllEquipment {
			summary.WithAllEquipment++
		} else {
			summary.WithMissing++
		}
		for _, t := range g.MissingTypes {
			missingCount[t]++
		}
	}
	summary.MostCommonMissing = rankMissing(missingCount, len(gaps))

	return Distribution{Analysis: gaps, Summary: summary}, nil
}

func rankMissing(counts map[models.EquipmentType]int, subCounties int) []MissingTypeStat {
	out := make([]MissingTypeStat, 0, len(counts))
	for t, n := range counts {
		pct := 0.0
		if subCounties > 0 {
			pct = float64(n) / float64(subCounties) * 100
		}
		out = append(out, MissingTypeStat{Type: t, Count: n, Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}
