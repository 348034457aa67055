// internal/repo/analytics.go
package repo

import (
	"context"
	"log/slog"
	"time"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/analysis"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

func (p *pgStore) CountEquipment(ctx context.Context, scope access.Scope) (int, error) {
	args := []any{}
	q := `SELECT count(*) FROM equipment e` + hierarchyJoins("e") +
		whereClause(scopeConds(scope, "e", &args))
	var n int
	if err := p.pool.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		slog.ErrorContext(ctx, "CountEquipment failed", "err", err)
		return 0, err
	}
	return n, nil
}

func (p *pgStore) groupEquipment(ctx context.Context, scope access.Scope, column string) ([]analysis.GroupCount, error) {
	args := []any{}
	q := `SELECT e.` + column + `, count(*) FROM equipment e` + hierarchyJoins("e") +
		whereClause(scopeConds(scope, "e", &args)) +
		` GROUP BY e.` + column + ` ORDER BY e.` + column

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "group equipment failed", "column", column, "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []analysis.GroupCount{}
	for rows.Next() {
		var g analysis.GroupCount
		if err := rows.Scan(&g.Value, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (p *pgStore) EquipmentByCondition(ctx context.Context, scope access.Scope) ([]analysis.GroupCount, error) {
	return p.groupEquipment(ctx, scope, "condition")
}

func (p *pgStore) EquipmentByType(ctx context.Context, scope access.Scope) ([]analysis.GroupCount, error) {
	return p.groupEquipment(ctx, scope, "type")
}

func (p *pgStore) PurchaseDates(ctx context.Context, scope access.Scope) ([]time.Time, error) {
	args := []any{}
	conds := append(scopeConds(scope, "e", &args), "e.purchase_date IS NOT NULL")
	q := `SELECT e.purchase_date FROM equipment e` + hierarchyJoins("e") +
		whereClause(conds) + ` ORDER BY e.created_at`

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "PurchaseDates failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *pgStore) RepairSpans(ctx context.Context, scope access.Scope) ([]analysis.RepairSpan, error) {
	args := []any{}
	q := `SELECT m.maintenance_date, m.resolved_date
FROM maintenance m
JOIN equipment e ON e.id = m.equipment_id` + hierarchyJoins("e") +
		whereClause(scopeConds(scope, "e", &args))

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "RepairSpans failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []analysis.RepairSpan{}
	for rows.Next() {
		var s analysis.RepairSpan
		if err := rows.Scan(&s.MaintenanceDate, &s.ResolvedDate); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *pgStore) CountiesInRegion(ctx context.Context, regionID string) ([]models.County, error) {
	rows, err := p.pool.Query(ctx, `
SELECT co.id, co.name, co.region_id, co.created_at, co.updated_at,
       (SELECT count(*) FROM equipment e WHERE e.county_id = co.id) AS equipment_count
FROM counties co
WHERE co.region_id = $1
ORDER BY co.name`, regionID)
	if err != nil {
		slog.ErrorContext(ctx, "CountiesInRegion failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.County{}
	for rows.Next() {
		var c models.County
		if err := rows.Scan(&c.ID, &c.Name, &c.RegionID, &c.CreatedAt, &c.UpdatedAt, &c.EquipmentCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *pgStore) CountyConditionCounts(ctx context.Context, countyID string) ([]analysis.GroupCount, error) {
	rows, err := p.pool.Query(ctx, `
SELECT e.condition, count(*) FROM equipment e
WHERE e.county_id = $1
GROUP BY e.condition ORDER BY e.condition`, countyID)
	if err != nil {
		slog.ErrorContext(ctx, "CountyConditionCounts failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []analysis.GroupCount{}
	for rows.Next() {
		var g analysis.GroupCount
		if err := rows.Scan(&g.Value, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (p *pgStore) SubCountyInventories(ctx context.Context, countyID *string) ([]analysis.SubCountyInventory, error) {
	args := []any{}
	conds := []string{}
	if countyID != nil && *countyID != "" {
		conds = append(conds, "s.county_id = "+arg(&args, *countyID))
	}
	q := `
SELECT s.id, s.name, co.name, e.type
FROM sub_counties s
JOIN counties co ON co.id = s.county_id
LEFT JOIN equipment e ON e.sub_county_id = s.id` +
		whereClause(conds) + ` ORDER BY co.name, s.name`

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "SubCountyInventories failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	byID := map[string]int{}
	out := []analysis.SubCountyInventory{}
	for rows.Next() {
		var (
			id, name, countyName string
			typ                  *string
		)
		if err := rows.Scan(&id, &name, &countyName, &typ); err != nil {
			return nil, err
		}
		idx, ok := byID[id]
		if !ok {
			idx = len(out)
			byID[id] = idx
			out = append(out, analysis.SubCountyInventory{
				SubCountyID:   id,
				SubCountyName: name,
				CountyName:    countyName,
				Types:         []models.EquipmentType{},
			})
		}
		if typ != nil {
			out[idx].Types = append(out[idx].Types, models.EquipmentType(*typ))
		}
	}
	return out, rows.Err()
}

func (p *pgStore) DistinctEquipmentTypes(ctx context.Context) ([]models.EquipmentType, error) {
	rows, err := p.pool.Query(ctx, `SELECT DISTINCT type FROM equipment ORDER BY type`)
	if err != nil {
		slog.ErrorContext(ctx, "DistinctEquipmentTypes failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.EquipmentType{}
	for rows.Next() {
		var t models.EquipmentType
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
