// internal/repo/hierarchy.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

func (p *pgStore) Region(ctx context.Context, id string) (models.Region, error) {
	var r models.Region
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM regions WHERE id = $1`, id).
		Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Region{}, fmt.Errorf("region %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Region lookup failed", "err", err)
		return models.Region{}, err
	}
	return r, nil
}

func (p *pgStore) County(ctx context.Context, id string) (models.County, error) {
	var c models.County
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, region_id, created_at, updated_at FROM counties WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.RegionID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.County{}, fmt.Errorf("county %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "County lookup failed", "err", err)
		return models.County{}, err
	}
	return c, nil
}

func (p *pgStore) SubCounty(ctx context.Context, id string) (models.SubCounty, error) {
	var sc models.SubCounty
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, county_id, created_at, updated_at FROM sub_counties WHERE id = $1`, id).
		Scan(&sc.ID, &sc.Name, &sc.CountyID, &sc.CreatedAt, &sc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.SubCounty{}, fmt.Errorf("sub-county %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "SubCounty lookup failed", "err", err)
		return models.SubCounty{}, err
	}
	return sc, nil
}

func (p *pgStore) ListCounties(ctx context.Context, regionID *string, opts ListOpts) ([]models.County, int, error) {
	args := []any{}
	conds := []string{fmt.Sprintf("co.name ILIKE %s", arg(&args, "%"+opts.Search+"%"))}
	if regionID != nil && *regionID != "" {
		conds = append(conds, fmt.Sprintf("co.region_id = %s", arg(&args, *regionID)))
	}
	if opts.WithoutEquipment {
		conds = append(conds, "NOT EXISTS (SELECT 1 FROM equipment e WHERE e.county_id = co.id)")
	}
	where := whereClause(conds)

	var total int
	if err := p.pool.QueryRow(ctx, "SELECT count(*) FROM counties co"+where, args...).Scan(&total); err != nil {
		slog.ErrorContext(ctx, "ListCounties count failed", "err", err)
		return nil, 0, err
	}

	limit, offset := pageWindow(opts)
	q := fmt.Sprintf(`
SELECT co.id, co.name, co.region_id, co.created_at, co.updated_at,
       (SELECT count(*) FROM equipment e WHERE e.county_id = co.id) AS equipment_count
FROM counties co%s
ORDER BY co.%s %s
LIMIT %s OFFSET %s`, where, sortColumn(opts.SortBy), sortOrder(opts.Descending),
		arg(&args, limit), arg(&args, offset))

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "ListCounties failed", "err", err)
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.County{}
	for rows.Next() {
		var c models.County
		if err := rows.Scan(&c.ID, &c.Name, &c.RegionID, &c.CreatedAt, &c.UpdatedAt, &c.EquipmentCount); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (p *pgStore) ListSubCounties(ctx context.Context, countyID string, opts ListOpts) ([]models.SubCounty, int, error) {
	args := []any{}
	conds := []string{
		fmt.Sprintf("s.county_id = %s", arg(&args, countyID)),
		fmt.Sprintf("s.name ILIKE %s", arg(&args, "%"+opts.Search+"%")),
	}
	if opts.WithoutEquipment {
		conds = append(conds, "NOT EXISTS (SELECT 1 FROM equipment e WHERE e.sub_county_id = s.id)")
	}
	where := whereClause(conds)

	var total int
	if err := p.pool.QueryRow(ctx, "SELECT count(*) FROM sub_counties s"+where, args...).Scan(&total); err != nil {
		slog.ErrorContext(ctx, "ListSubCounties count failed", "err", err)
		return nil, 0, err
	}

	limit, offset := pageWindow(opts)
	q := fmt.Sprintf(`
SELECT s.id, s.name, s.county_id, s.created_at, s.updated_at,
       (SELECT count(*) FROM equipment e WHERE e.sub_county_id = s.id) AS equipment_count
FROM sub_counties s%s
ORDER BY s.%s %s
LIMIT %s OFFSET %s`, where, sortColumn(opts.SortBy), sortOrder(opts.Descending),
		arg(&args, limit), arg(&args, offset))

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "ListSubCounties failed", "err", err)
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.SubCounty{}
	for rows.Next() {
		var sc models.SubCounty
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.CountyID, &sc.CreatedAt, &sc.UpdatedAt, &sc.EquipmentCount); err != nil {
			return nil, 0, err
		}
		out = append(out, sc)
	}
	return out, total, rows.Err()
}
