// internal/repo/equipment.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

const equipmentCols = `e.id, e.name, e.type, e.condition, e.serial_number, e.purchase_date,
e.location, e.region_id, e.county_id, e.sub_county_id, e.created_at, e.updated_at`

func scanEquipment(row pgx.Row) (models.Equipment, error) {
	var (
		e                             models.Equipment
		serial                        pgtype.Text
		purchase                      pgtype.Timestamptz
		regionID, countyID, subCounty pgtype.Text
	)
	err := row.Scan(&e.ID, &e.Name, &e.Type, &e.Condition, &serial, &purchase,
		&e.Location, &regionID, &countyID, &subCounty, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Equipment{}, err
	}
	e.SerialNumber = fromNullText(serial)
	e.PurchaseDate = fromNullTime(purchase)
	e.RegionID = fromNullText(regionID)
	e.CountyID = fromNullText(countyID)
	e.SubCountyID = fromNullText(subCounty)
	return e, nil
}

func (p *pgStore) CreateEquipment(ctx context.Context, e models.Equipment) (models.Equipment, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	row := p.pool.QueryRow(ctx, `
INSERT INTO equipment (id, name, type, condition, serial_number, purchase_date,
                       location, region_id, county_id, sub_county_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
RETURNING `+selfCols(equipmentCols),
		e.ID, e.Name, e.Type, e.Condition, toNullText(e.SerialNumber), toNullTime(e.PurchaseDate),
		e.Location, toNullText(e.RegionID), toNullText(e.CountyID), toNullText(e.SubCountyID))
	created, err := scanEquipment(row)
	if err != nil {
		slog.ErrorContext(ctx, "CreateEquipment failed", "err", err)
		return models.Equipment{}, err
	}
	return created, nil
}

func (p *pgStore) EquipmentByID(ctx context.Context, id string) (models.Equipment, error) {
	e, err := scanEquipment(p.pool.QueryRow(ctx,
		`SELECT `+equipmentCols+` FROM equipment e WHERE e.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Equipment{}, fmt.Errorf("equipment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "EquipmentByID failed", "err", err)
		return models.Equipment{}, err
	}
	return e, nil
}

func (p *pgStore) ListEquipment(ctx context.Context, scope access.Scope) ([]models.Equipment, error) {
	args := []any{}
	q := `SELECT ` + equipmentCols + ` FROM equipment e` + hierarchyJoins("e") +
		whereClause(scopeConds(scope, "e", &args)) + ` ORDER BY e.created_at DESC`

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "ListEquipment failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateEquipment locks the row, lets apply re-check authorization and
// produce the new state, and writes it back, all in one transaction.
func (p *pgStore) UpdateEquipment(ctx context.Context, id string, apply func(models.Equipment) (models.Equipment, error)) (models.Equipment, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return models.Equipment{}, err
	}
	defer tx.Rollback(ctx)

	current, err := scanEquipment(tx.QueryRow(ctx,
		`SELECT `+equipmentCols+` FROM equipment e WHERE e.id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Equipment{}, fmt.Errorf("equipment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Equipment{}, err
	}

	next, err := apply(current)
	if err != nil {
		return models.Equipment{}, err
	}

	updated, err := scanEquipment(tx.QueryRow(ctx, `
UPDATE equipment e SET
  name = $2, type = $3, condition = $4, serial_number = $5, purchase_date = $6,
  location = $7, region_id = $8, county_id = $9, sub_county_id = $10, updated_at = now()
WHERE e.id = $1
RETURNING `+equipmentCols,
		id, next.Name, next.Type, next.Condition, toNullText(next.SerialNumber), toNullTime(next.PurchaseDate),
		next.Location, toNullText(next.RegionID), toNullText(next.CountyID), toNullText(next.SubCountyID)))
	if err != nil {
		slog.ErrorContext(ctx, "UpdateEquipment failed", "err", err)
		return models.Equipment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Equipment{}, err
	}
	return updated, nil
}

func (p *pgStore) DeleteEquipment(ctx context.Context, id string, guard func(models.Equipment) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	current, err := scanEquipment(tx.QueryRow(ctx,
		`SELECT `+equipmentCols+` FROM equipment e WHERE e.id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("equipment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := guard(current); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id); err != nil {
		slog.ErrorContext(ctx, "DeleteEquipment failed", "err", err)
		return err
	}
	return tx.Commit(ctx)
}

// ---------------- Maintenance ----------------

const maintenanceCols = `m.id, m.equipment_id, m.maintenance_date, m.description,
m.repair_cost, m.resolved, m.resolved_date, m.created_at, m.updated_at`

func scanMaintenance(row pgx.Row) (models.Maintenance, error) {
	var (
		m        models.Maintenance
		cost     pgtype.Float8
		resolved pgtype.Timestamptz
	)
	err := row.Scan(&m.ID, &m.EquipmentID, &m.MaintenanceDate, &m.Description,
		&cost, &m.Resolved, &resolved, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return models.Maintenance{}, err
	}
	m.RepairCost = fromNullFloat(cost)
	m.ResolvedDate = fromNullTime(resolved)
	return m, nil
}

func (p *pgStore) CreateMaintenance(ctx context.Context, m models.Maintenance) (models.Maintenance, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	row := p.pool.QueryRow(ctx, `
INSERT INTO maintenance (id, equipment_id, maintenance_date, description, repair_cost,
                         resolved, resolved_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING `+selfCols(maintenanceCols),
		m.ID, m.EquipmentID, m.MaintenanceDate, m.Description, toNullFloat(m.RepairCost),
		m.Resolved, toNullTime(m.ResolvedDate))
	created, err := scanMaintenance(row)
	if err != nil {
		slog.ErrorContext(ctx, "CreateMaintenance failed", "err", err)
		return models.Maintenance{}, err
	}
	return created, nil
}

func (p *pgStore) ListMaintenance(ctx context.Context, equipmentID string) ([]models.Maintenance, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+maintenanceCols+` FROM maintenance m WHERE m.equipment_id = $1 ORDER BY m.maintenance_date DESC`,
		equipmentID)
	if err != nil {
		slog.ErrorContext(ctx, "ListMaintenance failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.Maintenance{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *pgStore) ResolveMaintenance(ctx context.Context, id string, resolvedAt time.Time, cost *float64, guard func(models.Maintenance, models.Equipment) error) (models.Maintenance, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return models.Maintenance{}, err
	}
	defer tx.Rollback(ctx)

	current, err := scanMaintenance(tx.QueryRow(ctx,
		`SELECT `+maintenanceCols+` FROM maintenance m WHERE m.id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Maintenance{}, fmt.Errorf("maintenance %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Maintenance{}, err
	}
	equip, err := scanEquipment(tx.QueryRow(ctx,
		`SELECT `+equipmentCols+` FROM equipment e WHERE e.id = $1`, current.EquipmentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Maintenance{}, fmt.Errorf("equipment %s: %w", current.EquipmentID, models.ErrNotFound)
	}
	if err != nil {
		return models.Maintenance{}, err
	}

	if err := guard(current, equip); err != nil {
		return models.Maintenance{}, err
	}

	if cost == nil {
		cost = current.RepairCost
	}
	updated, err := scanMaintenance(tx.QueryRow(ctx, `
UPDATE maintenance m
SET resolved = TRUE, resolved_date = $2, repair_cost = $3, updated_at = now()
WHERE m.id = $1
RETURNING `+maintenanceCols,
		id, resolvedAt, toNullFloat(cost)))
	if err != nil {
		slog.ErrorContext(ctx, "ResolveMaintenance failed", "err", err)
		return models.Maintenance{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Maintenance{}, err
	}
	return updated, nil
}
