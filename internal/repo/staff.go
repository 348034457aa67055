// internal/repo/staff.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

const staffCols = `s.id, s.surname, s.first_name, s.other_names, s.gender, s.personal_number,
s.job_title, s.job_group, s.csg, s.birth_date, s.date_hired, s.date_of_post, s.terms_of_service,
s.location, s.region_id, s.county_id, s.sub_county_id, s.created_at, s.updated_at`

func scanStaff(row pgx.Row) (models.Staff, error) {
	var (
		st                            models.Staff
		other                         pgtype.Text
		regionID, countyID, subCounty pgtype.Text
	)
	err := row.Scan(&st.ID, &st.Surname, &st.FirstName, &other, &st.Gender, &st.PersonalNumber,
		&st.JobTitle, &st.JobGroup, &st.CSG, &st.BirthDate, &st.DateHired, &st.DateOfPost, &st.TermsOfService,
		&st.Location, &regionID, &countyID, &subCounty, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return models.Staff{}, err
	}
	st.OtherNames = fromNullText(other)
	st.RegionID = fromNullText(regionID)
	st.CountyID = fromNullText(countyID)
	st.SubCountyID = fromNullText(subCounty)
	return st, nil
}

func (p *pgStore) CreateStaff(ctx context.Context, st models.Staff) (models.Staff, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	row := p.pool.QueryRow(ctx, `
INSERT INTO staff (id, surname, first_name, other_names, gender, personal_number,
                   job_title, job_group, csg, birth_date, date_hired, date_of_post, terms_of_service,
                   location, region_id, county_id, sub_county_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now(), now())
RETURNING `+selfCols(staffCols),
		st.ID, st.Surname, st.FirstName, toNullText(st.OtherNames), st.Gender, st.PersonalNumber,
		st.JobTitle, st.JobGroup, st.CSG, st.BirthDate, st.DateHired, st.DateOfPost, st.TermsOfService,
		st.Location, toNullText(st.RegionID), toNullText(st.CountyID), toNullText(st.SubCountyID))
	created, err := scanStaff(row)
	if err != nil {
		slog.ErrorContext(ctx, "CreateStaff failed", "err", err)
		return models.Staff{}, err
	}
	return created, nil
}

func (p *pgStore) StaffByID(ctx context.Context, id string) (models.Staff, error) {
	st, err := scanStaff(p.pool.QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff s WHERE s.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Staff{}, fmt.Errorf("staff %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "StaffByID failed", "err", err)
		return models.Staff{}, err
	}
	return st, nil
}

func (p *pgStore) ListStaff(ctx context.Context, scope access.Scope) ([]models.Staff, error) {
	args := []any{}
	q := `SELECT ` + staffCols + ` FROM staff s` + hierarchyJoins("s") +
		whereClause(scopeConds(scope, "s", &args)) + ` ORDER BY s.surname, s.first_name`

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		slog.ErrorContext(ctx, "ListStaff failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.Staff{}
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (p *pgStore) UpdateStaff(ctx context.Context, id string, apply func(models.Staff) (models.Staff, error)) (models.Staff, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return models.Staff{}, err
	}
	defer tx.Rollback(ctx)

	current, err := scanStaff(tx.QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff s WHERE s.id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Staff{}, fmt.Errorf("staff %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Staff{}, err
	}

	next, err := apply(current)
	if err != nil {
		return models.Staff{}, err
	}

	updated, err := scanStaff(tx.QueryRow(ctx, `
UPDATE staff s SET
  surname = $2, first_name = $3, other_names = $4, gender = $5, personal_number = $6,
  job_title = $7, job_group = $8, csg = $9, birth_date = $10, date_hired = $11,
  date_of_post = $12, terms_of_service = $13, location = $14,
  region_id = $15, county_id = $16, sub_county_id = $17, updated_at = now()
WHERE s.id = $1
RETURNING `+staffCols,
		id, next.Surname, next.FirstName, toNullText(next.OtherNames), next.Gender, next.PersonalNumber,
		next.JobTitle, next.JobGroup, next.CSG, next.BirthDate, next.DateHired, next.DateOfPost,
		next.TermsOfService, next.Location, toNullText(next.RegionID), toNullText(next.CountyID), toNullText(next.SubCountyID)))
	if err != nil {
		slog.ErrorContext(ctx, "UpdateStaff failed", "err", err)
		return models.Staff{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Staff{}, err
	}
	return updated, nil
}

func (p *pgStore) DeleteStaff(ctx context.Context, id string, guard func(models.Staff) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	current, err := scanStaff(tx.QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff s WHERE s.id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("staff %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := guard(current); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id); err != nil {
		slog.ErrorContext(ctx, "DeleteStaff failed", "err", err)
		return err
	}
	return tx.Commit(ctx)
}
