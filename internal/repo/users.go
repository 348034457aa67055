// internal/repo/users.go
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

func scanUser(row pgx.Row) (models.User, string, error) {
	var (
		u                             models.User
		phc                           string
		regionID, countyID, subCounty pgtype.Text
	)
	err := row.Scan(&u.ID, &u.Role, &regionID, &countyID, &subCounty, &phc, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, "", err
	}
	u.RegionID = fromNullText(regionID)
	u.CountyID = fromNullText(countyID)
	u.SubCountyID = fromNullText(subCounty)
	return u, phc, nil
}

const userCols = `id, role, region_id, county_id, sub_county_id, access_key_phc, created_at, updated_at`

func (p *pgStore) UserByID(ctx context.Context, id int64) (models.User, error) {
	u, _, err := scanUser(p.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "UserByID failed", "err", err)
		return models.User{}, err
	}
	return u, nil
}

func (p *pgStore) UserByAccessKeyDigest(ctx context.Context, digest string) (models.User, string, error) {
	u, phc, err := scanUser(p.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE access_key_digest = $1`, digest))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, "", models.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "UserByAccessKeyDigest failed", "err", err)
		return models.User{}, "", err
	}
	return u, phc, nil
}
