// internal/repo/repo.go
package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/analysis"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// ListOpts are the common listing controls on hierarchy endpoints.
type ListOpts struct {
	Search           string
	SortBy           string // "name" or "created_at"
	Descending       bool
	Page             int
	Limit            int
	WithoutEquipment bool
}

// Store is everything the handlers and the aggregation engine need from
// persistence. pgStore talks to Postgres; MemStore backs tests and the
// seed tooling's dry-run mode.
type Store interface {
	// Hierarchy lookups and listings.
	Region(ctx context.Context, id string) (models.Region, error)
	County(ctx context.Context, id string) (models.County, error)
	SubCounty(ctx context.Context, id string) (models.SubCounty, error)
	ListCounties(ctx context.Context, regionID *string, opts ListOpts) ([]models.County, int, error)
	ListSubCounties(ctx context.Context, countyID string, opts ListOpts) ([]models.SubCounty, int, error)

	// Seat identities.
	UserByID(ctx context.Context, id int64) (models.User, error)
	// UserByAccessKeyDigest resolves a seat from the SHA-256 lookup digest
	// of its access key and returns the stored argon2 PHC for verification.
	UserByAccessKeyDigest(ctx context.Context, digest string) (models.User, string, error)

	// Equipment lifecycle.
	CreateEquipment(ctx context.Context, e models.Equipment) (models.Equipment, error)
	EquipmentByID(ctx context.Context, id string) (models.Equipment, error)
	ListEquipment(ctx context.Context, scope access.Scope) ([]models.Equipment, error)
	// UpdateEquipment runs apply against the current row and persists its
	// result inside one transaction (row locked for the duration), so the
	// authorization check in apply cannot race a concurrent move/delete.
	UpdateEquipment(ctx context.Context, id string, apply func(models.Equipment) (models.Equipment, error)) (models.Equipment, error)
	DeleteEquipment(ctx context.Context, id string, guard func(models.Equipment) error) error

	// Staff lifecycle, same contract as equipment.
	CreateStaff(ctx context.Context, s models.Staff) (models.Staff, error)
	StaffByID(ctx context.Context, id string) (models.Staff, error)
	ListStaff(ctx context.Context, scope access.Scope) ([]models.Staff, error)
	UpdateStaff(ctx context.Context, id string, apply func(models.Staff) (models.Staff, error)) (models.Staff, error)
	DeleteStaff(ctx context.Context, id string, guard func(models.Staff) error) error

	// Maintenance log.
	CreateMaintenance(ctx context.Context, m models.Maintenance) (models.Maintenance, error)
	ListMaintenance(ctx context.Context, equipmentID string) ([]models.Maintenance, error)
	ResolveMaintenance(ctx context.Context, id string, resolvedAt time.Time, cost *float64, guard func(models.Maintenance, models.Equipment) error) (models.Maintenance, error)

	analysis.Store
	analysis.DistributionStore
}

// pgStore implements Store over a pgx connection pool.
type pgStore struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) Store { return &pgStore{pool: pool} }
