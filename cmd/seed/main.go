// cmd/seed/main.go
//
// Seeds the administrative hierarchy from a JSON file and provisions one
// seat per unit (plus the national admin), printing each seat's access key
// as CSV. Keys are shown exactly once; only their digest and hash are stored.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	"github.com/Wolfof420Street/Employee-Tracker/internal/config"
	"github.com/Wolfof420Street/Employee-Tracker/internal/logging"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

type seedFile struct {
	Regions []struct {
		Name     string `json:"name"`
		Counties []struct {
			Name        string   `json:"name"`
			SubCounties []string `json:"sub_counties"`
		} `json:"counties"`
	} `json:"regions"`
}

func main() {
	file := flag.String("file", "seed.json", "hierarchy definition")
	out := flag.String("out", "", "write access keys CSV to this file instead of stdout")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format == "json")

	raw, err := os.ReadFile(*file)
	if err != nil {
		slog.Error("read seed file", "err", err)
		os.Exit(1)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		slog.Error("parse seed file", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("db connect error", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	w := csv.NewWriter(os.Stdout)
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			slog.Error("create output file", "err", err)
			os.Exit(1)
		}
		defer f.Close()
		w = csv.NewWriter(f)
	}
	defer w.Flush()
	w.Write([]string{"role", "unit", "access_key"})

	tx, err := pool.Begin(ctx)
	if err != nil {
		slog.Error("begin", "err", err)
		os.Exit(1)
	}
	defer tx.Rollback(ctx)

	createSeat := func(role models.Role, unitName string, regionID, countyID, subCountyID *string) {
		key, err := auth.NewAccessKey()
		if err != nil {
			slog.Error("generate key", "err", err)
			os.Exit(1)
		}
		phc, err := auth.HashKey(key, auth.DefaultParams())
		if err != nil {
			slog.Error("hash key", "err", err)
			os.Exit(1)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO users (role, region_id, county_id, sub_county_id, access_key_digest, access_key_phc, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
			role, regionID, countyID, subCountyID, auth.KeyDigest(key), phc)
		if err != nil {
			slog.Error("insert seat", "role", role, "unit", unitName, "err", err)
			os.Exit(1)
		}
		w.Write([]string{string(role), unitName, key})
	}

	createSeat(models.RoleCountryAdmin, "Country Admin", nil, nil, nil)

	for _, r := range seed.Regions {
		regionID := uuid.NewString()
		if err := insertUnit(ctx, tx, "regions", regionID, r.Name, "", ""); err != nil {
			slog.Error("insert region", "name", r.Name, "err", err)
			os.Exit(1)
		}
		createSeat(models.RoleRegionAdmin, r.Name, &regionID, nil, nil)

		for _, c := range r.Counties {
			countyID := uuid.NewString()
			if err := insertUnit(ctx, tx, "counties", countyID, c.Name, "region_id", regionID); err != nil {
				slog.Error("insert county", "name", c.Name, "err", err)
				os.Exit(1)
			}
			createSeat(models.RoleCountyAdmin, c.Name, nil, &countyID, nil)

			for _, scName := range c.SubCounties {
				subCountyID := uuid.NewString()
				if err := insertUnit(ctx, tx, "sub_counties", subCountyID, scName, "county_id", countyID); err != nil {
					slog.Error("insert sub-county", "name", scName, "err", err)
					os.Exit(1)
				}
				createSeat(models.RoleSubCountyUser, scName, nil, nil, &subCountyID)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		slog.Error("commit", "err", err)
		os.Exit(1)
	}
	w.Flush()
	slog.Info("seed complete", "regions", len(seed.Regions))
}

func insertUnit(ctx context.Context, tx pgx.Tx, table, id, name, parentCol, parentID string) error {
	if parentCol == "" {
		_, err := tx.Exec(ctx,
			`INSERT INTO `+table+` (id, name, created_at, updated_at) VALUES ($1, $2, now(), now())`,
			id, name)
		return err
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO `+table+` (id, name, `+parentCol+`, created_at, updated_at) VALUES ($1, $2, $3, now(), now())`,
		id, name, parentID)
	return err
}
