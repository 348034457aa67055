// internal/repo/helpers.go
package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
)

// Common pg helpers for nullable columns.
func toNullText(p *string) pgtype.Text {
	if p == nil || *p == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *p, Valid: true}
}

func fromNullText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func toNullTime(p *time.Time) pgtype.Timestamptz {
	if p == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *p, Valid: true}
}

func fromNullTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	tt := t.Time
	return &tt
}

func toNullFloat(p *float64) pgtype.Float8 {
	if p == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *p, Valid: true}
}

func fromNullFloat(f pgtype.Float8) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// selfCols strips table alias prefixes from a column list so it can be
// reused in INSERT ... RETURNING, where no alias is in scope.
func selfCols(cols string) string {
	return strings.NewReplacer("e.", "", "m.", "", "s.", "").Replace(cols)
}

// arg appends a query parameter and returns its placeholder.
func arg(args *[]any, v any) string {
	*args = append(*args, v)
	return fmt.Sprintf("$%d", len(*args))
}

// hierarchyJoins are the ancestry joins every scope-filtered query needs:
// the record's own county, its sub-county, and the sub-county's county.
// t is the table alias carrying region_id/county_id/sub_county_id.
func hierarchyJoins(t string) string {
	return fmt.Sprintf(`
LEFT JOIN counties c ON c.id = %s.county_id
LEFT JOIN sub_counties sc ON sc.id = %s.sub_county_id
LEFT JOIN counties scc ON scc.id = sc.county_id`, t, t)
}

// scopeConds renders the scope predicate plus any explicit narrowing
// filters as SQL conditions against alias t (joined per hierarchyJoins).
func scopeConds(scope access.Scope, t string, args *[]any) []string {
	conds := make([]string, 0, 4)
	switch {
	case scope.All:
		// no base predicate
	case scope.RegionID != "":
		p := arg(args, scope.RegionID)
		conds = append(conds, fmt.Sprintf("(%s.region_id = %s OR c.region_id = %s OR scc.region_id = %s)", t, p, p, p))
	case scope.CountyID != "":
		p := arg(args, scope.CountyID)
		conds = append(conds, fmt.Sprintf("(%s.county_id = %s OR sc.county_id = %s)", t, p, p))
	case scope.SubCountyID != "":
		conds = append(conds, fmt.Sprintf("%s.sub_county_id = %s", t, arg(args, scope.SubCountyID)))
	}

	f := scope.Filter
	if f.Office != nil {
		conds = append(conds, fmt.Sprintf("%s.location = %s", t, arg(args, string(*f.Office))))
	}
	if f.RegionID != nil {
		conds = append(conds, fmt.Sprintf("%s.region_id = %s", t, arg(args, *f.RegionID)))
	}
	if f.CountyID != nil {
		conds = append(conds, fmt.Sprintf("%s.county_id = %s", t, arg(args, *f.CountyID)))
	}
	if f.SubCountyID != nil {
		conds = append(conds, fmt.Sprintf("%s.sub_county_id = %s", t, arg(args, *f.SubCountyID)))
	}
	return conds
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// sortColumn whitelists sortable columns on hierarchy listings.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "created_at":
		return "created_at"
	default:
		return "name"
	}
}

func sortOrder(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

func pageWindow(opts ListOpts) (limit, offset int) {
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	limit = opts.Limit
	if limit <= 0 {
		limit = 10
	}
	return limit, (page - 1) * limit
}
