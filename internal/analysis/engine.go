// internal/analysis/engine.go
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// GroupCount is one bucket of a group-by-count query.
type GroupCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// RepairSpan is the pair of dates a repair-duration computation needs.
type RepairSpan struct {
	MaintenanceDate time.Time
	ResolvedDate    *time.Time
}

// Store is the read-only slice of persistence the engine aggregates over.
// All queries honor the scope predicate; the county-level queries count
// only directly county-bound equipment (see CountyBreakdown).
type Store interface {
	CountEquipment(ctx context.Context, scope access.Scope) (int, error)
	EquipmentByCondition(ctx context.Context, scope access.Scope) ([]GroupCount, error)
	EquipmentByType(ctx context.Context, scope access.Scope) ([]GroupCount, error)
	PurchaseDates(ctx context.Context, scope access.Scope) ([]time.Time, error)
	RepairSpans(ctx context.Context, scope access.Scope) ([]RepairSpan, error)

	CountiesInRegion(ctx context.Context, regionID string) ([]models.County, error)
	CountyConditionCounts(ctx context.Context, countyID string) ([]GroupCount, error)
}

type OverviewStats struct {
	TotalEquipment   int `json:"total_equipment"`
	ActiveEquipment  int `json:"active_equipment"`
	NeedsMaintenance int `json:"needs_maintenance"`
}

type Distributions struct {
	ByType      []GroupCount `json:"by_type"`
	ByCondition []GroupCount `json:"by_condition"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TimeSeries struct {
	Acquisitions []DateCount `json:"acquisitions"`
}

type MaintenanceMetrics struct {
	TotalRepairs       int     `json:"total_repairs"`
	TotalRepairTime    int64   `json:"total_repair_time_ms"`
	AverageRepairTime  float64 `json:"average_repair_time_ms"`
	ResolvedPercentage float64 `json:"resolved_percentage"`
	CompletedRepairs   int     `json:"completed_repairs"`
	PendingRepairs     int     `json:"pending_repairs"`
}

// CountyBreakdown summarizes one county under a region scope. The counts
// cover equipment bound directly to the county office; equipment held by
// the county's sub-counties is reported at the region level only.
type CountyBreakdown struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	DirectEquipment int            `json:"direct_equipment"`
	Conditions      map[string]int `json:"equipment_conditions"`
}

type Overview struct {
	Overview      OverviewStats      `json:"overview"`
	Distributions Distributions      `json:"distributions"`
	TimeSeries    TimeSeries         `json:"time_series"`
	Maintenance   MaintenanceMetrics `json:"maintenance"`
	Counties      []CountyBreakdown  `json:"counties,omitempty"`
}

// Engine computes dashboard aggregates over a scope. It performs no writes.
type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// Overview produces the full dashboard payload for a scope. For a region
// scope it appends the per-county breakdown.
func (e *Engine) Overview(ctx context.Context, scope access.Scope, timeRange string) (Overview, error) {
	// Validate the window up front so a bad timeRange never returns a
	// partially computed payload.
	start, err := windowStart(e.now(), timeRange)
	if err != nil {
		return Overview{}, err
	}

	total, err := e.store.CountEquipment(ctx, scope)
	if err != nil {
		return Overview{}, err
	}
	byCondition, err := e.store.EquipmentByCondition(ctx, scope)
	if err != nil {
		return Overview{}, err
	}
	byType, err := e.store.EquipmentByType(ctx, scope)
	if err != nil {
		return Overview{}, err
	}

	outOfService := 0
	needsRepair := 0
	for _, g := range byCondition {
		switch models.EquipmentCondition(g.Value) {
		case models.ConditionOutOfService:
			outOfService = g.Count
		case models.ConditionNeedsRepair:
			needsRepair = g.Count
		}
	}

	dates, err := e.store.PurchaseDates(ctx, scope)
	if err != nil {
		return Overview{}, err
	}
	spans, err := e.store.RepairSpans(ctx, scope)
	if err != nil {
		return Overview{}, err
	}

	out := Overview{
		Overview: OverviewStats{
			TotalEquipment:   total,
			ActiveEquipment:  total - outOfService,
			NeedsMaintenance: needsRepair,
		},
		Distributions: Distributions{ByType: byType, ByCondition: byCondition},
		TimeSeries:    TimeSeries{Acquisitions: bucketByDay(dates, start)},
		Maintenance:   repairMetrics(spans),
	}

	if !scope.All && scope.RegionID != "" {
		counties, err := e.countyBreakdown(ctx, scope.RegionID)
		if err != nil {
			return Overview{}, err
		}
		out.Counties = counties
	}
	return out, nil
}

func (e *Engine) countyBreakdown(ctx context.Context, regionID string) ([]CountyBreakdown, error) {
	counties, err := e.store.CountiesInRegion(ctx, regionID)
	if err != nil {
		return nil, err
	}
	out := make([]CountyBreakdown, 0, len(counties))
	for _, c := range counties {
		conds, err := e.store.CountyConditionCounts(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		m := make(map[string]int, len(conds))
		for _, g := range conds {
			m[g.Value] = g.Count
		}
		out = append(out, CountyBreakdown{
			ID:              c.ID,
			Name:            c.Name,
			DirectEquipment: c.EquipmentCount,
			Conditions:      m,
		})
	}
	return out, nil
}

// windowStart maps a timeRange token to the start of its lookback window.
// Unknown tokens are an input error, never a silent default.
func windowStart(now time.Time, timeRange string) (time.Time, error) {
	switch timeRange {
	case "1y":
		return now.AddDate(-1, 0, 0), nil
	case "6m":
		return now.AddDate(0, -6, 0), nil
	case "3m":
		return now.AddDate(0, -3, 0), nil
	case "1m":
		return now.AddDate(0, -1, 0), nil
	case "1w":
		return now.AddDate(0, 0, -7), nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid time range %q", models.ErrInvalidInput, timeRange)
}

// bucketByDay groups acquisition dates inside the window by calendar day.
// Buckets appear in first-seen order, matching the dashboard's expectation
// of insertion-ordered series rather than chronological order.
func bucketByDay(dates []time.Time, start time.Time) []DateCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, d := range dates {
		if d.Before(start) {
			continue
		}
		key := d.Format("2006-01-02")
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}
	out := make([]DateCount, 0, len(order))
	for _, key := range order {
		out = append(out, DateCount{Date: key, Count: counts[key]})
	}
	return out
}

func repairMetrics(spans []RepairSpan) MaintenanceMetrics {
	total := len(spans)
	completed := 0
	var totalTime int64
	for _, s := range spans {
		if s.ResolvedDate == nil {
			continue
		}
		completed++
		totalTime += s.ResolvedDate.Sub(s.MaintenanceDate).Milliseconds()
	}

	avg := 0.0
	if completed > 0 {
		avg = float64(totalTime) / float64(completed)
	}
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	return MaintenanceMetrics{
		TotalRepairs:       total,
		TotalRepairTime:    totalTime,
		AverageRepairTime:  avg,
		ResolvedPercentage: pct,
		CompletedRepairs:   completed,
		PendingRepairs:     total - completed,
	}
}
