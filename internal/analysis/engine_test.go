package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

type fakeStore struct {
	total       int
	byCondition []GroupCount
	byType      []GroupCount
	purchases   []time.Time
	spans       []RepairSpan
	counties    []models.County
	condByCty   map[string][]GroupCount
}

func (f *fakeStore) CountEquipment(context.Context, access.Scope) (int, error) {
	return f.total, nil
}
func (f *fakeStore) EquipmentByCondition(context.Context, access.Scope) ([]GroupCount, error) {
	return f.byCondition, nil
}
func (f *fakeStore) EquipmentByType(context.Context, access.Scope) ([]GroupCount, error) {
	return f.byType, nil
}
func (f *fakeStore) PurchaseDates(context.Context, access.Scope) ([]time.Time, error) {
	return f.purchases, nil
}
func (f *fakeStore) RepairSpans(context.Context, access.Scope) ([]RepairSpan, error) {
	return f.spans, nil
}
func (f *fakeStore) CountiesInRegion(context.Context, string) ([]models.County, error) {
	return f.counties, nil
}
func (f *fakeStore) CountyConditionCounts(_ context.Context, id string) ([]GroupCount, error) {
	return f.condByCty[id], nil
}

func fixedEngine(store Store, at time.Time) *Engine {
	e := NewEngine(store)
	e.now = func() time.Time { return at }
	return e
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func timep(t time.Time) *time.Time { return &t }

func TestOverviewStats(t *testing.T) {
	store := &fakeStore{
		total: 10,
		byCondition: []GroupCount{
			{Value: "GOOD", Count: 6},
			{Value: "NEEDS_REPAIR", Count: 3},
			{Value: "OUT_OF_SERVICE", Count: 1},
		},
		byType: []GroupCount{{Value: "LAPTOP", Count: 10}},
	}
	e := fixedEngine(store, day("2026-01-01"))

	out, err := e.Overview(context.Background(), access.Scope{All: true}, "1y")
	require.NoError(t, err)

	assert.Equal(t, 10, out.Overview.TotalEquipment)
	assert.Equal(t, 9, out.Overview.ActiveEquipment, "active excludes out-of-service")
	assert.Equal(t, 3, out.Overview.NeedsMaintenance)
	assert.Equal(t, store.byType, out.Distributions.ByType)
	assert.Equal(t, store.byCondition, out.Distributions.ByCondition)
}

func TestOverviewRejectsBadTimeRange(t *testing.T) {
	e := fixedEngine(&fakeStore{}, day("2026-01-01"))
	_, err := e.Overview(context.Background(), access.Scope{All: true}, "2y")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = e.Overview(context.Background(), access.Scope{All: true}, "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAcquisitionWindow(t *testing.T) {
	now := day("2026-01-01")
	store := &fakeStore{
		purchases: []time.Time{
			now.AddDate(0, 0, -400), // outside 1y
			now.AddDate(0, 0, -200),
			now.AddDate(0, 0, -200),
			now.AddDate(0, 0, -10),
		},
	}
	e := fixedEngine(store, now)

	out, err := e.Overview(context.Background(), access.Scope{All: true}, "1y")
	require.NoError(t, err)

	acq := out.TimeSeries.Acquisitions
	require.Len(t, acq, 2)
	assert.Equal(t, now.AddDate(0, 0, -200).Format("2006-01-02"), acq[0].Date)
	assert.Equal(t, 2, acq[0].Count)
	assert.Equal(t, 1, acq[1].Count)
}

func TestAcquisitionBucketsKeepFirstSeenOrder(t *testing.T) {
	now := day("2026-01-01")
	a := now.AddDate(0, 0, -5)
	b := now.AddDate(0, 0, -3)
	store := &fakeStore{purchases: []time.Time{b, a, b}}
	e := fixedEngine(store, now)

	out, err := e.Overview(context.Background(), access.Scope{All: true}, "1m")
	require.NoError(t, err)

	acq := out.TimeSeries.Acquisitions
	require.Len(t, acq, 2)
	// b came first in the data, so its bucket comes first.
	assert.Equal(t, b.Format("2006-01-02"), acq[0].Date)
	assert.Equal(t, 2, acq[0].Count)
	assert.Equal(t, a.Format("2006-01-02"), acq[1].Date)
}

func TestRepairMetrics(t *testing.T) {
	base := day("2026-03-01")
	store := &fakeStore{
		spans: []RepairSpan{
			{MaintenanceDate: base, ResolvedDate: timep(base.AddDate(0, 0, 2))},
			{MaintenanceDate: base, ResolvedDate: timep(base.AddDate(0, 0, 4))},
			{MaintenanceDate: base, ResolvedDate: timep(base.AddDate(0, 0, 6))},
			{MaintenanceDate: base}, // pending
		},
	}
	e := fixedEngine(store, base.AddDate(0, 1, 0))

	out, err := e.Overview(context.Background(), access.Scope{All: true}, "1y")
	require.NoError(t, err)

	m := out.Maintenance
	dayMs := int64(24 * time.Hour / time.Millisecond)
	assert.Equal(t, 4, m.TotalRepairs)
	assert.Equal(t, 3, m.CompletedRepairs)
	assert.Equal(t, 1, m.PendingRepairs)
	assert.Equal(t, 12*dayMs, m.TotalRepairTime)
	assert.InDelta(t, float64(4*dayMs), m.AverageRepairTime, 0.001)
	assert.InDelta(t, 75.0, m.ResolvedPercentage, 0.001)
}

func TestRepairMetricsThreeOfFive(t *testing.T) {
	base := day("2026-03-01")
	store := &fakeStore{
		spans: []RepairSpan{
			{MaintenanceDate: base, ResolvedDate: timep(base.AddDate(0, 0, 2))},
			{MaintenanceDate: base, ResolvedDate: timep(base.AddDate(0, 0, 4))},
			{MaintenanceDate: base, ResolvedDate: timep(base.AddDate(0, 0, 6))},
			{MaintenanceDate: base},
			{MaintenanceDate: base.AddDate(0, 0, 1)},
		},
	}
	e := fixedEngine(store, base.AddDate(0, 1, 0))

	out, err := e.Overview(context.Background(), access.Scope{All: true}, "1y")
	require.NoError(t, err)

	m := out.Maintenance
	dayMs := int64(24 * time.Hour / time.Millisecond)
	assert.Equal(t, 5, m.TotalRepairs)
	assert.Equal(t, 3, m.CompletedRepairs)
	assert.Equal(t, 2, m.PendingRepairs)
	assert.Equal(t, 12*dayMs, m.TotalRepairTime)
	assert.InDelta(t, float64(4*dayMs), m.AverageRepairTime, 0.001)
	assert.InDelta(t, 60.0, m.ResolvedPercentage, 0.001)
}

func TestRepairMetricsEmpty(t *testing.T) {
	e := fixedEngine(&fakeStore{}, day("2026-01-01"))
	out, err := e.Overview(context.Background(), access.Scope{All: true}, "1y")
	require.NoError(t, err)

	m := out.Maintenance
	assert.Zero(t, m.TotalRepairs)
	assert.Zero(t, m.AverageRepairTime)
	assert.Zero(t, m.ResolvedPercentage)
}

func TestRegionScopeGetsCountyBreakdown(t *testing.T) {
	store := &fakeStore{
		counties: []models.County{
			{ID: "c1", Name: "Alpha", EquipmentCount: 4},
			{ID: "c2", Name: "Beta", EquipmentCount: 0},
		},
		condByCty: map[string][]GroupCount{
			"c1": {{Value: "GOOD", Count: 3}, {Value: "NEEDS_REPAIR", Count: 1}},
		},
	}
	e := fixedEngine(store, day("2026-01-01"))

	out, err := e.Overview(context.Background(), access.Scope{Role: models.RoleRegionAdmin, RegionID: "r1"}, "1y")
	require.NoError(t, err)

	require.Len(t, out.Counties, 2)
	assert.Equal(t, "Alpha", out.Counties[0].Name)
	assert.Equal(t, 4, out.Counties[0].DirectEquipment)
	assert.Equal(t, map[string]int{"GOOD": 3, "NEEDS_REPAIR": 1}, out.Counties[0].Conditions)
	assert.Empty(t, out.Counties[1].Conditions)

	// National scope carries no per-county section.
	out, err = e.Overview(context.Background(), access.Scope{All: true}, "1y")
	require.NoError(t, err)
	assert.Nil(t, out.Counties)
}

func TestWindowStartTokens(t *testing.T) {
	now := day("2026-06-15")
	cases := map[string]time.Time{
		"1y": now.AddDate(-1, 0, 0),
		"6m": now.AddDate(0, -6, 0),
		"3m": now.AddDate(0, -3, 0),
		"1m": now.AddDate(0, -1, 0),
		"1w": now.AddDate(0, 0, -7),
	}
	for token, want := range cases {
		got, err := windowStart(now, token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}
}
