// internal/repo/memory.go
package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Wolfof420Street/Employee-Tracker/internal/access"
	"github.com/Wolfof420Street/Employee-Tracker/internal/analysis"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// MemStore is an in-memory Store used by tests and by the seed tool's
// dry-run mode. Semantics mirror pgStore, including the ancestry walk
// behind scope filtering.
type MemStore struct {
	mu sync.RWMutex

	regions     map[string]models.Region
	counties    map[string]models.County
	subCounties map[string]models.SubCounty
	users       map[int64]models.User
	userKeys    map[string]keyCred // access-key digest -> credential
	equipment   map[string]models.Equipment
	equipOrder  []string
	staff       map[string]models.Staff
	maintenance map[string]models.Maintenance
	maintOrder  []string
	nextUserID  int64
}

type keyCred struct {
	userID int64
	phc    string
}

func NewMemStore() *MemStore {
	return &MemStore{
		regions:     map[string]models.Region{},
		counties:    map[string]models.County{},
		subCounties: map[string]models.SubCounty{},
		users:       map[int64]models.User{},
		userKeys:    map[string]keyCred{},
		equipment:   map[string]models.Equipment{},
		staff:       map[string]models.Staff{},
		maintenance: map[string]models.Maintenance{},
		nextUserID:  1,
	}
}

// ---------------- fixtures ----------------

func (m *MemStore) AddRegion(r models.Region) models.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.regions[r.ID] = r
	return r
}

func (m *MemStore) AddCounty(c models.County) models.County {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.counties[c.ID] = c
	return c
}

func (m *MemStore) AddSubCounty(sc models.SubCounty) models.SubCounty {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	m.subCounties[sc.ID] = sc
	return sc
}

// AddUser registers a seat with its access-key credential.
func (m *MemStore) AddUser(u models.User, keyDigest, phc string) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.nextUserID
		m.nextUserID++
	}
	m.users[u.ID] = u
	if keyDigest != "" {
		m.userKeys[keyDigest] = keyCred{userID: u.ID, phc: phc}
	}
	return u
}

// ---------------- hierarchy ----------------

func (m *MemStore) Region(_ context.Context, id string) (models.Region, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.regions[id]
	if !ok {
		return models.Region{}, models.ErrNotFound
	}
	return r, nil
}

func (m *MemStore) County(_ context.Context, id string) (models.County, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.counties[id]
	if !ok {
		return models.County{}, models.ErrNotFound
	}
	return c, nil
}

func (m *MemStore) SubCounty(_ context.Context, id string) (models.SubCounty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sc, ok := m.subCounties[id]
	if !ok {
		return models.SubCounty{}, models.ErrNotFound
	}
	return sc, nil
}

func (m *MemStore) ListCounties(_ context.Context, regionID *string, opts ListOpts) ([]models.County, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := []models.County{}
	for _, c := range m.counties {
		if regionID != nil && *regionID != "" && c.RegionID != *regionID {
			continue
		}
		if opts.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(opts.Search)) {
			continue
		}
		c.EquipmentCount = m.countEquipmentDirect(func(e models.Equipment) bool {
			return e.CountyID != nil && *e.CountyID == c.ID
		})
		if opts.WithoutEquipment && c.EquipmentCount > 0 {
			continue
		}
		all = append(all, c)
	}
	sortByName(all, opts, func(c models.County) (string, time.Time) { return c.Name, c.CreatedAt })
	total := len(all)
	return paginate(all, opts), total, nil
}

func (m *MemStore) ListSubCounties(_ context.Context, countyID string, opts ListOpts) ([]models.SubCounty, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := []models.SubCounty{}
	for _, sc := range m.subCounties {
		if sc.CountyID != countyID {
			continue
		}
		if opts.Search != "" && !strings.Contains(strings.ToLower(sc.Name), strings.ToLower(opts.Search)) {
			continue
		}
		sc.EquipmentCount = m.countEquipmentDirect(func(e models.Equipment) bool {
			return e.SubCountyID != nil && *e.SubCountyID == sc.ID
		})
		if opts.WithoutEquipment && sc.EquipmentCount > 0 {
			continue
		}
		all = append(all, sc)
	}
	sortByName(all, opts, func(sc models.SubCounty) (string, time.Time) { return sc.Name, sc.CreatedAt })
	total := len(all)
	return paginate(all, opts), total, nil
}

func (m *MemStore) countEquipmentDirect(match func(models.Equipment) bool) int {
	n := 0
	for _, e := range m.equipment {
		if match(e) {
			n++
		}
	}
	return n
}

func sortByName[T any](items []T, opts ListOpts, key func(T) (string, time.Time)) {
	sort.SliceStable(items, func(i, j int) bool {
		ni, ti := key(items[i])
		nj, tj := key(items[j])
		var less bool
		if sortColumn(opts.SortBy) == "created_at" {
			less = ti.Before(tj)
		} else {
			less = ni < nj
		}
		if opts.Descending {
			return !less
		}
		return less
	})
}

func paginate[T any](items []T, opts ListOpts) []T {
	limit, offset := pageWindow(opts)
	if offset > len(items) {
		offset = len(items)
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ---------------- users ----------------

func (m *MemStore) UserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (m *MemStore) UserByAccessKeyDigest(_ context.Context, digest string) (models.User, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cred, ok := m.userKeys[digest]
	if !ok {
		return models.User{}, "", models.ErrNotFound
	}
	return m.users[cred.userID], cred.phc, nil
}

// ---------------- scope matching ----------------

// inScope resolves ancestry through the in-memory hierarchy, mirroring the
// SQL joins pgStore uses.
func (m *MemStore) inScope(scope access.Scope, b access.Binding) bool {
	if !m.scopeBase(scope, b) {
		return false
	}
	f := scope.Filter
	if f.Office != nil && b.Office() != *f.Office {
		return false
	}
	if f.RegionID != nil && (b.RegionID == nil || *b.RegionID != *f.RegionID) {
		return false
	}
	if f.CountyID != nil && (b.CountyID == nil || *b.CountyID != *f.CountyID) {
		return false
	}
	if f.SubCountyID != nil && (b.SubCountyID == nil || *b.SubCountyID != *f.SubCountyID) {
		return false
	}
	return true
}

func (m *MemStore) scopeBase(scope access.Scope, b access.Binding) bool {
	switch {
	case scope.All:
		return true
	case scope.RegionID != "":
		if b.RegionID != nil && *b.RegionID == scope.RegionID {
			return true
		}
		if b.CountyID != nil {
			if c, ok := m.counties[*b.CountyID]; ok && c.RegionID == scope.RegionID {
				return true
			}
		}
		if b.SubCountyID != nil {
			if sc, ok := m.subCounties[*b.SubCountyID]; ok {
				if c, ok := m.counties[sc.CountyID]; ok && c.RegionID == scope.RegionID {
					return true
				}
			}
		}
		return false
	case scope.CountyID != "":
		if b.CountyID != nil && *b.CountyID == scope.CountyID {
			return true
		}
		if b.SubCountyID != nil {
			if sc, ok := m.subCounties[*b.SubCountyID]; ok && sc.CountyID == scope.CountyID {
				return true
			}
		}
		return false
	case scope.SubCountyID != "":
		return b.SubCountyID != nil && *b.SubCountyID == scope.SubCountyID
	}
	return false
}

// ---------------- equipment ----------------

func (m *MemStore) CreateEquipment(_ context.Context, e models.Equipment) (models.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	m.equipment[e.ID] = e
	m.equipOrder = append(m.equipOrder, e.ID)
	return e, nil
}

func (m *MemStore) EquipmentByID(_ context.Context, id string) (models.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.equipment[id]
	if !ok {
		return models.Equipment{}, models.ErrNotFound
	}
	return e, nil
}

func (m *MemStore) ListEquipment(_ context.Context, scope access.Scope) ([]models.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Equipment{}
	for _, id := range m.equipOrder {
		e, ok := m.equipment[id]
		if !ok {
			continue
		}
		if m.inScope(scope, access.EquipmentBinding(e)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemStore) UpdateEquipment(_ context.Context, id string, apply func(models.Equipment) (models.Equipment, error)) (models.Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.equipment[id]
	if !ok {
		return models.Equipment{}, models.ErrNotFound
	}
	next, err := apply(current)
	if err != nil {
		return models.Equipment{}, err
	}
	next.ID = id
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = time.Now()
	m.equipment[id] = next
	return next, nil
}

func (m *MemStore) DeleteEquipment(_ context.Context, id string, guard func(models.Equipment) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.equipment[id]
	if !ok {
		return models.ErrNotFound
	}
	if err := guard(current); err != nil {
		return err
	}
	delete(m.equipment, id)
	return nil
}

// ---------------- staff ----------------

func (m *MemStore) CreateStaff(_ context.Context, s models.Staff) (models.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	m.staff[s.ID] = s
	return s, nil
}

func (m *MemStore) StaffByID(_ context.Context, id string) (models.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.staff[id]
	if !ok {
		return models.Staff{}, models.ErrNotFound
	}
	return s, nil
}

func (m *MemStore) ListStaff(_ context.Context, scope access.Scope) ([]models.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Staff{}
	for _, s := range m.staff {
		if m.inScope(scope, access.StaffBinding(s)) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Surname != out[j].Surname {
			return out[i].Surname < out[j].Surname
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (m *MemStore) UpdateStaff(_ context.Context, id string, apply func(models.Staff) (models.Staff, error)) (models.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.staff[id]
	if !ok {
		return models.Staff{}, models.ErrNotFound
	}
	next, err := apply(current)
	if err != nil {
		return models.Staff{}, err
	}
	next.ID = id
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = time.Now()
	m.staff[id] = next
	return next, nil
}

func (m *MemStore) DeleteStaff(_ context.Context, id string, guard func(models.Staff) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.staff[id]
	if !ok {
		return models.ErrNotFound
	}
	if err := guard(current); err != nil {
		return err
	}
	delete(m.staff, id)
	return nil
}

// ---------------- maintenance ----------------

func (m *MemStore) CreateMaintenance(_ context.Context, rec models.Maintenance) (models.Maintenance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now()
	rec.CreatedAt, rec.UpdatedAt = now, now
	m.maintenance[rec.ID] = rec
	m.maintOrder = append(m.maintOrder, rec.ID)
	return rec, nil
}

func (m *MemStore) ListMaintenance(_ context.Context, equipmentID string) ([]models.Maintenance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Maintenance{}
	for _, id := range m.maintOrder {
		rec, ok := m.maintenance[id]
		if ok && rec.EquipmentID == equipmentID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MaintenanceDate.After(out[j].MaintenanceDate)
	})
	return out, nil
}

func (m *MemStore) ResolveMaintenance(_ context.Context, id string, resolvedAt time.Time, cost *float64, guard func(models.Maintenance, models.Equipment) error) (models.Maintenance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.maintenance[id]
	if !ok {
		return models.Maintenance{}, models.ErrNotFound
	}
	equip, ok := m.equipment[rec.EquipmentID]
	if !ok {
		return models.Maintenance{}, models.ErrNotFound
	}
	if err := guard(rec, equip); err != nil {
		return models.Maintenance{}, err
	}
	rec.Resolved = true
	rec.ResolvedDate = &resolvedAt
	if cost != nil {
		rec.RepairCost = cost
	}
	rec.UpdatedAt = time.Now()
	m.maintenance[id] = rec
	return rec, nil
}

// ---------------- aggregation ----------------

func (m *MemStore) CountEquipment(_ context.Context, scope access.Scope) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.equipment {
		if m.inScope(scope, access.EquipmentBinding(e)) {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) groupEquipment(scope access.Scope, key func(models.Equipment) string) []analysis.GroupCount {
	counts := map[string]int{}
	for _, e := range m.equipment {
		if m.inScope(scope, access.EquipmentBinding(e)) {
			counts[key(e)]++
		}
	}
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)
	out := make([]analysis.GroupCount, 0, len(values))
	for _, v := range values {
		out = append(out, analysis.GroupCount{Value: v, Count: counts[v]})
	}
	return out
}

func (m *MemStore) EquipmentByCondition(_ context.Context, scope access.Scope) ([]analysis.GroupCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.groupEquipment(scope, func(e models.Equipment) string { return string(e.Condition) }), nil
}

func (m *MemStore) EquipmentByType(_ context.Context, scope access.Scope) ([]analysis.GroupCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.groupEquipment(scope, func(e models.Equipment) string { return string(e.Type) }), nil
}

func (m *MemStore) PurchaseDates(_ context.Context, scope access.Scope) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []time.Time{}
	for _, id := range m.equipOrder {
		e, ok := m.equipment[id]
		if !ok || e.PurchaseDate == nil {
			continue
		}
		if m.inScope(scope, access.EquipmentBinding(e)) {
			out = append(out, *e.PurchaseDate)
		}
	}
	return out, nil
}

func (m *MemStore) RepairSpans(_ context.Context, scope access.Scope) ([]analysis.RepairSpan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []analysis.RepairSpan{}
	for _, id := range m.maintOrder {
		rec, ok := m.maintenance[id]
		if !ok {
			continue
		}
		e, ok := m.equipment[rec.EquipmentID]
		if !ok || !m.inScope(scope, access.EquipmentBinding(e)) {
			continue
		}
		out = append(out, analysis.RepairSpan{
			MaintenanceDate: rec.MaintenanceDate,
			ResolvedDate:    rec.ResolvedDate,
		})
	}
	return out, nil
}

func (m *MemStore) CountiesInRegion(_ context.Context, regionID string) ([]models.County, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.County{}
	for _, c := range m.counties {
		if c.RegionID != regionID {
			continue
		}
		c.EquipmentCount = m.countEquipmentDirect(func(e models.Equipment) bool {
			return e.CountyID != nil && *e.CountyID == c.ID
		})
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemStore) CountyConditionCounts(_ context.Context, countyID string) ([]analysis.GroupCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int{}
	for _, e := range m.equipment {
		if e.CountyID != nil && *e.CountyID == countyID {
			counts[string(e.Condition)]++
		}
	}
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)
	out := make([]analysis.GroupCount, 0, len(values))
	for _, v := range values {
		out = append(out, analysis.GroupCount{Value: v, Count: counts[v]})
	}
	return out, nil
}

func (m *MemStore) SubCountyInventories(_ context.Context, countyID *string) ([]analysis.SubCountyInventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []analysis.SubCountyInventory{}
	for _, sc := range m.subCounties {
		if countyID != nil && *countyID != "" && sc.CountyID != *countyID {
			continue
		}
		county := m.counties[sc.CountyID]
		inv := analysis.SubCountyInventory{
			SubCountyID:   sc.ID,
			SubCountyName: sc.Name,
			CountyName:    county.Name,
			Types:         []models.EquipmentType{},
		}
		for _, id := range m.equipOrder {
			e, ok := m.equipment[id]
			if ok && e.SubCountyID != nil && *e.SubCountyID == sc.ID {
				inv.Types = append(inv.Types, e.Type)
			}
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CountyName != out[j].CountyName {
			return out[i].CountyName < out[j].CountyName
		}
		return out[i].SubCountyName < out[j].SubCountyName
	})
	return out, nil
}

func (m *MemStore) DistinctEquipmentTypes(_ context.Context) ([]models.EquipmentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[models.EquipmentType]bool{}
	for _, e := range m.equipment {
		seen[e.Type] = true
	}
	out := make([]models.EquipmentType, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
