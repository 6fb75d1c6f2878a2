package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/ports"

	"github.com/shopspring/decimal"
)

// In-memory port implementations for tests and local experiments. They keep
// insertion order so FIFO semantics match the SQLite repositories.

type MemoryRouteRepository struct {
	mu     sync.Mutex
	Routes []domain.Route

	// LookupCalls counts FindByRouteIDAndYear invocations, letting tests
	// verify that balances are computed at most once per (ship, year).
	LookupCalls int
}

func NewMemoryRouteRepository(routes []domain.Route) *MemoryRouteRepository {
	return &MemoryRouteRepository{Routes: routes}
}

func (m *MemoryRouteRepository) List(_ context.Context, filter ports.RouteFilter) ([]domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Route, 0, len(m.Routes))
	for _, r := range m.Routes {
		if filter.VesselType != "" && r.VesselType != filter.VesselType {
			continue
		}
		if filter.FuelType != "" && r.FuelType != filter.FuelType {
			continue
		}
		if filter.Year != 0 && r.Year != filter.Year {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryRouteRepository) FindByRouteID(_ context.Context, routeID string) (domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.Routes {
		if r.RouteID == routeID {
			return r, nil
		}
	}
	return domain.Route{}, fmt.Errorf("find route %q: %w", routeID, domain.ErrNotFound)
}

func (m *MemoryRouteRepository) FindByRouteIDAndYear(_ context.Context, routeID string, year int) (domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LookupCalls++
	for _, r := range m.Routes {
		if r.RouteID == routeID && r.Year == year {
			return r, nil
		}
	}
	return domain.Route{}, fmt.Errorf("find route %q year %d: %w", routeID, year, domain.ErrNotFound)
}

func (m *MemoryRouteRepository) FindBaseline(_ context.Context) (domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.Routes {
		if r.IsBaseline {
			return r, nil
		}
	}
	return domain.Route{}, fmt.Errorf("find baseline route: %w", domain.ErrNotFound)
}

func (m *MemoryRouteRepository) SetBaseline(_ context.Context, routeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := -1
	for i, r := range m.Routes {
		if r.RouteID == routeID {
			found = i
			break
		}
	}
	if found < 0 {
		return fmt.Errorf("set baseline: route %q: %w", routeID, domain.ErrNotFound)
	}

	for i, r := range m.Routes {
		m.Routes[i] = r.WithBaseline(i == found)
	}
	return nil
}

type MemoryComplianceRepository struct {
	mu      sync.Mutex
	nextID  int64
	Records []domain.ComplianceRecord
}

func NewMemoryComplianceRepository() *MemoryComplianceRepository {
	return &MemoryComplianceRepository{}
}

func (m *MemoryComplianceRepository) FindByShipAndYear(_ context.Context, shipID string, year int) (domain.ComplianceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(shipID, year)
}

func (m *MemoryComplianceRepository) findLocked(shipID string, year int) (domain.ComplianceRecord, error) {
	for _, rec := range m.Records {
		if rec.ShipID == shipID && rec.Year == year {
			return rec, nil
		}
	}
	return domain.ComplianceRecord{}, fmt.Errorf(
		"find compliance record ship %q year %d: %w", shipID, year, domain.ErrNotFound,
	)
}

func (m *MemoryComplianceRepository) FindLatestByShip(_ context.Context, shipID string) (domain.ComplianceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		latest domain.ComplianceRecord
		found  bool
	)
	for _, rec := range m.Records {
		if rec.ShipID != shipID {
			continue
		}
		if !found || rec.Year > latest.Year {
			latest = rec
			found = true
		}
	}
	if !found {
		return domain.ComplianceRecord{}, fmt.Errorf("find latest compliance record ship %q: %w", shipID, domain.ErrNotFound)
	}
	return latest, nil
}

func (m *MemoryComplianceRepository) FindAll(_ context.Context) ([]domain.ComplianceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.ComplianceRecord, len(m.Records))
	copy(out, m.Records)
	return out, nil
}

func (m *MemoryComplianceRepository) Create(_ context.Context, rec domain.ComplianceRecord) (domain.ComplianceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Unique (ship, year): a losing concurrent insert gets the stored row.
	if existing, err := m.findLocked(rec.ShipID, rec.Year); err == nil {
		return existing, nil
	}

	m.nextID++
	rec.ID = m.nextID
	rec.CreatedAt = time.Now().UTC()
	m.Records = append(m.Records, rec)
	return rec, nil
}

type MemoryBankingRepository struct {
	mu      sync.Mutex
	nextID  int64
	clock   time.Time
	Entries []domain.BankEntry
}

func NewMemoryBankingRepository() *MemoryBankingRepository {
	return &MemoryBankingRepository{clock: time.Now().UTC()}
}

func (m *MemoryBankingRepository) Create(_ context.Context, entry domain.BankEntry) (domain.BankEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	// Strictly increasing timestamps keep FIFO order unambiguous even when
	// entries are created within the same wall-clock tick.
	m.clock = m.clock.Add(time.Millisecond)

	entry.ID = m.nextID
	entry.CreatedAt = m.clock
	m.Entries = append(m.Entries, entry)
	return entry, nil
}

func (m *MemoryBankingRepository) FindByShipAndYear(_ context.Context, shipID string, year int) ([]domain.BankEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.BankEntry{}
	for _, e := range m.Entries {
		if e.ShipID == shipID && e.Year == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryBankingRepository) FindAvailableByShip(_ context.Context, shipID string) ([]domain.BankEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.BankEntry{}
	for _, e := range m.Entries {
		if e.ShipID == shipID && e.Available().IsPositive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryBankingRepository) FindByShip(_ context.Context, shipID string) ([]domain.BankEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.BankEntry{}
	for _, e := range m.Entries {
		if e.ShipID == shipID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryBankingRepository) TotalAvailable(_ context.Context, shipID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, e := range m.Entries {
		if e.ShipID == shipID {
			total = total.Add(e.Available())
		}
	}
	return total, nil
}

func (m *MemoryBankingRepository) UpdateApplied(_ context.Context, entries []domain.BankEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, update := range entries {
		found := false
		for i, e := range m.Entries {
			if e.ID == update.ID {
				m.Entries[i].AppliedAmount = update.AppliedAmount
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("update bank entry %d: %w", update.ID, domain.ErrNotFound)
		}
	}
	return nil
}

type MemoryPoolingRepository struct {
	mu     sync.Mutex
	nextID int64
	Pools  []domain.Pool
}

func NewMemoryPoolingRepository() *MemoryPoolingRepository {
	return &MemoryPoolingRepository{}
}

func (m *MemoryPoolingRepository) CreatePool(_ context.Context, year int, members []domain.PoolMember) (domain.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	pool := domain.Pool{
		ID:        m.nextID,
		Year:      year,
		CreatedAt: time.Now().UTC(),
		Members:   make([]domain.PoolMember, len(members)),
	}
	for i, member := range members {
		member.ID = int64(i + 1)
		member.PoolID = pool.ID
		pool.Members[i] = member
	}

	m.Pools = append(m.Pools, pool)
	return pool, nil
}

func (m *MemoryPoolingRepository) FindPoolByID(_ context.Context, id int64) (domain.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.Pools {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Pool{}, fmt.Errorf("find pool %d: %w", id, domain.ErrNotFound)
}

func (m *MemoryPoolingRepository) FindPoolsByYear(_ context.Context, year int) ([]domain.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.Pool{}
	for _, p := range m.Pools {
		if p.Year == year {
			out = append(out, p)
		}
	}
	return out, nil
}
