package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/ports"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

// newTestDB opens an in-memory database with the full schema. A single
// connection keeps every statement on the same in-memory instance.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	store, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = store.Close() })

	if err := InitSchema(store); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return store
}

func insertRoute(t *testing.T, store *sql.DB, r domain.Route) {
	t.Helper()

	_, err := store.Exec(`
	INSERT INTO routes (
		route_id, vessel_type, fuel_type, year,
		ghg_intensity, fuel_consumption, distance, total_emissions, is_baseline
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		r.RouteID, r.VesselType, r.FuelType, r.Year,
		r.GHGIntensity.String(), r.FuelConsumption.String(),
		r.Distance.String(), r.TotalEmissions.String(), boolToInt(r.IsBaseline),
	)
	if err != nil {
		t.Fatalf("insert route %q: %v", r.RouteID, err)
	}
}

func TestSqliteRouteRepositoryRoundTrip(t *testing.T) {
	store := newTestDB(t)
	repo := NewSqliteRouteRepository(store)
	ctx := context.Background()

	insertRoute(t, store, domain.Route{
		RouteID: "R001", VesselType: "Container", FuelType: "HFO", Year: 2024,
		GHGIntensity: dec(t, "91.0"), FuelConsumption: dec(t, "5000"),
		Distance: dec(t, "12000"), TotalEmissions: dec(t, "4500"), IsBaseline: true,
	})
	insertRoute(t, store, domain.Route{
		RouteID: "R002", VesselType: "BulkCarrier", FuelType: "LNG", Year: 2024,
		GHGIntensity: dec(t, "88.0"), FuelConsumption: dec(t, "4800"),
		Distance: dec(t, "11500"), TotalEmissions: dec(t, "4200"),
	})

	route, err := repo.FindByRouteIDAndYear(ctx, "R001", 2024)
	if err != nil {
		t.Fatalf("find route: %v", err)
	}
	if !route.GHGIntensity.Equal(dec(t, "91.0")) || !route.IsBaseline {
		t.Fatalf("round-trip mismatch: %+v", route)
	}

	filtered, err := repo.List(ctx, ports.RouteFilter{FuelType: "LNG"})
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	if len(filtered) != 1 || filtered[0].RouteID != "R002" {
		t.Fatalf("filtered list = %+v, want only R002", filtered)
	}

	if _, err := repo.FindByRouteIDAndYear(ctx, "R001", 2030); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing year, got %v", err)
	}
}

func TestSqliteRouteRepositorySetBaselineSwap(t *testing.T) {
	store := newTestDB(t)
	repo := NewSqliteRouteRepository(store)
	ctx := context.Background()

	insertRoute(t, store, domain.Route{RouteID: "R001", VesselType: "Container", FuelType: "HFO", Year: 2024, IsBaseline: true})
	insertRoute(t, store, domain.Route{RouteID: "R002", VesselType: "Tanker", FuelType: "MGO", Year: 2024})

	if err := repo.SetBaseline(ctx, "R002"); err != nil {
		t.Fatalf("set baseline: %v", err)
	}

	baseline, err := repo.FindBaseline(ctx)
	if err != nil {
		t.Fatalf("find baseline: %v", err)
	}
	if baseline.RouteID != "R002" {
		t.Fatalf("baseline = %q, want R002", baseline.RouteID)
	}

	routes, err := repo.List(ctx, ports.RouteFilter{})
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	flagged := 0
	for _, r := range routes {
		if r.IsBaseline {
			flagged++
		}
	}
	if flagged != 1 {
		t.Fatalf("%d routes flagged as baseline, want 1", flagged)
	}
}

func TestSqliteRouteRepositorySetBaselineUnknownRoute(t *testing.T) {
	store := newTestDB(t)
	repo := NewSqliteRouteRepository(store)
	ctx := context.Background()

	insertRoute(t, store, domain.Route{RouteID: "R001", VesselType: "Container", FuelType: "HFO", Year: 2024, IsBaseline: true})

	if err := repo.SetBaseline(ctx, "NOPE"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The failed swap must roll back, leaving the old flag in place.
	baseline, err := repo.FindBaseline(ctx)
	if err != nil {
		t.Fatalf("find baseline after failed swap: %v", err)
	}
	if baseline.RouteID != "R001" {
		t.Fatalf("baseline = %q, want R001", baseline.RouteID)
	}
}

func TestSqliteComplianceRepositoryCreateIsIdempotent(t *testing.T) {
	store := newTestDB(t)
	repo := NewSqliteComplianceRepository(store)
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.ComplianceRecord{ShipID: "R001", Year: 2024, CBGco2eq: dec(t, "-340.96")})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}

	// A conflicting insert loses and receives the stored row.
	second, err := repo.Create(ctx, domain.ComplianceRecord{ShipID: "R001", Year: 2024, CBGco2eq: dec(t, "0")})
	if err != nil {
		t.Fatalf("conflicting create: %v", err)
	}
	if second.ID != first.ID || !second.CBGco2eq.Equal(dec(t, "-340.96")) {
		t.Fatalf("conflicting create returned %+v, want the stored row %+v", second, first)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("stored %d records, want 1", len(all))
	}
}

func TestSqliteComplianceRepositoryFindLatestByShip(t *testing.T) {
	store := newTestDB(t)
	repo := NewSqliteComplianceRepository(store)
	ctx := context.Background()

	for _, rec := range []domain.ComplianceRecord{
		{ShipID: "R001", Year: 2023, CBGco2eq: dec(t, "-100")},
		{ShipID: "R001", Year: 2025, CBGco2eq: dec(t, "-340.96")},
		{ShipID: "R001", Year: 2024, CBGco2eq: dec(t, "-200")},
	} {
		if _, err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("create record: %v", err)
		}
	}

	latest, err := repo.FindLatestByShip(ctx, "R001")
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if latest.Year != 2025 || !latest.CBGco2eq.Equal(dec(t, "-340.96")) {
		t.Fatalf("latest = %+v, want the 2025 record", latest)
	}

	if _, err := repo.FindLatestByShip(ctx, "GHOST"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSqliteBankingRepositoryFIFO(t *testing.T) {
	store := newTestDB(t)
	repo := NewSqliteBankingRepository(store)
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.BankEntry{ShipID: "R002", Year: 2024, AmountGco2eq: dec(t, "60"), AppliedAmount: decimal.Zero})
	if err != nil {
		t.Fatalf("create first entry: %v", err)
	}
	second, err := repo.Create(ctx, domain.BankEntry{ShipID: "R002", Year: 2025, AmountGco2eq: dec(t, "40"), AppliedAmount: decimal.Zero})
	if err != nil {
		t.Fatalf("create second entry: %v", err)
	}

	open, err := repo.FindAvailableByShip(ctx, "R002")
	if err != nil {
		t.Fatalf("find available: %v", err)
	}
	if len(open) != 2 || open[0].ID != first.ID || open[1].ID != second.ID {
		t.Fatalf("available order = %+v, want oldest first", open)
	}

	// Deplete the first entry; the available view must drop it.
	depleted, err := first.Apply(dec(t, "60"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := repo.UpdateApplied(ctx, []domain.BankEntry{depleted}); err != nil {
		t.Fatalf("update applied: %v", err)
	}

	open, err = repo.FindAvailableByShip(ctx, "R002")
	if err != nil {
		t.Fatalf("find available: %v", err)
	}
	if len(open) != 1 || open[0].ID != second.ID {
		t.Fatalf("available after depletion = %+v, want only the second entry", open)
	}

	total, err := repo.TotalAvailable(ctx, "R002")
	if err != nil {
		t.Fatalf("total available: %v", err)
	}
	if !total.Equal(dec(t, "40")) {
		t.Fatalf("total available = %s, want 40", total)
	}

	byYear, err := repo.FindByShipAndYear(ctx, "R002", 2024)
	if err != nil {
		t.Fatalf("find by year: %v", err)
	}
	if len(byYear) != 1 || !byYear[0].AppliedAmount.Equal(dec(t, "60")) {
		t.Fatalf("2024 entries = %+v, want the depleted entry", byYear)
	}
}

func TestSqliteBankingRepositoryUpdateAppliedUnknownEntry(t *testing.T) {
	store := newTestDB(t)
	repo := NewSqliteBankingRepository(store)

	err := repo.UpdateApplied(context.Background(), []domain.BankEntry{
		{ID: 123, AppliedAmount: dec(t, "1")},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSqlitePoolingRepositoryRoundTrip(t *testing.T) {
	store := newTestDB(t)
	repo := NewSqlitePoolingRepository(store)
	ctx := context.Background()

	created, err := repo.CreatePool(ctx, 2025, []domain.PoolMember{
		{ShipID: "A", CBBefore: dec(t, "100"), CBAfter: dec(t, "30")},
		{ShipID: "B", CBBefore: dec(t, "-40"), CBAfter: decimal.Zero},
		{ShipID: "C", CBBefore: dec(t, "-30"), CBAfter: decimal.Zero},
	})
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}

	found, err := repo.FindPoolByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find pool: %v", err)
	}
	if len(found.Members) != 3 {
		t.Fatalf("got %d members, want 3", len(found.Members))
	}
	if found.Members[0].ShipID != "A" || !found.Members[0].CBAfter.Equal(dec(t, "30")) {
		t.Fatalf("first member = %+v, want ship A with cbAfter 30", found.Members[0])
	}
	if !found.TotalCBBefore().Equal(found.TotalCBAfter()) {
		t.Fatalf("totals diverge: before %s, after %s", found.TotalCBBefore(), found.TotalCBAfter())
	}

	byYear, err := repo.FindPoolsByYear(ctx, 2025)
	if err != nil {
		t.Fatalf("find pools by year: %v", err)
	}
	if len(byYear) != 1 || byYear[0].ID != created.ID {
		t.Fatalf("pools for 2025 = %+v, want the created pool", byYear)
	}

	if _, err := repo.FindPoolByID(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
