package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fueleu-compliance-service/internal/ports"
)

const seedFixture = `[
  {
    "route_id": "R001",
    "vessel_type": "Container",
    "fuel_type": "HFO",
    "year": 2024,
    "ghg_intensity": 91.0,
    "fuel_consumption": 5000,
    "distance": 12000,
    "total_emissions": 4500,
    "is_baseline": true
  },
  {
    "route_id": "R002",
    "vessel_type": "BulkCarrier",
    "fuel_type": "LNG",
    "year": 2024,
    "ghg_intensity": 88.0,
    "fuel_consumption": 4800,
    "distance": 11500,
    "total_emissions": 4200,
    "is_baseline": false
  }
]`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestSeedFromJSON(t *testing.T) {
	store := newTestDB(t)
	path := writeSeedFile(t, seedFixture)

	if err := SeedFromJSON(store, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSqliteRouteRepository(store)
	routes, err := repo.List(context.Background(), ports.RouteFilter{})
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("seeded %d routes, want 2", len(routes))
	}
	if !routes[0].GHGIntensity.Equal(dec(t, "91")) {
		t.Fatalf("R001 intensity = %s, want 91", routes[0].GHGIntensity)
	}
}

func TestSeedFromJSONPreservesMovedBaseline(t *testing.T) {
	store := newTestDB(t)
	path := writeSeedFile(t, seedFixture)
	ctx := context.Background()

	if err := SeedFromJSON(store, path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSqliteRouteRepository(store)
	if err := repo.SetBaseline(ctx, "R002"); err != nil {
		t.Fatalf("set baseline: %v", err)
	}

	// A restart re-runs the seed; existing rows are ignored, so the moved
	// flag survives.
	if err := SeedFromJSON(store, path); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	baseline, err := repo.FindBaseline(ctx)
	if err != nil {
		t.Fatalf("find baseline: %v", err)
	}
	if baseline.RouteID != "R002" {
		t.Fatalf("baseline = %q, want R002 after re-seed", baseline.RouteID)
	}
}

func TestSeedFromJSONRejectsBadSeeds(t *testing.T) {
	store := newTestDB(t)

	cases := map[string]string{
		"empty route id": `[{"route_id": " ", "vessel_type": "x", "fuel_type": "y", "year": 2024,
			"ghg_intensity": 1, "fuel_consumption": 1, "distance": 1, "total_emissions": 1, "is_baseline": false}]`,
		"invalid year": `[{"route_id": "R009", "vessel_type": "x", "fuel_type": "y", "year": 0,
			"ghg_intensity": 1, "fuel_consumption": 1, "distance": 1, "total_emissions": 1, "is_baseline": false}]`,
		"not json": `{{`,
	}

	for name, content := range cases {
		path := writeSeedFile(t, content)
		if err := SeedFromJSON(store, path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
