package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Initialize the SQLite database schema. Decimal quantities are stored as
// TEXT and parsed by shopspring/decimal on scan, so balances survive
// round-trips without float drift.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id INTEGER PRIMARY KEY,
		route_id TEXT NOT NULL UNIQUE,
		vessel_type TEXT NOT NULL,
		fuel_type TEXT NOT NULL,
		year INTEGER NOT NULL,
		ghg_intensity TEXT NOT NULL,
		fuel_consumption TEXT NOT NULL,
		distance TEXT NOT NULL,
		total_emissions TEXT NOT NULL,
		is_baseline INTEGER NOT NULL DEFAULT 0
	);
	`

	createComplianceQuery := `
	CREATE TABLE IF NOT EXISTS ship_compliance (
		id INTEGER PRIMARY KEY,
		ship_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		cb_gco2eq TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (ship_id, year)
	);
	`

	createBankEntriesQuery := `
	CREATE TABLE IF NOT EXISTS bank_entries (
		id INTEGER PRIMARY KEY,
		ship_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		amount_gco2eq TEXT NOT NULL,
		applied_amount TEXT NOT NULL DEFAULT '0',
		created_at TIMESTAMP NOT NULL
	);
	`

	createPoolsQuery := `
	CREATE TABLE IF NOT EXISTS pools (
		id INTEGER PRIMARY KEY,
		year INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	`

	createPoolMembersQuery := `
	CREATE TABLE IF NOT EXISTS pool_members (
		id INTEGER PRIMARY KEY,
		pool_id INTEGER NOT NULL REFERENCES pools(id) ON DELETE CASCADE,
		ship_id TEXT NOT NULL,
		cb_before TEXT NOT NULL,
		cb_after TEXT NOT NULL
	);
	`

	statements := []string{
		createRoutesQuery,
		createComplianceQuery,
		createBankEntriesQuery,
		createPoolsQuery,
		createPoolMembersQuery,
		`CREATE INDEX IF NOT EXISTS idx_routes_year ON routes(year);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_baseline ON routes(is_baseline);`,
		`CREATE INDEX IF NOT EXISTS idx_bank_entries_ship ON bank_entries(ship_id);`,
		`CREATE INDEX IF NOT EXISTS idx_pool_members_pool ON pool_members(pool_id);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type RouteSeed struct {
	RouteID         string          `json:"route_id"`
	VesselType      string          `json:"vessel_type"`
	FuelType        string          `json:"fuel_type"`
	Year            int             `json:"year"`
	GHGIntensity    decimal.Decimal `json:"ghg_intensity"`
	FuelConsumption decimal.Decimal `json:"fuel_consumption"`
	Distance        decimal.Decimal `json:"distance"`
	TotalEmissions  decimal.Decimal `json:"total_emissions"`
	IsBaseline      bool            `json:"is_baseline"`
}

// Populate the routes table from a JSON seed file. Inserts are keyed on
// route_id and ignore conflicts, so restarts do not clobber a baseline flag
// moved after seeding.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var seeds []RouteSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("seed routes: parse json: %w", err)
	}

	for i, s := range seeds {
		if strings.TrimSpace(s.RouteID) == "" {
			return fmt.Errorf("seed routes: item at index %d: route_id cannot be empty", i+1)
		}
		if s.Year <= 0 {
			return fmt.Errorf("seed routes: route %q: invalid year %d", s.RouteID, s.Year)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed routes: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR IGNORE INTO routes (
		route_id,
		vessel_type,
		fuel_type,
		year,
		ghg_intensity,
		fuel_consumption,
		distance,
		total_emissions,
		is_baseline
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed routes: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range seeds {
		_, err := stmt.Exec(
			s.RouteID,
			s.VesselType,
			s.FuelType,
			s.Year,
			s.GHGIntensity.String(),
			s.FuelConsumption.String(),
			s.Distance.String(),
			s.TotalEmissions.String(),
			boolToInt(s.IsBaseline),
		)
		if err != nil {
			return fmt.Errorf("seed routes: insert route_id=%q: %w", s.RouteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed routes: commit tx: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
