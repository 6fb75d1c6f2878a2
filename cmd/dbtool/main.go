package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"fueleu-compliance-service/internal/adapters/repositories"
	"fueleu-compliance-service/internal/config"
	"fueleu-compliance-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool provisions a Postgres instance with the service schema and route
// seed data. The server itself runs against SQLite; this tool targets shared
// environments where Postgres backs the same repositories' tables.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.OpenPostgres(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	log.Println("Initializing database schema...")
	if err := initSchemaPostgres(pg); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/routes.json")
	log.Println("Seeding routes...")
	if err := seedRoutesPostgres(pg, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

func initSchemaPostgres(pg *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS routes (
			id BIGSERIAL PRIMARY KEY,
			route_id VARCHAR(50) UNIQUE NOT NULL,
			vessel_type VARCHAR(100) NOT NULL,
			fuel_type VARCHAR(50) NOT NULL,
			year INTEGER NOT NULL,
			ghg_intensity DECIMAL(10, 4) NOT NULL,
			fuel_consumption DECIMAL(12, 2) NOT NULL,
			distance DECIMAL(12, 2) NOT NULL,
			total_emissions DECIMAL(12, 2) NOT NULL,
			is_baseline BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS ship_compliance (
			id BIGSERIAL PRIMARY KEY,
			ship_id VARCHAR(50) NOT NULL,
			year INTEGER NOT NULL,
			cb_gco2eq DECIMAL(15, 2) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (ship_id, year)
		);`,
		`CREATE TABLE IF NOT EXISTS bank_entries (
			id BIGSERIAL PRIMARY KEY,
			ship_id VARCHAR(50) NOT NULL,
			year INTEGER NOT NULL,
			amount_gco2eq DECIMAL(15, 2) NOT NULL,
			applied_amount DECIMAL(15, 2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS pools (
			id BIGSERIAL PRIMARY KEY,
			year INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS pool_members (
			id BIGSERIAL PRIMARY KEY,
			pool_id BIGINT NOT NULL REFERENCES pools(id) ON DELETE CASCADE,
			ship_id VARCHAR(50) NOT NULL,
			cb_before DECIMAL(15, 2) NOT NULL,
			cb_after DECIMAL(15, 2) NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_year ON routes(year);`,
		`CREATE INDEX IF NOT EXISTS idx_routes_baseline ON routes(is_baseline);`,
		`CREATE INDEX IF NOT EXISTS idx_bank_entries_ship ON bank_entries(ship_id);`,
		`CREATE INDEX IF NOT EXISTS idx_pool_members_pool ON pool_members(pool_id);`,
	}

	tx, err := pg.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

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

func seedRoutesPostgres(pg *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var seeds []repositories.RouteSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("seed routes: parse json: %w", err)
	}

	tx, err := pg.Begin()
	if err != nil {
		return fmt.Errorf("seed routes: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO routes (
		route_id, vessel_type, fuel_type, year,
		ghg_intensity, fuel_consumption, distance,
		total_emissions, is_baseline
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (route_id) DO NOTHING;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed routes: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range seeds {
		_, err := stmt.Exec(
			s.RouteID, s.VesselType, s.FuelType, s.Year,
			s.GHGIntensity.String(), s.FuelConsumption.String(), s.Distance.String(),
			s.TotalEmissions.String(), s.IsBaseline,
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
