package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/ports"

	"github.com/shopspring/decimal"
)

// SQLite-backed implementation of the RouteRepository port.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

const routeColumns = `
	id,
	route_id,
	vessel_type,
	fuel_type,
	year,
	ghg_intensity,
	fuel_consumption,
	distance,
	total_emissions,
	is_baseline
`

func scanRoute(row interface{ Scan(dest ...any) error }) (domain.Route, error) {
	var (
		r          domain.Route
		ghg        string
		fuel       string
		dist       string
		emissions  string
		isBaseline int
	)

	err := row.Scan(
		&r.ID, &r.RouteID, &r.VesselType, &r.FuelType, &r.Year,
		&ghg, &fuel, &dist, &emissions, &isBaseline,
	)
	if err != nil {
		return domain.Route{}, err
	}

	if r.GHGIntensity, err = decimal.NewFromString(ghg); err != nil {
		return domain.Route{}, fmt.Errorf("parse ghg_intensity %q: %w", ghg, err)
	}
	if r.FuelConsumption, err = decimal.NewFromString(fuel); err != nil {
		return domain.Route{}, fmt.Errorf("parse fuel_consumption %q: %w", fuel, err)
	}
	if r.Distance, err = decimal.NewFromString(dist); err != nil {
		return domain.Route{}, fmt.Errorf("parse distance %q: %w", dist, err)
	}
	if r.TotalEmissions, err = decimal.NewFromString(emissions); err != nil {
		return domain.Route{}, fmt.Errorf("parse total_emissions %q: %w", emissions, err)
	}
	r.IsBaseline = isBaseline != 0

	return r, nil
}

func (s *SqliteRouteRepository) List(ctx context.Context, filter ports.RouteFilter) ([]domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE 1=1`
	args := []any{}

	if filter.VesselType != "" {
		query += ` AND vessel_type = ?`
		args = append(args, filter.VesselType)
	}
	if filter.FuelType != "" {
		query += ` AND fuel_type = ?`
		args = append(args, filter.FuelType)
	}
	if filter.Year != 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	query += ` ORDER BY route_id, year;`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0, 16)
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		routes = append(routes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, nil
}

func (s *SqliteRouteRepository) FindByRouteID(ctx context.Context, routeID string) (domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE route_id = ? LIMIT 1;`

	r, err := scanRoute(s.DB.QueryRowContext(ctx, query, routeID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, fmt.Errorf("find route %q: %w", routeID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Route{}, fmt.Errorf("find route %q: %w", routeID, err)
	}

	return r, nil
}

func (s *SqliteRouteRepository) FindByRouteIDAndYear(ctx context.Context, routeID string, year int) (domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE route_id = ? AND year = ? LIMIT 1;`

	r, err := scanRoute(s.DB.QueryRowContext(ctx, query, routeID, year))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, fmt.Errorf("find route %q year %d: %w", routeID, year, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Route{}, fmt.Errorf("find route %q year %d: %w", routeID, year, err)
	}

	return r, nil
}

func (s *SqliteRouteRepository) FindBaseline(ctx context.Context) (domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE is_baseline = 1 LIMIT 1;`

	r, err := scanRoute(s.DB.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, fmt.Errorf("find baseline route: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Route{}, fmt.Errorf("find baseline route: %w", err)
	}

	return r, nil
}

// SetBaseline clears every baseline flag and sets the new one inside a single
// transaction. If the route id does not exist the transaction rolls back and
// the stored flags are untouched.
func (s *SqliteRouteRepository) SetBaseline(ctx context.Context, routeID string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set baseline: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE routes SET is_baseline = 0 WHERE is_baseline = 1;`); err != nil {
		return fmt.Errorf("set baseline: clear flags: %w", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE routes SET is_baseline = 1 WHERE route_id = ?;`, routeID)
	if err != nil {
		return fmt.Errorf("set baseline: set flag: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set baseline: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set baseline: route %q: %w", routeID, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set baseline: commit tx: %w", err)
	}

	return nil
}
