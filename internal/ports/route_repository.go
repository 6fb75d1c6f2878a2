package ports

import (
	"context"

	"fueleu-compliance-service/internal/domain"
)

// Optional attribute filters for route listings. Zero values match everything.
type RouteFilter struct {
	VesselType string
	FuelType   string
	Year       int
}

// Port: a boundary for retrieving and flagging Route entities.
type RouteRepository interface {
	// List returns routes matching the filter, ordered by route id.
	List(ctx context.Context, filter RouteFilter) ([]domain.Route, error)

	// FindByRouteID returns the route with the given route id.
	// Returns domain.ErrNotFound if absent.
	FindByRouteID(ctx context.Context, routeID string) (domain.Route, error)

	// FindByRouteIDAndYear returns the route with the given route id and year.
	// Returns domain.ErrNotFound if absent.
	FindByRouteIDAndYear(ctx context.Context, routeID string, year int) (domain.Route, error)

	// FindBaseline returns the route currently flagged as baseline.
	// Returns domain.ErrNotFound if no route carries the flag.
	FindBaseline(ctx context.Context) (domain.Route, error)

	// SetBaseline atomically clears the baseline flag everywhere and sets it
	// on the route with the given route id. A reader must never observe zero
	// or two baselines. Returns domain.ErrNotFound if the route id is absent;
	// the stored flag set is unchanged in that case.
	SetBaseline(ctx context.Context, routeID string) error
}
