package services

import (
	"context"
	"fmt"

	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/ports"
)

// RouteService exposes the read-only route catalog and baseline management.
type RouteService struct {
	routes ports.RouteRepository
}

func NewRouteService(routes ports.RouteRepository) *RouteService {
	return &RouteService{routes: routes}
}

// List returns routes matching the optional attribute filters.
func (s *RouteService) List(ctx context.Context, filter ports.RouteFilter) ([]domain.Route, error) {
	routes, err := s.routes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// SetBaseline moves the baseline flag to the route with the given route id.
// The clear-and-set is a single storage transaction; on domain.ErrNotFound
// the stored flag set is unchanged.
func (s *RouteService) SetBaseline(ctx context.Context, routeID string) error {
	if err := s.routes.SetBaseline(ctx, routeID); err != nil {
		return fmt.Errorf("set baseline %q: %w", routeID, err)
	}
	return nil
}
