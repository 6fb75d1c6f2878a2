package services

import (
	"context"
	"errors"
	"fmt"

	"fueleu-compliance-service/internal/config"
	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/platform/obs"
	"fueleu-compliance-service/internal/ports"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compliance balance before and after applying an adjustment amount.
type AdjustedBalance struct {
	CBBefore decimal.Decimal
	Applied  decimal.Decimal
	CBAfter  decimal.Decimal
}

// ComplianceService computes and caches compliance balances per (ship, year)
// and derives comparison and adjusted-balance views.
type ComplianceService struct {
	routes  ports.RouteRepository
	records ports.ComplianceRepository
	banking ports.BankingRepository
	cfg     *config.Config
}

func NewComplianceService(
	routes ports.RouteRepository,
	records ports.ComplianceRepository,
	banking ports.BankingRepository,
	cfg *config.Config,
) *ComplianceService {
	return &ComplianceService{routes: routes, records: records, banking: banking, cfg: cfg}
}

// GetBalance returns the stored record for (shipID, year), computing and
// persisting one on first request. Calling it twice returns the same stored
// value both times.
func (s *ComplianceService) GetBalance(ctx context.Context, shipID string, year int) (domain.ComplianceRecord, error) {
	rec, err := s.records.FindByShipAndYear(ctx, shipID, year)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.ComplianceRecord{}, fmt.Errorf("get compliance balance: %w", err)
	}

	return s.Compute(ctx, shipID, year)
}

// Compute derives the compliance balance from the route whose route id equals
// shipID for the requested year, rounds it to 2 decimal places and persists
// it. The storage layer's unique (ship_id, year) key makes concurrent first
// computations collapse to a single stored row.
func (s *ComplianceService) Compute(ctx context.Context, shipID string, year int) (domain.ComplianceRecord, error) {
	route, err := s.routes.FindByRouteIDAndYear(ctx, shipID, year)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ComplianceRecord{}, fmt.Errorf(
				"compute compliance balance: no route found for ship %q in year %d: %w",
				shipID, year, domain.ErrNotFound,
			)
		}
		return domain.ComplianceRecord{}, fmt.Errorf("compute compliance balance: %w", err)
	}

	target := s.cfg.TargetForYear(year)
	cb := route.ComplianceBalance(target, s.cfg.EnergyPerTonneMJ).Round(2)

	rec, err := s.records.Create(ctx, domain.ComplianceRecord{
		ShipID:   shipID,
		Year:     year,
		CBGco2eq: cb,
	})
	if err != nil {
		return domain.ComplianceRecord{}, fmt.Errorf("compute compliance balance: store record: %w", err)
	}

	obs.ComplianceComputations.Inc()
	return rec, nil
}

// GetAdjusted returns the ship-year balance together with the total banked
// amount already applied for the ship, summed over all ledger entries.
func (s *ComplianceService) GetAdjusted(ctx context.Context, shipID string, year int) (AdjustedBalance, error) {
	rec, err := s.GetBalance(ctx, shipID, year)
	if err != nil {
		return AdjustedBalance{}, fmt.Errorf("get adjusted balance: %w", err)
	}

	entries, err := s.banking.FindByShip(ctx, shipID)
	if err != nil {
		return AdjustedBalance{}, fmt.Errorf("get adjusted balance: list bank entries: %w", err)
	}

	applied := decimal.Zero
	for _, e := range entries {
		applied = applied.Add(e.AppliedAmount)
	}

	return AdjustedBalance{
		CBBefore: rec.CBGco2eq.Round(2),
		Applied:  applied.Round(2),
		CBAfter:  rec.CBGco2eq.Add(applied).Round(2),
	}, nil
}

// GetAll returns every stored compliance record.
func (s *ComplianceService) GetAll(ctx context.Context) ([]domain.ComplianceRecord, error) {
	recs, err := s.records.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all compliance records: %w", err)
	}
	return recs, nil
}

// GetComparison compares every route's intensity against the current
// baseline. Fails with domain.ErrNoBaseline when no route carries the flag.
func (s *ComplianceService) GetComparison(ctx context.Context) ([]domain.RouteComparison, error) {
	baseline, err := s.routes.FindBaseline(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get comparison: %w", domain.ErrNoBaseline)
		}
		return nil, fmt.Errorf("get comparison: %w", err)
	}

	if baseline.GHGIntensity.IsZero() {
		return nil, fmt.Errorf("get comparison: baseline route %q has zero intensity", baseline.RouteID)
	}

	routes, err := s.routes.List(ctx, ports.RouteFilter{})
	if err != nil {
		return nil, fmt.Errorf("get comparison: list routes: %w", err)
	}

	comparisons := make([]domain.RouteComparison, 0, len(routes))
	for _, route := range routes {
		target := s.cfg.TargetForYear(route.Year)

		percentDiff := route.GHGIntensity.
			Div(baseline.GHGIntensity).
			Sub(decimal.NewFromInt(1)).
			Mul(hundred).
			Round(2)

		comparisons = append(comparisons, domain.RouteComparison{
			RouteID:                route.RouteID,
			VesselType:             route.VesselType,
			FuelType:               route.FuelType,
			Year:                   route.Year,
			BaselineGHGIntensity:   baseline.GHGIntensity,
			ComparisonGHGIntensity: route.GHGIntensity,
			PercentDiff:            percentDiff,
			Compliant:              route.GHGIntensity.LessThanOrEqual(target),
			Target:                 target,
		})
	}

	return comparisons, nil
}
