package domain

import "github.com/shopspring/decimal"

// gramsPerTonne converts megajoule-scaled grams of CO2eq into tonnes.
var gramsPerTonne = decimal.NewFromInt(1_000_000)

// Represents a ship-route for a given reporting year.
// Intensity is in gCO2eq/MJ, fuel consumption in tonnes. At most one route
// carries the baseline flag across the whole collection; the flag changes
// only through the atomic baseline swap at the storage layer.
type Route struct {
	ID              int64
	RouteID         string
	VesselType      string
	FuelType        string
	Year            int
	GHGIntensity    decimal.Decimal
	FuelConsumption decimal.Decimal
	Distance        decimal.Decimal
	TotalEmissions  decimal.Decimal
	IsBaseline      bool
}

// EnergyInScope returns the route's in-scope energy in MJ for the given
// energy content per tonne of fuel.
func (r Route) EnergyInScope(energyPerTonneMJ decimal.Decimal) decimal.Decimal {
	return r.FuelConsumption.Mul(energyPerTonneMJ)
}

// ComplianceBalance returns the route's compliance balance in tonnes CO2eq
// against a target intensity. Positive means surplus, negative means deficit.
// The result is unrounded; callers round at the storage boundary.
func (r Route) ComplianceBalance(targetIntensity, energyPerTonneMJ decimal.Decimal) decimal.Decimal {
	cbGrams := targetIntensity.Sub(r.GHGIntensity).Mul(r.EnergyInScope(energyPerTonneMJ))
	return cbGrams.Div(gramsPerTonne)
}

// WithBaseline returns a copy with the baseline flag set accordingly.
func (r Route) WithBaseline(baseline bool) Route {
	r.IsBaseline = baseline
	return r
}

// Per-route result of comparing intensity against the current baseline.
type RouteComparison struct {
	RouteID                string
	VesselType             string
	FuelType               string
	Year                   int
	BaselineGHGIntensity   decimal.Decimal
	ComparisonGHGIntensity decimal.Decimal
	PercentDiff            decimal.Decimal
	Compliant              bool
	Target                 decimal.Decimal
}
