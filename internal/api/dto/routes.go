package dto

type RouteResponse struct {
	ID              int64   `json:"id"`
	RouteID         string  `json:"routeId"`
	VesselType      string  `json:"vesselType"`
	FuelType        string  `json:"fuelType"`
	Year            int     `json:"year"`
	GHGIntensity    float64 `json:"ghgIntensity"`
	FuelConsumption float64 `json:"fuelConsumption"`
	Distance        float64 `json:"distance"`
	TotalEmissions  float64 `json:"totalEmissions"`
	IsBaseline      bool    `json:"isBaseline"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type ComparisonResponse struct {
	RouteID                string  `json:"routeId"`
	VesselType             string  `json:"vesselType"`
	FuelType               string  `json:"fuelType"`
	Year                   int     `json:"year"`
	BaselineGHGIntensity   float64 `json:"baselineGhgIntensity"`
	ComparisonGHGIntensity float64 `json:"comparisonGhgIntensity"`
	PercentDiff            float64 `json:"percentDiff"`
	Compliant              bool    `json:"compliant"`
	Target                 float64 `json:"target"`
}
