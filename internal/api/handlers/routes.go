package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fueleu-compliance-service/internal/api/dto"
	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/ports"
	"fueleu-compliance-service/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RouteHandler exposes the route catalog, baseline management and the
// baseline comparison report.
type RouteHandler struct {
	Routes     *services.RouteService
	Compliance *services.ComplianceService
	Log        *zap.Logger
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := ports.RouteFilter{
		VesselType: strings.TrimSpace(r.URL.Query().Get("vesselType")),
		FuelType:   strings.TrimSpace(r.URL.Query().Get("fuelType")),
	}

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "year must be an integer")
			return
		}
		filter.Year = year
	}

	routes, err := h.Routes.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, route := range routes {
		res.Routes = append(res.Routes, toRouteResponse(route))
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func (h *RouteHandler) SetBaseline(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if strings.TrimSpace(routeID) == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "routeId is required")
		return
	}

	if err := h.Routes.SetBaseline(r.Context(), routeID); err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, map[string]string{
		"message": "Baseline set to route " + routeID,
	})
}

func (h *RouteHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	comparisons, err := h.Compliance.GetComparison(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	res := make([]dto.ComparisonResponse, 0, len(comparisons))
	for _, c := range comparisons {
		res = append(res, dto.ComparisonResponse{
			RouteID:                c.RouteID,
			VesselType:             c.VesselType,
			FuelType:               c.FuelType,
			Year:                   c.Year,
			BaselineGHGIntensity:   c.BaselineGHGIntensity.InexactFloat64(),
			ComparisonGHGIntensity: c.ComparisonGHGIntensity.InexactFloat64(),
			PercentDiff:            c.PercentDiff.InexactFloat64(),
			Compliant:              c.Compliant,
			Target:                 c.Target.InexactFloat64(),
		})
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func toRouteResponse(route domain.Route) dto.RouteResponse {
	return dto.RouteResponse{
		ID:              route.ID,
		RouteID:         route.RouteID,
		VesselType:      route.VesselType,
		FuelType:        route.FuelType,
		Year:            route.Year,
		GHGIntensity:    route.GHGIntensity.InexactFloat64(),
		FuelConsumption: route.FuelConsumption.InexactFloat64(),
		Distance:        route.Distance.InexactFloat64(),
		TotalEmissions:  route.TotalEmissions.InexactFloat64(),
		IsBaseline:      route.IsBaseline,
	}
}
