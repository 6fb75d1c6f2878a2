package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fueleu-compliance-service/internal/api/dto"
	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/services"

	"go.uber.org/zap"
)

// ComplianceHandler exposes compliance balance computation and retrieval.
type ComplianceHandler struct {
	Svc *services.ComplianceService
	Log *zap.Logger
}

// shipYearParams extracts the shipId and year query parameters shared by the
// compliance endpoints.
func shipYearParams(r *http.Request) (string, int, string) {
	shipID := strings.TrimSpace(r.URL.Query().Get("shipId"))
	if shipID == "" {
		return "", 0, "shipId is required"
	}

	rawYear := r.URL.Query().Get("year")
	if rawYear == "" {
		return "", 0, "year is required"
	}

	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return "", 0, "year must be an integer"
	}

	return shipID, year, ""
}

func (h *ComplianceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	shipID, year, problem := shipYearParams(r)
	if problem != "" {
		writeError(w, r, h.Log, http.StatusBadRequest, problem)
		return
	}

	rec, err := h.Svc.GetBalance(r.Context(), shipID, year)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, toComplianceResponse(rec))
}

func (h *ComplianceHandler) GetAdjusted(w http.ResponseWriter, r *http.Request) {
	shipID, year, problem := shipYearParams(r)
	if problem != "" {
		writeError(w, r, h.Log, http.StatusBadRequest, problem)
		return
	}

	adjusted, err := h.Svc.GetAdjusted(r.Context(), shipID, year)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.AdjustedBalanceResponse{
		ShipID:   shipID,
		Year:     year,
		CBBefore: adjusted.CBBefore.InexactFloat64(),
		Applied:  adjusted.Applied.InexactFloat64(),
		CBAfter:  adjusted.CBAfter.InexactFloat64(),
	})
}

func (h *ComplianceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	records, err := h.Svc.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	res := dto.ListComplianceResponse{Records: make([]dto.ComplianceResponse, 0, len(records))}
	for _, rec := range records {
		res.Records = append(res.Records, toComplianceResponse(rec))
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func toComplianceResponse(rec domain.ComplianceRecord) dto.ComplianceResponse {
	return dto.ComplianceResponse{
		ID:        rec.ID,
		ShipID:    rec.ShipID,
		Year:      rec.Year,
		CBGco2eq:  rec.CBGco2eq.InexactFloat64(),
		CreatedAt: rec.CreatedAt,
	}
}
