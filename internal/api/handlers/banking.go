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

// BankingHandler exposes the surplus-banking ledger.
type BankingHandler struct {
	Svc *services.BankingService
	Log *zap.Logger
}

func (h *BankingHandler) Records(w http.ResponseWriter, r *http.Request) {
	shipID := strings.TrimSpace(r.URL.Query().Get("shipId"))
	if shipID == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "shipId is required")
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "year must be an integer")
			return
		}
		year = parsed
	}

	entries, err := h.Svc.Records(r.Context(), shipID, year)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	res := make([]dto.BankEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toBankEntryResponse(e))
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func (h *BankingHandler) Bank(w http.ResponseWriter, r *http.Request) {
	var req dto.BankRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.ShipID) == "" || req.Year == 0 || req.Amount.IsZero() {
		writeError(w, r, h.Log, http.StatusBadRequest, "shipId, year, and amount are required")
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, r, h.Log, http.StatusBadRequest, "amount must be positive")
		return
	}

	entry, err := h.Svc.BankSurplus(r.Context(), req.ShipID, req.Year, req.Amount)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusCreated, dto.BankResponse{
		Message: "Surplus banked successfully",
		Entry:   toBankEntryResponse(entry),
	})
}

func (h *BankingHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.ShipID) == "" || req.Amount.IsZero() {
		writeError(w, r, h.Log, http.StatusBadRequest, "shipId and amount are required")
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, r, h.Log, http.StatusBadRequest, "amount must be positive")
		return
	}

	result, err := h.Svc.ApplyBanked(r.Context(), req.ShipID, req.Amount)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.ApplyResponse{
		Message:  "Banked surplus applied successfully",
		CBBefore: result.CBBefore.InexactFloat64(),
		Applied:  result.Applied.InexactFloat64(),
		CBAfter:  result.CBAfter.InexactFloat64(),
	})
}

func (h *BankingHandler) Available(w http.ResponseWriter, r *http.Request) {
	shipID := strings.TrimSpace(r.URL.Query().Get("shipId"))
	if shipID == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "shipId is required")
		return
	}

	total, err := h.Svc.TotalAvailable(r.Context(), shipID)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, dto.AvailableResponse{
		ShipID:         shipID,
		TotalAvailable: total.InexactFloat64(),
	})
}

// Reverse is the unimplemented ledger-reversal extension point.
func (h *BankingHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID int64 `json:"entryId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Svc.ReverseEntry(r.Context(), req.EntryID); err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, map[string]string{"message": "entry reversed"})
}

func toBankEntryResponse(e domain.BankEntry) dto.BankEntryResponse {
	return dto.BankEntryResponse{
		ID:            e.ID,
		ShipID:        e.ShipID,
		Year:          e.Year,
		AmountGco2eq:  e.AmountGco2eq.InexactFloat64(),
		AppliedAmount: e.AppliedAmount.InexactFloat64(),
		CreatedAt:     e.CreatedAt,
	}
}
