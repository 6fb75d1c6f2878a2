package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fueleu-compliance-service/internal/api/dto"
	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PoolingHandler exposes pool creation and retrieval.
type PoolingHandler struct {
	Svc *services.PoolingService
	Log *zap.Logger
}

func (h *PoolingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePoolRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, err.Error())
		return
	}

	if req.Year == 0 || req.Members == nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "year and members array are required")
		return
	}
	if len(req.Members) == 0 {
		writeError(w, r, h.Log, http.StatusBadRequest, "members array cannot be empty")
		return
	}

	members := make([]services.PoolMemberInput, 0, len(req.Members))
	for _, m := range req.Members {
		if strings.TrimSpace(m.ShipID) == "" || m.CBBefore == nil {
			writeError(w, r, h.Log, http.StatusBadRequest, "each member must have shipId and cbBefore")
			return
		}
		members = append(members, services.PoolMemberInput{ShipID: m.ShipID, CBBefore: *m.CBBefore})
	}

	pool, err := h.Svc.CreatePool(r.Context(), req.Year, members)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusCreated, dto.CreatePoolResponse{
		Message: "Pool created successfully",
		Pool:    toPoolResponse(pool),
	})
}

func (h *PoolingHandler) ListByYear(w http.ResponseWriter, r *http.Request) {
	rawYear := r.URL.Query().Get("year")
	if rawYear == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "year is required")
		return
	}

	year, err := strconv.Atoi(rawYear)
	if err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "year must be an integer")
		return
	}

	pools, err := h.Svc.PoolsByYear(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	res := make([]dto.PoolResponse, 0, len(pools))
	for _, p := range pools {
		res = append(res, toPoolResponse(p))
	}

	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func (h *PoolingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "pool id must be an integer")
		return
	}

	pool, err := h.Svc.PoolByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, r, h.Log, http.StatusOK, toPoolResponse(pool))
}

func toPoolResponse(p domain.Pool) dto.PoolResponse {
	members := make([]dto.PoolMemberResponse, 0, len(p.Members))
	for _, m := range p.Members {
		members = append(members, dto.PoolMemberResponse{
			ID:       m.ID,
			PoolID:   m.PoolID,
			ShipID:   m.ShipID,
			CBBefore: m.CBBefore.InexactFloat64(),
			CBAfter:  m.CBAfter.InexactFloat64(),
		})
	}

	return dto.PoolResponse{
		ID:            p.ID,
		Year:          p.Year,
		TotalCBBefore: p.TotalCBBefore().InexactFloat64(),
		TotalCBAfter:  p.TotalCBAfter().InexactFloat64(),
		Members:       members,
		CreatedAt:     p.CreatedAt,
	}
}
