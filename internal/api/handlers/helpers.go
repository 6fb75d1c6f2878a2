package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fueleu-compliance-service/internal/domain"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode response",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, msg string) {
	writeJSON(w, r, log, status, map[string]string{"error": msg})
}

// writeServiceError maps core error kinds onto HTTP statuses. Precondition
// and validation failures surface their message (it carries the offending
// ids and amounts); everything else is logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, log, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNoBaseline):
		writeError(w, r, log, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoPositiveBalance),
		errors.Is(err, domain.ErrExceedsAvailable),
		errors.Is(err, domain.ErrNegativePoolTotal),
		errors.Is(err, domain.ErrPoolValidationFailed):
		writeError(w, r, log, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotImplemented):
		writeError(w, r, log, http.StatusNotImplemented, err.Error())
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, r, log, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses a single JSON object into dst, rejecting unknown fields
// and trailing content.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}

	return nil
}
