package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
)

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the rejection taxonomy to stable HTTP status codes.
// Conflict (409) stays distinguishable from VoucherInvalid (422) so the UI
// can prompt a date change vs. a different voucher.
func writeError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("Unclassified error reached the API boundary", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: string(domain.ErrStorage)})
		return
	}

	status := http.StatusInternalServerError
	switch de.Kind {
	case domain.ErrInvalidInput:
		status = http.StatusBadRequest
	case domain.ErrNotFound:
		status = http.StatusNotFound
	case domain.ErrConflict:
		status = http.StatusConflict
	case domain.ErrVoucherInvalid, domain.ErrInvalidResource:
		status = http.StatusUnprocessableEntity
	case domain.ErrUnauthorized:
		status = http.StatusForbidden
	case domain.ErrStorage:
		logger.Error("Storage error", "error", de)
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, errorResponse{Error: de.Message, Kind: string(de.Kind), Reason: de.Reason})
}
