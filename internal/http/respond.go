package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/auth"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// validation sentinels that map to 422
var validationErrs = []error{
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrInvalidCurrency,
	core.ErrInvalidKind,
	core.ErrInvalidScope,
	core.ErrEmptyCategory,
	core.ErrEmptyName,
	core.ErrNoteTooLong,
	core.ErrEmptyUnitLabel,
	core.ErrMissingTenant,
	core.ErrInvalidOccupancy,
	core.ErrReversedReading,
	core.ErrNegativeRate,
	core.ErrNegativeReading,
	core.ErrNegativeCharge,
	core.ErrInvalidMonth,
	core.ErrMissingUnitID,
	core.ErrInvalidStatus,
}

// writeDomainError maps service and store errors onto status codes:
// validation 422, missing 404, duplicate 409, bad credentials 401,
// anything else 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "internal error",
			"path", r.URL.Path,
			"error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}
