package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

type settingsPayload struct {
	DefaultCurrency string `json:"default_currency"`
	ElectricityRate string `json:"electricity_rate"`
	WaterRate       string `json:"water_rate"`
}

// handleGetSettings returns the user's settings, falling back to the
// deployment defaults before the user has saved any.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context(), UserID(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, settingsPayload{
			DefaultCurrency: string(s.defaultCurrency),
			ElectricityRate: s.defaults.ElectricityRate.String(),
			WaterRate:       s.defaults.WaterRate.String(),
		})
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsPayload{
		DefaultCurrency: string(settings.DefaultCurrency),
		ElectricityRate: settings.ElectricityRate.String(),
		WaterRate:       settings.WaterRate.String(),
	})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if !decodeBody(w, r, &req) {
		return
	}

	currency := core.Currency(strings.ToUpper(strings.TrimSpace(req.DefaultCurrency)))
	if !currency.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "unsupported currency")
		return
	}
	elec, err := parseDecimalField(req.ElectricityRate, "electricity rate")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	water, err := parseDecimalField(req.WaterRate, "water rate")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if elec.IsNegative() || water.IsNegative() {
		writeError(w, http.StatusUnprocessableEntity, "rates cannot be negative")
		return
	}

	settings := store.Settings{
		UserID:          UserID(r.Context()),
		DefaultCurrency: currency,
		ElectricityRate: elec,
		WaterRate:       water,
	}
	if err := s.store.SaveSettings(r.Context(), settings); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
