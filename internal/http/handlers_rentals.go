package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/services"
)

type (
	unitRequest struct {
		UnitLabel  string `json:"unit_label"`
		TenantName string `json:"tenant_name"`
		BaseRent   string `json:"base_rent"`
		Currency   string `json:"currency"`
		StartDate  string `json:"start_date"`
		Occupancy  string `json:"occupancy"`
	}

	unitResponse struct {
		ID         string `json:"id"`
		UnitLabel  string `json:"unit_label"`
		TenantName string `json:"tenant_name,omitempty"`
		BaseRent   string `json:"base_rent"`
		Currency   string `json:"currency"`
		StartDate  string `json:"start_date"`
		Occupancy  string `json:"occupancy"`
	}

	meterReadingPayload struct {
		Previous    string `json:"previous"`
		Current     string `json:"current"`
		RatePerUnit string `json:"rate_per_unit,omitempty"`
	}

	chargePayload struct {
		Description string `json:"description"`
		Amount      string `json:"amount"`
	}

	billRequest struct {
		BillingMonth      string              `json:"billing_month"`
		Electricity       meterReadingPayload `json:"electricity"`
		Water             meterReadingPayload `json:"water"`
		AdditionalCharges []chargePayload     `json:"additional_charges,omitempty"`
	}

	billResponse struct {
		ID                string          `json:"id"`
		UnitID            string          `json:"unit_id"`
		BillingMonth      string          `json:"billing_month"`
		BaseRent          string          `json:"base_rent"`
		ElectricityUsage  string          `json:"electricity_usage"`
		ElectricityAmount string          `json:"electricity_amount"`
		WaterUsage        string          `json:"water_usage"`
		WaterAmount       string          `json:"water_amount"`
		AdditionalCharges []chargePayload `json:"additional_charges"`
		TotalAmount       string          `json:"total_amount"`
		Status            string          `json:"status"`
	}
)

func (req unitRequest) toUnit(id string) (core.RentalUnit, error) {
	rent, err := core.ParseAmount(req.BaseRent)
	if err != nil {
		return core.RentalUnit{}, err
	}
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.RentalUnit{}, err
	}
	occupancy := core.OccupancyStatus(req.Occupancy)
	if req.Occupancy == "" {
		occupancy = core.Vacant
	}
	return core.RentalUnit{
		ID:         id,
		UnitLabel:  strings.TrimSpace(req.UnitLabel),
		TenantName: strings.TrimSpace(req.TenantName),
		BaseRent:   rent,
		Currency:   core.Currency(strings.ToUpper(req.Currency)),
		StartDate:  start,
		Occupancy:  occupancy,
	}, nil
}

func toUnitResponse(u core.RentalUnit) unitResponse {
	return unitResponse{
		ID:         u.ID,
		UnitLabel:  u.UnitLabel,
		TenantName: u.TenantName,
		BaseRent:   u.BaseRent.Decimal().StringFixed(2),
		Currency:   string(u.Currency),
		StartDate:  u.StartDate.Key(),
		Occupancy:  string(u.Occupancy),
	}
}

func (p meterReadingPayload) toReading() (core.MeterReading, error) {
	var m core.MeterReading
	var err error
	if m.Previous, err = parseDecimalField(p.Previous, "previous reading"); err != nil {
		return core.MeterReading{}, err
	}
	if m.Current, err = parseDecimalField(p.Current, "current reading"); err != nil {
		return core.MeterReading{}, err
	}
	if strings.TrimSpace(p.RatePerUnit) != "" {
		if m.RatePerUnit, err = parseDecimalField(p.RatePerUnit, "rate per unit"); err != nil {
			return core.MeterReading{}, err
		}
	}
	return m, nil
}

func parseDecimalField(s, name string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed %s %q", core.ErrInvalidAmount, name, s)
	}
	return d, nil
}

func toBillResponse(b core.RentalBillingRecord) billResponse {
	charges := make([]chargePayload, 0, len(b.AdditionalCharges))
	for _, c := range b.AdditionalCharges {
		charges = append(charges, chargePayload{Description: c.Description, Amount: c.Amount.String()})
	}
	return billResponse{
		ID:                b.ID,
		UnitID:            b.UnitID,
		BillingMonth:      b.BillingMonth,
		BaseRent:          b.BaseRent.Decimal().StringFixed(2),
		ElectricityUsage:  b.Electricity.Usage().String(),
		ElectricityAmount: b.Electricity.Amount().String(),
		WaterUsage:        b.Water.Usage().String(),
		WaterAmount:       b.Water.Amount().String(),
		AdditionalCharges: charges,
		TotalAmount:       b.TotalAmount.Decimal().StringFixed(2),
		Status:            string(b.Status),
	}
}

func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := s.rentals.ListUnits(r.Context(), UserID(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]unitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, toUnitResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	unit, err := req.toUnit("")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	created, err := s.rentals.CreateUnit(r.Context(), UserID(r.Context()), unit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUnitResponse(created))
}

func (s *Server) handleUpdateUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	unit, err := req.toUnit(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.rentals.UpdateUnit(r.Context(), UserID(r.Context()), unit); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUnitResponse(unit))
}

func (s *Server) handleDeleteUnit(w http.ResponseWriter, r *http.Request) {
	if err := s.rentals.DeleteUnit(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.rentals.ListBills(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !decodeBody(w, r, &req) {
		return
	}

	elec, err := req.Electricity.toReading()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	water, err := req.Water.toReading()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	charges := make([]core.Charge, 0, len(req.AdditionalCharges))
	for _, c := range req.AdditionalCharges {
		amount, err := parseDecimalField(c.Amount, "charge amount")
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		charges = append(charges, core.Charge{Description: c.Description, Amount: amount})
	}

	bill, err := s.rentals.CreateBill(r.Context(), UserID(r.Context()), services.BillInput{
		UnitID:            r.PathValue("id"),
		BillingMonth:      req.BillingMonth,
		Electricity:       elec,
		Water:             water,
		AdditionalCharges: charges,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillResponse(bill))
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	id := r.PathValue("id")
	if err := s.rentals.MarkPaid(r.Context(), userID, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	bill, err := s.rentals.GetBill(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(bill))
}
