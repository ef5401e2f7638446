package http

import (
	"net/http"
	"strings"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/export"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/nepali"
)

type (
	transactionRequest struct {
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		Kind        string `json:"kind"`
		Category    string `json:"category"`
		SubCategory string `json:"sub_category"`
		Note        string `json:"note"`
		OccurredOn  string `json:"occurred_on"`
		Scope       string `json:"scope"`
	}

	transactionResponse struct {
		ID          string `json:"id"`
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		Kind        string `json:"kind"`
		Category    string `json:"category"`
		SubCategory string `json:"sub_category,omitempty"`
		Note        string `json:"note,omitempty"`
		OccurredOn  string `json:"occurred_on"`
		// Bikram Sambat rendering of OccurredOn; empty when the date
		// falls outside the conversion table.
		OccurredOnBS string `json:"occurred_on_bs,omitempty"`
		Scope        string `json:"scope"`
	}

	dayGroupResponse struct {
		Date    string                `json:"date"`
		DateBS  string                `json:"date_bs,omitempty"`
		Records []transactionResponse `json:"records"`
		Inflow  string                `json:"inflow"`
		Outflow string                `json:"outflow"`
		Net     string                `json:"net"`
	}

	dailyLedgerResponse struct {
		Currency string             `json:"currency"`
		Days     []dayGroupResponse `json:"days"`
		Inflow   string             `json:"inflow"`
		Outflow  string             `json:"outflow"`
		Net      string             `json:"net"`
	}
)

func (req transactionRequest) toRecord(id string) (core.FinancialRecord, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.FinancialRecord{}, err
	}
	day, err := core.ParseDate(req.OccurredOn)
	if err != nil {
		return core.FinancialRecord{}, err
	}
	scope := core.Scope(req.Scope)
	if req.Scope == "" {
		scope = core.Personal
	}
	return core.FinancialRecord{
		ID:          id,
		Amount:      amount,
		Currency:    core.Currency(strings.ToUpper(req.Currency)),
		Kind:        core.RecordKind(req.Kind),
		Category:    strings.TrimSpace(req.Category),
		SubCategory: strings.TrimSpace(req.SubCategory),
		Note:        strings.TrimSpace(req.Note),
		OccurredOn:  day,
		Scope:       scope,
	}, nil
}

func toTransactionResponse(r core.FinancialRecord) transactionResponse {
	bs := ""
	if nd, err := nepali.FromGregorian(r.OccurredOn.Time()); err == nil {
		bs = nd.String()
	}
	return transactionResponse{
		ID:           r.ID,
		Amount:       r.Amount.Decimal().StringFixed(2),
		Currency:     string(r.Currency),
		Kind:         string(r.Kind),
		Category:     r.Category,
		SubCategory:  r.SubCategory,
		Note:         r.Note,
		OccurredOn:   r.OccurredOn.Key(),
		OccurredOnBS: bs,
		Scope:        string(r.Scope),
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	record, err := req.toRecord("")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	created, err := s.ledger.CreateRecord(r.Context(), UserID(r.Context()), record)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.ListRecords(r.Context(), UserID(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]transactionResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toTransactionResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	record, err := s.ledger.GetRecord(r.Context(), UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(record))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	record, err := req.toRecord(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := s.ledger.UpdateRecord(r.Context(), UserID(r.Context()), record); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(record))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteRecord(r.Context(), UserID(r.Context()), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleDailyLedger returns day-grouped records, newest day first,
// with per-day and whole-range totals in one currency. Optional from
// and to bound the range by day-key.
func (s *Server) handleDailyLedger(w http.ResponseWriter, r *http.Request) {
	currency := s.defaultCurrency
	if c := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency"))); c != "" {
		currency = core.Currency(c)
	}
	if !currency.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "unsupported currency")
		return
	}

	from, to, ok := parseDayRange(w, r)
	if !ok {
		return
	}

	groups, err := s.ledger.DailyLedger(r.Context(), UserID(r.Context()), currency)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := dailyLedgerResponse{Currency: string(currency), Days: []dayGroupResponse{}}
	var rangeTotals core.Totals
	for _, g := range groups {
		if (from != "" && g.Key < from) || (to != "" && g.Key > to) {
			continue
		}

		bs := ""
		if d, err := core.ParseDate(g.Key); err == nil {
			if nd, nerr := nepali.FromGregorian(d.Time()); nerr == nil {
				bs = nd.String()
			}
		}

		recs := make([]transactionResponse, 0, len(g.Records))
		for _, rec := range g.Records {
			recs = append(recs, toTransactionResponse(rec))
		}
		resp.Days = append(resp.Days, dayGroupResponse{
			Date:    g.Key,
			DateBS:  bs,
			Records: recs,
			Inflow:  g.Totals.Inflow.Decimal().StringFixed(2),
			Outflow: g.Totals.Outflow.Decimal().StringFixed(2),
			Net:     g.Totals.Net().Decimal().StringFixed(2),
		})
		rangeTotals.Inflow.Paisa += g.Totals.Inflow.Paisa
		rangeTotals.Outflow.Paisa += g.Totals.Outflow.Paisa
	}

	resp.Inflow = rangeTotals.Inflow.Decimal().StringFixed(2)
	resp.Outflow = rangeTotals.Outflow.Decimal().StringFixed(2)
	resp.Net = rangeTotals.Net().Decimal().StringFixed(2)
	writeJSON(w, http.StatusOK, resp)
}

func parseDayRange(w http.ResponseWriter, r *http.Request) (from, to string, ok bool) {
	for _, q := range []struct {
		name string
		dst  *string
	}{{"from", &from}, {"to", &to}} {
		v := strings.TrimSpace(r.URL.Query().Get(q.name))
		if v == "" {
			continue
		}
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid "+q.name+" date")
			return "", "", false
		}
		*q.dst = d.Key()
	}
	return from, to, true
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.ListRecords(r.Context(), UserID(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	if err := export.WriteXLSX(w, records); err != nil {
		s.logger.ErrorContext(r.Context(), "export failed", "error", err)
	}
}
