package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/auth"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/services"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := memory.New()
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	return NewServer(":0", Deps{
		Ledger:          services.NewLedgerService(st, nil, nil),
		Savings:         services.NewSavingsService(st, nil),
		Rentals:         services.NewRentalService(st, nil),
		Auth:            auth.NewPasswordAuthenticator(st),
		JWT:             jwt,
		Store:           st,
		DefaultCurrency: core.NPR,
		DefaultSettings: store.Settings{
			DefaultCurrency: core.NPR,
			ElectricityRate: decimal.NewFromInt(13),
			WaterRate:       decimal.NewFromInt(15),
		},
	})
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func signup(t *testing.T, s *Server, email string) string {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    email,
		"password": "long-enough",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d: %s", rec.Code, rec.Body)
	}
	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("signup returned no token")
	}
	return resp.Token
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "a@b.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "a@b.com",
		"password": "long-enough",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "a@b.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "a@b.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "A@B.com",
		"password": "long-enough",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", rec.Code)
	}
}

func TestTransactionsRequireAuth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/transactions", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/transactions", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "a@b.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"amount":      "1500.00",
		"currency":    "NPR",
		"kind":        "income",
		"category":    "Salary",
		"occurred_on": "2025-04-14",
		"scope":       "personal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var created transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Amount != "1500.00" || created.OccurredOnBS != "2082-01-01" {
		t.Fatalf("created = %+v", created)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/transactions/"+created.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/v1/transactions/"+created.ID, token, map[string]any{
		"amount":      "1600.00",
		"currency":    "NPR",
		"kind":        "income",
		"category":    "Salary",
		"occurred_on": "2025-04-14",
		"scope":       "personal",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/transactions/"+created.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/transactions/"+created.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "a@b.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"zero amount", map[string]any{
			"amount": "0", "currency": "NPR", "kind": "income",
			"category": "Salary", "occurred_on": "2025-04-14",
		}},
		{"bad currency", map[string]any{
			"amount": "10", "currency": "EUR", "kind": "income",
			"category": "Salary", "occurred_on": "2025-04-14",
		}},
		{"bad date", map[string]any{
			"amount": "10", "currency": "NPR", "kind": "income",
			"category": "Salary", "occurred_on": "2025-02-30",
		}},
		{"empty category", map[string]any{
			"amount": "10", "currency": "NPR", "kind": "income",
			"category": " ", "occurred_on": "2025-04-14",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/v1/transactions", token, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestDailyLedger(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "a@b.com")

	for _, body := range []map[string]any{
		{"amount": "1500", "currency": "NPR", "kind": "income", "category": "Salary", "occurred_on": "2025-04-14"},
		{"amount": "300.50", "currency": "NPR", "kind": "expense", "category": "Groceries", "occurred_on": "2025-04-14"},
		{"amount": "1200", "currency": "NPR", "kind": "expense", "category": "Rent", "occurred_on": "2025-04-15"},
		{"amount": "99", "currency": "USD", "kind": "expense", "category": "Software", "occurred_on": "2025-04-15"},
	} {
		if rec := doJSON(t, s, http.MethodPost, "/api/v1/transactions", token, body); rec.Code != http.StatusCreated {
			t.Fatalf("seed status = %d: %s", rec.Code, rec.Body)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/ledger/daily", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp dailyLedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Currency != "NPR" {
		t.Fatalf("currency = %q", resp.Currency)
	}
	if len(resp.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(resp.Days))
	}
	if resp.Days[0].Date != "2025-04-15" || resp.Days[1].Date != "2025-04-14" {
		t.Fatalf("day order = %q, %q; want newest first", resp.Days[0].Date, resp.Days[1].Date)
	}
	if resp.Days[1].DateBS != "2082-01-01" {
		t.Fatalf("BS date = %q", resp.Days[1].DateBS)
	}
	if resp.Days[1].Inflow != "1500.00" || resp.Days[1].Outflow != "300.50" || resp.Days[1].Net != "1199.50" {
		t.Fatalf("day totals = %+v", resp.Days[1])
	}
	// The USD record appears in its day but not in NPR totals.
	if len(resp.Days[0].Records) != 2 {
		t.Fatalf("records on 04-15 = %d, want 2", len(resp.Days[0].Records))
	}
	if resp.Days[0].Outflow != "1200.00" {
		t.Fatalf("NPR outflow = %q, want 1200.00", resp.Days[0].Outflow)
	}
	if resp.Net != "-0.50" {
		t.Fatalf("range net = %q, want -0.50", resp.Net)
	}
}

func TestDailyLedgerRange(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "a@b.com")

	for _, day := range []string{"2025-04-13", "2025-04-14", "2025-04-15"} {
		body := map[string]any{
			"amount": "100", "currency": "NPR", "kind": "expense",
			"category": "Misc", "occurred_on": day,
		}
		if rec := doJSON(t, s, http.MethodPost, "/api/v1/transactions", token, body); rec.Code != http.StatusCreated {
			t.Fatalf("seed status = %d", rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/ledger/daily?from=2025-04-14&to=2025-04-14", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp dailyLedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Days) != 1 || resp.Days[0].Date != "2025-04-14" {
		t.Fatalf("days = %+v", resp.Days)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/ledger/daily?from=not-a-date", token, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad from status = %d, want 422", rec.Code)
	}
}

func TestUserScoping(t *testing.T) {
	s := newTestServer(t)
	alice := signup(t, s, "alice@b.com")
	mallory := signup(t, s, "mallory@b.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/transactions", alice, map[string]any{
		"amount": "10", "currency": "NPR", "kind": "expense",
		"category": "Coffee", "occurred_on": "2025-04-14",
	})
	var created transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/transactions/"+created.ID, mallory, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user get status = %d, want 404", rec.Code)
	}
}

func TestRentalBillingFlow(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "landlord@b.com")

	// Configure rates first.
	rec := doJSON(t, s, http.MethodPut, "/api/v1/settings", token, map[string]string{
		"default_currency": "NPR",
		"electricity_rate": "13",
		"water_rate":       "15",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings status = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/rentals", token, map[string]string{
		"unit_label":  "Ground Floor",
		"tenant_name": "Ram",
		"base_rent":   "5000",
		"currency":    "NPR",
		"start_date":  "2024-01-01",
		"occupancy":   "occupied",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create unit status = %d: %s", rec.Code, rec.Body)
	}
	var unit unitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &unit); err != nil {
		t.Fatalf("decode unit: %v", err)
	}

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/rentals/%s/payments", unit.ID), token, map[string]any{
		"billing_month": "2025-04",
		"electricity":   map[string]string{"previous": "100", "current": "113"},
		"water":         map[string]string{"previous": "50", "current": "65"},
		"additional_charges": []map[string]string{
			{"description": "waste collection", "amount": "200"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bill status = %d: %s", rec.Code, rec.Body)
	}
	var bill billResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &bill); err != nil {
		t.Fatalf("decode bill: %v", err)
	}
	// 5000 + 13*13 + 15*15 + 200
	if bill.TotalAmount != "5594.00" {
		t.Fatalf("total = %q, want 5594.00", bill.TotalAmount)
	}
	if bill.Status != "pending" {
		t.Fatalf("status = %q", bill.Status)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/payments/"+bill.ID+"/mark-paid", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark paid status = %d: %s", rec.Code, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &bill); err != nil {
		t.Fatalf("decode bill: %v", err)
	}
	if bill.Status != "paid" {
		t.Fatalf("status after mark-paid = %q", bill.Status)
	}
}

func TestCreateUnitValidation(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "landlord@b.com")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty label", map[string]string{
			"unit_label": " ", "base_rent": "5000", "currency": "NPR",
			"start_date": "2024-01-01",
		}},
		{"occupied without tenant", map[string]string{
			"unit_label": "Flat A", "base_rent": "5000", "currency": "NPR",
			"start_date": "2024-01-01", "occupancy": "occupied",
		}},
		{"bad occupancy", map[string]string{
			"unit_label": "Flat A", "base_rent": "5000", "currency": "NPR",
			"start_date": "2024-01-01", "occupancy": "squatted",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/v1/rentals", token, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestCreateTransactionNoteTooLong(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "a@b.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"amount": "10", "currency": "NPR", "kind": "expense",
		"category": "Misc", "occurred_on": "2025-04-14",
		"note": strings.Repeat("x", 201),
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body)
	}
}

func TestCreateBillReversedReadings(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "landlord@b.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/rentals", token, map[string]string{
		"unit_label": "Flat B",
		"base_rent":  "5000",
		"currency":   "NPR",
		"start_date": "2024-01-01",
	})
	var unit unitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &unit); err != nil {
		t.Fatalf("decode unit: %v", err)
	}

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/v1/rentals/%s/payments", unit.ID), token, map[string]any{
		"billing_month": "2025-04",
		"electricity":   map[string]string{"previous": "113", "current": "100", "rate_per_unit": "13"},
		"water":         map[string]string{"previous": "0", "current": "0", "rate_per_unit": "15"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("reversed readings status = %d, want 422: %s", rec.Code, rec.Body)
	}
}

func TestSavingsGoalFlow(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "saver@b.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/savings-goals", token, map[string]string{
		"name":          "Emergency Fund",
		"target_amount": "100000",
		"currency":      "NPR",
		"deadline":      "2026-12-31",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d: %s", rec.Code, rec.Body)
	}
	var goal goalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &goal); err != nil {
		t.Fatalf("decode goal: %v", err)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/savings-goals/"+goal.ID+"/contributions", token, map[string]string{
		"amount": "25000",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("contribute status = %d: %s", rec.Code, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &goal); err != nil {
		t.Fatalf("decode goal: %v", err)
	}
	if goal.CurrentAmount != "25000.00" || goal.Progress != 0.25 {
		t.Fatalf("goal after contribution = %+v", goal)
	}
}

func TestSettingsDefaults(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "a@b.com")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/settings", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var settings settingsPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if settings.DefaultCurrency != "NPR" || settings.ElectricityRate != "13" || settings.WaterRate != "15" {
		t.Fatalf("defaults = %+v", settings)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "a@b.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/transactions", token, map[string]any{
		"amount": "10", "currency": "NPR", "kind": "expense",
		"category": "Coffee", "occurred_on": "2025-04-14",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/export/transactions.xlsx", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("empty workbook body")
	}
}
