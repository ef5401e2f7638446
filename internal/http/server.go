// Package http exposes the JSON API. Handlers only parse, call a
// service, and map the result; every domain rule lives below them.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/auth"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/log"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/services"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

type Server struct {
	http.Server

	ledger  *services.LedgerService
	savings *services.SavingsService
	rentals *services.RentalService
	authn   *auth.PasswordAuthenticator
	jwt     *auth.JWTManager
	store   store.Store

	defaultCurrency core.Currency
	defaults        store.Settings
	rateLimiter     *rateLimiter
	logger          *slog.Logger
	shutdownOnce    sync.Once
}

// Deps carries everything the server needs; all fields are required
// except Logger.
type Deps struct {
	Ledger          *services.LedgerService
	Savings         *services.SavingsService
	Rentals         *services.RentalService
	Auth            *auth.PasswordAuthenticator
	JWT             *auth.JWTManager
	Store           store.Store
	DefaultCurrency core.Currency
	// DefaultSettings are served before a user saves their own.
	DefaultSettings store.Settings
	Logger          *slog.Logger
}

func NewServer(addr string, d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:          d.Ledger,
		savings:         d.Savings,
		rentals:         d.Rentals,
		authn:           d.Auth,
		jwt:             d.JWT,
		store:           d.Store,
		defaultCurrency: d.DefaultCurrency,
		defaults:        d.DefaultSettings,
		rateLimiter:     newRateLimiter(),
		logger:          log.WithComponent(logger, log.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.route(mux, "POST", "/api/v1/auth/signup", s.handleSignup, false)
	s.route(mux, "POST", "/api/v1/auth/login", s.handleLogin, false)

	s.route(mux, "GET", "/api/v1/transactions", s.handleListTransactions, true)
	s.route(mux, "POST", "/api/v1/transactions", s.handleCreateTransaction, true)
	s.route(mux, "GET", "/api/v1/transactions/{id}", s.handleGetTransaction, true)
	s.route(mux, "PUT", "/api/v1/transactions/{id}", s.handleUpdateTransaction, true)
	s.route(mux, "DELETE", "/api/v1/transactions/{id}", s.handleDeleteTransaction, true)
	s.route(mux, "GET", "/api/v1/ledger/daily", s.handleDailyLedger, true)

	s.route(mux, "GET", "/api/v1/savings-goals", s.handleListGoals, true)
	s.route(mux, "POST", "/api/v1/savings-goals", s.handleCreateGoal, true)
	s.route(mux, "PUT", "/api/v1/savings-goals/{id}", s.handleUpdateGoal, true)
	s.route(mux, "DELETE", "/api/v1/savings-goals/{id}", s.handleDeleteGoal, true)
	s.route(mux, "POST", "/api/v1/savings-goals/{id}/contributions", s.handleAddContribution, true)

	s.route(mux, "GET", "/api/v1/rentals", s.handleListUnits, true)
	s.route(mux, "POST", "/api/v1/rentals", s.handleCreateUnit, true)
	s.route(mux, "PUT", "/api/v1/rentals/{id}", s.handleUpdateUnit, true)
	s.route(mux, "DELETE", "/api/v1/rentals/{id}", s.handleDeleteUnit, true)
	s.route(mux, "GET", "/api/v1/rentals/{id}/payments", s.handleListBills, true)
	s.route(mux, "POST", "/api/v1/rentals/{id}/payments", s.handleCreateBill, true)
	s.route(mux, "POST", "/api/v1/payments/{id}/mark-paid", s.handleMarkPaid, true)

	s.route(mux, "GET", "/api/v1/settings", s.handleGetSettings, true)
	s.route(mux, "PUT", "/api/v1/settings", s.handlePutSettings, true)

	s.route(mux, "GET", "/api/v1/export/transactions.xlsx", s.handleExport, true)

	return s
}

func (s *Server) route(mux *http.ServeMux, method, pattern string, h http.HandlerFunc, authed bool) {
	if authed {
		h = s.withAuth(h)
	}
	mux.HandleFunc(method+" "+pattern, s.withEnvelope(pattern, h))
}

// Shutdown stops the listener and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
