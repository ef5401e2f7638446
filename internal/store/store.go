// Package store defines the persistence port for the application.
// Exactly one implementation backs a deployment (sqlite or memory);
// handlers and services never know which. Store failures propagate to
// callers unchanged so the HTTP layer can map them uniformly.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
)

var (
	// ErrNotFound marks a lookup for an id that does not exist (or
	// belongs to another user).
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation, e.g. duplicate email.
	ErrConflict = errors.New("already exists")
)

type (
	// User is an account holder. PasswordHash is a bcrypt hash; the
	// plaintext never touches the store.
	User struct {
		ID           string
		Email        string
		FullName     string
		PasswordHash string
		CreatedAt    time.Time
	}

	// Settings are per-user preferences, passed explicitly into the
	// components that need them rather than read from ambient state.
	Settings struct {
		UserID          string
		DefaultCurrency core.Currency
		ElectricityRate decimal.Decimal
		WaterRate       decimal.Decimal
	}
)

// Store is the persistence contract. All record operations are scoped
// to a user; ids from other users behave as missing.
type Store interface {
	// Financial records (the ledger)
	ListTransactions(ctx context.Context, userID string) ([]core.FinancialRecord, error)
	GetTransaction(ctx context.Context, userID, id string) (core.FinancialRecord, error)
	CreateTransaction(ctx context.Context, userID string, r core.FinancialRecord) error
	UpdateTransaction(ctx context.Context, userID string, r core.FinancialRecord) error
	DeleteTransaction(ctx context.Context, userID, id string) error

	// Savings goals
	ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error)
	GetGoal(ctx context.Context, userID, id string) (core.SavingsGoal, error)
	CreateGoal(ctx context.Context, userID string, g core.SavingsGoal) error
	UpdateGoal(ctx context.Context, userID string, g core.SavingsGoal) error
	DeleteGoal(ctx context.Context, userID, id string) error

	// Rental units. Deleting a unit also deletes its billing records;
	// that cascade is a store policy, not part of the billing logic.
	ListUnits(ctx context.Context, userID string) ([]core.RentalUnit, error)
	GetUnit(ctx context.Context, userID, id string) (core.RentalUnit, error)
	CreateUnit(ctx context.Context, userID string, u core.RentalUnit) error
	UpdateUnit(ctx context.Context, userID string, u core.RentalUnit) error
	DeleteUnit(ctx context.Context, userID, id string) error

	// Billing records. unitID may be empty to list across all units.
	ListBillingRecords(ctx context.Context, userID, unitID string) ([]core.RentalBillingRecord, error)
	GetBillingRecord(ctx context.Context, userID, id string) (core.RentalBillingRecord, error)
	CreateBillingRecord(ctx context.Context, userID string, b core.RentalBillingRecord) error
	SetBillingStatus(ctx context.Context, userID, id string, status core.PaymentStatus) error

	// Users and settings
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetSettings(ctx context.Context, userID string) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error

	Close() error
}
