package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	NPR Currency = "NPR"
	USD Currency = "USD"

	Income  RecordKind = "income"
	Expense RecordKind = "expense"

	Personal Scope = "personal"
	Shared   Scope = "shared"

	Occupied OccupancyStatus = "occupied"
	Vacant   OccupancyStatus = "vacant"

	Pending PaymentStatus = "pending"
	Paid    PaymentStatus = "paid"
)

type (
	Currency        string
	RecordKind      string
	Scope           string
	OccupancyStatus string
	PaymentStatus   string

	// Date is a civil calendar date with no time component.
	Date struct {
		Year  int
		Month int // 1-12
		Day   int
	}

	// FinancialRecord is a single ledger entry: one inflow or outflow
	// on a given day, in a single currency.
	FinancialRecord struct {
		ID          string
		Amount      Money
		Currency    Currency
		Kind        RecordKind
		Category    string
		SubCategory string
		Note        string
		OccurredOn  Date
		Scope       Scope
	}

	SavingsGoal struct {
		ID            string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		Currency      Currency
		Deadline      Date
	}

	RentalUnit struct {
		ID         string
		UnitLabel  string
		TenantName string
		BaseRent   Money
		Currency   Currency
		StartDate  Date
		Occupancy  OccupancyStatus
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("unsupported currency")
	ErrInvalidKind     = errors.New("invalid record kind")
	ErrInvalidScope    = errors.New("invalid scope")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyName       = errors.New("empty name")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")

	ErrEmptyUnitLabel   = errors.New("empty unit label")
	ErrMissingTenant    = errors.New("occupied unit requires a tenant name")
	ErrInvalidOccupancy = errors.New("invalid occupancy status")
)

func (c Currency) Valid() bool {
	return c == NPR || c == USD
}

func (k RecordKind) Valid() bool {
	return k == Income || k == Expense
}

func (s Scope) Valid() bool {
	return s == Personal || s == Shared
}

func (o OccupancyStatus) Valid() bool {
	return o == Occupied || o == Vacant
}

func (p PaymentStatus) Valid() bool {
	return p == Pending || p == Paid
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// Key returns the canonical YYYY-MM-DD day-key used for grouping and
// sorting. Lexical order of keys equals chronological order.
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) String() string { return d.Key() }

// Time returns the date at UTC midnight.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	// Round-trip through time.Date to catch things like Feb 30.
	t := d.Time()
	if t.Year() != d.Year || int(t.Month()) != d.Month || t.Day() != d.Day {
		return fmt.Errorf("%w: %s", ErrInvalidDate, d.Key())
	}
	return nil
}

func (r FinancialRecord) Validate() error {
	if err := r.OccurredOn.Validate(); err != nil {
		return err
	}
	if r.Amount.Paisa <= 0 {
		return ErrInvalidAmount
	}
	if !r.Currency.Valid() {
		return ErrInvalidCurrency
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if !r.Scope.Valid() {
		return ErrInvalidScope
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if len(r.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount.Paisa <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.Paisa < 0 {
		return ErrInvalidAmount
	}
	if !g.Currency.Valid() {
		return ErrInvalidCurrency
	}
	if err := g.Deadline.Validate(); err != nil {
		return err
	}
	return nil
}

// Progress reports the saved fraction for display, capped at 1.0.
// The model itself does not cap CurrentAmount.
func (g SavingsGoal) Progress() float64 {
	if g.TargetAmount.Paisa <= 0 {
		return 0
	}
	p := float64(g.CurrentAmount.Paisa) / float64(g.TargetAmount.Paisa)
	if p > 1 {
		return 1
	}
	return p
}

func (u RentalUnit) Validate() error {
	if strings.TrimSpace(u.UnitLabel) == "" {
		return ErrEmptyUnitLabel
	}
	if strings.TrimSpace(u.TenantName) == "" && u.Occupancy == Occupied {
		return ErrMissingTenant
	}
	if u.BaseRent.Paisa <= 0 {
		return ErrInvalidAmount
	}
	if !u.Currency.Valid() {
		return ErrInvalidCurrency
	}
	if err := u.StartDate.Validate(); err != nil {
		return err
	}
	if !u.Occupancy.Valid() {
		return ErrInvalidOccupancy
	}
	return nil
}
