package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Utility billing: a monthly bill for a rental unit is the base rent
// plus metered electricity and water plus any flat additional charges.
// Readings and per-unit rates can be fractional, so this arithmetic
// runs on decimals end to end; rounding to paisa happens once, when
// the total is converted to Money for storage.

var (
	// ErrReversedReading means current < previous. A reversed pair is
	// either a rolled-over meter or a data-entry mistake; it is
	// rejected rather than clamped so a negative bill component can
	// never be produced silently.
	ErrReversedReading = errors.New("current meter reading is below previous reading")

	ErrNegativeRate    = errors.New("rate per unit cannot be negative")
	ErrNegativeReading = errors.New("meter reading cannot be negative")
	ErrNegativeCharge  = errors.New("additional charge cannot be negative")
	ErrInvalidMonth    = errors.New("invalid billing month")
	ErrMissingUnitID   = errors.New("billing record requires a unit id")
	ErrInvalidStatus   = errors.New("invalid payment status")

	billingMonthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

type (
	// MeterReading is one utility meter cycle: the previous and current
	// readings and the rate applied to the consumed units.
	MeterReading struct {
		Previous    decimal.Decimal
		Current     decimal.Decimal
		RatePerUnit decimal.Decimal
	}

	// Charge is a flat extra line item on a bill.
	Charge struct {
		Description string
		Amount      decimal.Decimal
	}

	// RentalBillingRecord is one month's bill for a rental unit.
	// BaseRent is copied from the unit at billing time so later rent
	// changes do not rewrite history.
	RentalBillingRecord struct {
		ID                string
		UnitID            string
		BillingMonth      string // YYYY-MM
		BaseRent          Money
		Electricity       MeterReading
		Water             MeterReading
		AdditionalCharges []Charge
		TotalAmount       Money
		Status            PaymentStatus
	}
)

// Usage is the units consumed between the two readings.
func (m MeterReading) Usage() decimal.Decimal {
	return m.Current.Sub(m.Previous)
}

// Amount is usage times rate. Non-negative whenever the reading pair
// validates.
func (m MeterReading) Amount() decimal.Decimal {
	return m.Usage().Mul(m.RatePerUnit)
}

func (m MeterReading) Validate() error {
	if m.Previous.IsNegative() || m.Current.IsNegative() {
		return ErrNegativeReading
	}
	if m.Current.LessThan(m.Previous) {
		return fmt.Errorf("%w: previous=%s current=%s", ErrReversedReading, m.Previous, m.Current)
	}
	if m.RatePerUnit.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

// BillTotal computes baseRent + electricity + water + sum of charges.
// All inputs are validated first; the result carries full precision.
func BillTotal(baseRent decimal.Decimal, electricity, water MeterReading, charges []Charge) (decimal.Decimal, error) {
	if baseRent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative base rent", ErrInvalidAmount)
	}
	if err := electricity.Validate(); err != nil {
		return decimal.Zero, fmt.Errorf("electricity: %w", err)
	}
	if err := water.Validate(); err != nil {
		return decimal.Zero, fmt.Errorf("water: %w", err)
	}
	total := baseRent.Add(electricity.Amount()).Add(water.Amount())
	for _, c := range charges {
		if c.Amount.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNegativeCharge, c.Description)
		}
		total = total.Add(c.Amount)
	}
	return total, nil
}

// ComputeTotal derives and stores TotalAmount from the bill's parts.
func (b *RentalBillingRecord) ComputeTotal() error {
	total, err := BillTotal(b.BaseRent.Decimal(), b.Electricity, b.Water, b.AdditionalCharges)
	if err != nil {
		return err
	}
	b.TotalAmount = MoneyFromDecimal(total)
	return nil
}

func (b RentalBillingRecord) Validate() error {
	if strings.TrimSpace(b.UnitID) == "" {
		return ErrMissingUnitID
	}
	if !billingMonthRe.MatchString(b.BillingMonth) {
		return fmt.Errorf("%w: %q", ErrInvalidMonth, b.BillingMonth)
	}
	if b.BaseRent.Paisa < 0 {
		return ErrInvalidAmount
	}
	if err := b.Electricity.Validate(); err != nil {
		return fmt.Errorf("electricity: %w", err)
	}
	if err := b.Water.Validate(); err != nil {
		return fmt.Errorf("water: %w", err)
	}
	for _, c := range b.AdditionalCharges {
		if c.Amount.IsNegative() {
			return fmt.Errorf("%w: %q", ErrNegativeCharge, c.Description)
		}
	}
	if !b.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
