package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/log"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

// BillInput is a bill request before computation. Zero rates mean
// "use the user's configured rates".
type BillInput struct {
	UnitID            string
	BillingMonth      string
	Electricity       core.MeterReading
	Water             core.MeterReading
	AdditionalCharges []core.Charge
}

// RentalService manages units and computes their monthly bills.
type RentalService struct {
	store  store.Store
	logger *slog.Logger
}

func NewRentalService(st store.Store, logger *slog.Logger) *RentalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RentalService{
		store:  st,
		logger: log.WithComponent(logger, log.ComponentRental),
	}
}

func (s *RentalService) CreateUnit(ctx context.Context, userID string, u core.RentalUnit) (core.RentalUnit, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Occupancy == "" {
		u.Occupancy = core.Vacant
	}
	if err := u.Validate(); err != nil {
		return core.RentalUnit{}, err
	}
	if err := s.store.CreateUnit(ctx, userID, u); err != nil {
		return core.RentalUnit{}, fmt.Errorf("save unit: %w", err)
	}
	return u, nil
}

func (s *RentalService) UpdateUnit(ctx context.Context, userID string, u core.RentalUnit) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return s.store.UpdateUnit(ctx, userID, u)
}

func (s *RentalService) DeleteUnit(ctx context.Context, userID, id string) error {
	return s.store.DeleteUnit(ctx, userID, id)
}

func (s *RentalService) GetUnit(ctx context.Context, userID, id string) (core.RentalUnit, error) {
	return s.store.GetUnit(ctx, userID, id)
}

func (s *RentalService) ListUnits(ctx context.Context, userID string) ([]core.RentalUnit, error) {
	return s.store.ListUnits(ctx, userID)
}

// CreateBill snapshots the unit's base rent, fills unset meter rates
// from the user's settings, computes the total, and stores the record.
func (s *RentalService) CreateBill(ctx context.Context, userID string, in BillInput) (core.RentalBillingRecord, error) {
	unit, err := s.store.GetUnit(ctx, userID, in.UnitID)
	if err != nil {
		return core.RentalBillingRecord{}, err
	}

	elec, water := in.Electricity, in.Water
	if elec.RatePerUnit.IsZero() || water.RatePerUnit.IsZero() {
		settings, err := s.store.GetSettings(ctx, userID)
		if err != nil {
			return core.RentalBillingRecord{}, fmt.Errorf("load settings: %w", err)
		}
		if elec.RatePerUnit.IsZero() {
			elec.RatePerUnit = settings.ElectricityRate
		}
		if water.RatePerUnit.IsZero() {
			water.RatePerUnit = settings.WaterRate
		}
	}

	bill := core.RentalBillingRecord{
		ID:                uuid.New().String(),
		UnitID:            unit.ID,
		BillingMonth:      in.BillingMonth,
		BaseRent:          unit.BaseRent,
		Electricity:       elec,
		Water:             water,
		AdditionalCharges: in.AdditionalCharges,
		Status:            core.Pending,
	}
	if err := bill.ComputeTotal(); err != nil {
		return core.RentalBillingRecord{}, err
	}
	if err := bill.Validate(); err != nil {
		return core.RentalBillingRecord{}, err
	}

	if err := s.store.CreateBillingRecord(ctx, userID, bill); err != nil {
		return core.RentalBillingRecord{}, fmt.Errorf("save billing record: %w", err)
	}

	s.logger.InfoContext(ctx, "created billing record",
		log.FieldUnitID, unit.ID,
		"billing_month", bill.BillingMonth,
		log.FieldAmount, bill.TotalAmount.Paisa)
	return bill, nil
}

func (s *RentalService) ListBills(ctx context.Context, userID, unitID string) ([]core.RentalBillingRecord, error) {
	return s.store.ListBillingRecords(ctx, userID, unitID)
}

func (s *RentalService) GetBill(ctx context.Context, userID, id string) (core.RentalBillingRecord, error) {
	return s.store.GetBillingRecord(ctx, userID, id)
}

// MarkPaid flips a bill to paid. Paying twice is a no-op, not an error.
func (s *RentalService) MarkPaid(ctx context.Context, userID, id string) error {
	return s.store.SetBillingStatus(ctx, userID, id, core.Paid)
}

// PreviewBill computes a total without persisting anything.
func PreviewBill(baseRent core.Money, electricity, water core.MeterReading, charges []core.Charge) (decimal.Decimal, error) {
	return core.BillTotal(baseRent.Decimal(), electricity, water, charges)
}
