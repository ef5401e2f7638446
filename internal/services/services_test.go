package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store/memory"
)

type fakePublisher struct {
	published []string // "id:action"
	err       error
}

func (f *fakePublisher) PublishRecordMirror(_ context.Context, id, action string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id+":"+action)
	return nil
}

func record(day core.Date, kind core.RecordKind, paisa int64) core.FinancialRecord {
	return core.FinancialRecord{
		Amount:     core.Money{Paisa: paisa},
		Currency:   core.NPR,
		Kind:       kind,
		Category:   "General",
		OccurredOn: day,
		Scope:      core.Personal,
	}
}

func TestCreateRecordPublishesMirror(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub, nil)
	ctx := context.Background()

	created, err := svc.CreateRecord(ctx, "u1", record(core.NewDate(2025, 4, 14), core.Income, 150000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("id not assigned")
	}
	if len(pub.published) != 1 || pub.published[0] != created.ID+":added" {
		t.Fatalf("published = %v", pub.published)
	}
}

func TestCreateRecordSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	st := memory.New()
	svc := NewLedgerService(st, pub, nil)
	ctx := context.Background()

	created, err := svc.CreateRecord(ctx, "u1", record(core.NewDate(2025, 4, 14), core.Expense, 30000))
	if err != nil {
		t.Fatalf("create should not fail on publish error: %v", err)
	}
	if _, err := st.GetTransaction(ctx, "u1", created.ID); err != nil {
		t.Fatalf("record not stored: %v", err)
	}
}

func TestCreateRecordRejectsInvalid(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil, nil)

	bad := record(core.NewDate(2025, 4, 14), core.Income, 0)
	if _, err := svc.CreateRecord(context.Background(), "u1", bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestDeleteRecordPublishesDelete(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub, nil)
	ctx := context.Background()

	created, err := svc.CreateRecord(ctx, "u1", record(core.NewDate(2025, 4, 14), core.Expense, 30000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteRecord(ctx, "u1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := created.ID + ":deleted"
	if pub.published[len(pub.published)-1] != want {
		t.Fatalf("published = %v, want last %q", pub.published, want)
	}
}

func TestDailyLedger(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil, nil)
	ctx := context.Background()

	day1 := core.NewDate(2025, 4, 14)
	day2 := core.NewDate(2025, 4, 15)
	for _, r := range []core.FinancialRecord{
		record(day1, core.Income, 150000),
		record(day1, core.Expense, 30000),
		record(day2, core.Expense, 120000),
	} {
		if _, err := svc.CreateRecord(ctx, "u1", r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	groups, err := svc.DailyLedger(ctx, "u1", core.NPR)
	if err != nil {
		t.Fatalf("daily ledger: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Key != "2025-04-15" || groups[1].Key != "2025-04-14" {
		t.Fatalf("keys = %q, %q; want newest first", groups[0].Key, groups[1].Key)
	}
	if groups[1].Totals.Inflow.Paisa != 150000 || groups[1].Totals.Outflow.Paisa != 30000 {
		t.Fatalf("day1 totals = %+v", groups[1].Totals)
	}
	if net := groups[1].Totals.Net(); net.Paisa != 120000 {
		t.Fatalf("day1 net = %d, want 120000", net.Paisa)
	}
}

func TestCreateBillUsesSettingsRates(t *testing.T) {
	st := memory.New()
	svc := NewRentalService(st, nil)
	ctx := context.Background()

	if err := st.SaveSettings(ctx, store.Settings{
		UserID:          "u1",
		DefaultCurrency: core.NPR,
		ElectricityRate: decimal.NewFromInt(13),
		WaterRate:       decimal.NewFromInt(15),
	}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	unit, err := svc.CreateUnit(ctx, "u1", core.RentalUnit{
		UnitLabel:  "Ground Floor",
		TenantName: "Ram",
		BaseRent:   core.Money{Paisa: 500000},
		Currency:   core.NPR,
		StartDate:  core.NewDate(2024, 1, 1),
		Occupancy:  core.Occupied,
	})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}

	bill, err := svc.CreateBill(ctx, "u1", BillInput{
		UnitID:       unit.ID,
		BillingMonth: "2025-04",
		Electricity:  core.MeterReading{Previous: decimal.NewFromInt(100), Current: decimal.NewFromInt(113)},
		Water:        core.MeterReading{Previous: decimal.NewFromInt(50), Current: decimal.NewFromInt(65)},
		AdditionalCharges: []core.Charge{
			{Description: "waste collection", Amount: decimal.NewFromInt(200)},
		},
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	// 5000 + 13*13 + 15*15 + 200 = 5594 ... using the configured rates
	// on 13 and 15 units: 5000 + 169 + 225 + 200 = 5594.00
	if bill.TotalAmount.Paisa != 559400 {
		t.Fatalf("total = %d paisa, want 559400", bill.TotalAmount.Paisa)
	}
	if bill.Status != core.Pending {
		t.Fatalf("status = %q, want pending", bill.Status)
	}
	if bill.BaseRent.Paisa != 500000 {
		t.Fatalf("base rent snapshot = %d", bill.BaseRent.Paisa)
	}
}

func TestCreateBillRejectsReversedReadings(t *testing.T) {
	st := memory.New()
	svc := NewRentalService(st, nil)
	ctx := context.Background()

	unit, err := svc.CreateUnit(ctx, "u1", core.RentalUnit{
		UnitLabel: "Top Floor",
		BaseRent:  core.Money{Paisa: 500000},
		Currency:  core.NPR,
		StartDate: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}

	_, err = svc.CreateBill(ctx, "u1", BillInput{
		UnitID:       unit.ID,
		BillingMonth: "2025-04",
		Electricity: core.MeterReading{
			Previous:    decimal.NewFromInt(113),
			Current:     decimal.NewFromInt(100),
			RatePerUnit: decimal.NewFromInt(13),
		},
		Water: core.MeterReading{RatePerUnit: decimal.NewFromInt(15)},
	})
	if !errors.Is(err, core.ErrReversedReading) {
		t.Fatalf("want ErrReversedReading, got %v", err)
	}
}

func TestCreateBillUnknownUnit(t *testing.T) {
	svc := NewRentalService(memory.New(), nil)
	_, err := svc.CreateBill(context.Background(), "u1", BillInput{UnitID: "ghost", BillingMonth: "2025-04"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	st := memory.New()
	svc := NewRentalService(st, nil)
	ctx := context.Background()

	unit, err := svc.CreateUnit(ctx, "u1", core.RentalUnit{
		UnitLabel: "Flat A",
		BaseRent:  core.Money{Paisa: 500000},
		Currency:  core.NPR,
		StartDate: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	bill, err := svc.CreateBill(ctx, "u1", BillInput{
		UnitID:       unit.ID,
		BillingMonth: "2025-05",
		Electricity:  core.MeterReading{RatePerUnit: decimal.NewFromInt(13)},
		Water:        core.MeterReading{RatePerUnit: decimal.NewFromInt(15)},
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if err := svc.MarkPaid(ctx, "u1", bill.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	got, err := svc.GetBill(ctx, "u1", bill.ID)
	if err != nil {
		t.Fatalf("get bill: %v", err)
	}
	if got.Status != core.Paid {
		t.Fatalf("status = %q, want paid", got.Status)
	}

	// Paying an already-paid bill stays paid.
	if err := svc.MarkPaid(ctx, "u1", bill.ID); err != nil {
		t.Fatalf("second mark paid: %v", err)
	}
}

func TestAddContribution(t *testing.T) {
	svc := NewSavingsService(memory.New(), nil)
	ctx := context.Background()

	goal, err := svc.CreateGoal(ctx, "u1", core.SavingsGoal{
		Name:         "Emergency Fund",
		TargetAmount: core.Money{Paisa: 10000000},
		Currency:     core.NPR,
		Deadline:     core.NewDate(2026, 12, 31),
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	updated, err := svc.AddContribution(ctx, "u1", goal.ID, core.Money{Paisa: 2500000})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if updated.CurrentAmount.Paisa != 2500000 {
		t.Fatalf("current = %d", updated.CurrentAmount.Paisa)
	}

	// Over-saving is allowed; progress caps at 1.
	over, err := svc.AddContribution(ctx, "u1", goal.ID, core.Money{Paisa: 9000000})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if over.CurrentAmount.Paisa != 11500000 {
		t.Fatalf("current = %d", over.CurrentAmount.Paisa)
	}
	if p := over.Progress(); p != 1 {
		t.Fatalf("progress = %v, want 1", p)
	}

	if _, err := svc.AddContribution(ctx, "u1", goal.ID, core.Money{Paisa: 0}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount for zero contribution, got %v", err)
	}
}
