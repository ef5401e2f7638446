package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

func scanUnit(row interface{ Scan(...any) error }) (core.RentalUnit, error) {
	var u core.RentalUnit
	var start string
	err := row.Scan(&u.ID, &u.UnitLabel, &u.TenantName, &u.BaseRent.Paisa, &u.Currency, &start, &u.Occupancy)
	if err != nil {
		return core.RentalUnit{}, err
	}
	u.StartDate, err = core.ParseDate(start)
	if err != nil {
		return core.RentalUnit{}, fmt.Errorf("stored start date: %w", err)
	}
	return u, nil
}

func (s *Store) ListUnits(ctx context.Context, userID string) ([]core.RentalUnit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, unit_label, tenant_name, base_rent_paisa, currency, start_date, occupancy
		FROM rental_units
		WHERE user_id = ?
		ORDER BY unit_label ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var out []core.RentalUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) GetUnit(ctx context.Context, userID, id string) (core.RentalUnit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, unit_label, tenant_name, base_rent_paisa, currency, start_date, occupancy
		FROM rental_units
		WHERE user_id = ? AND id = ?`, userID, id)
	u, err := scanUnit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RentalUnit{}, store.ErrNotFound
	}
	if err != nil {
		return core.RentalUnit{}, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

func (s *Store) CreateUnit(ctx context.Context, userID string, u core.RentalUnit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rental_units (id, user_id, unit_label, tenant_name, base_rent_paisa, currency, start_date, occupancy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, userID, u.UnitLabel, u.TenantName, u.BaseRent.Paisa, u.Currency, u.StartDate.Key(), u.Occupancy)
	if err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (s *Store) UpdateUnit(ctx context.Context, userID string, u core.RentalUnit) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rental_units
		SET unit_label = ?, tenant_name = ?, base_rent_paisa = ?, currency = ?,
		    start_date = ?, occupancy = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id = ?`,
		u.UnitLabel, u.TenantName, u.BaseRent.Paisa, u.Currency, u.StartDate.Key(), u.Occupancy, userID, u.ID)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return requireRow(res, "update unit")
}

// DeleteUnit removes the unit; its billing records go with it via the
// ON DELETE CASCADE on rental_billing_records.unit_id.
func (s *Store) DeleteUnit(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM rental_units WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return requireRow(res, "delete unit")
}

type chargeRow struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func marshalCharges(charges []core.Charge) (string, error) {
	rows := make([]chargeRow, 0, len(charges))
	for _, c := range charges {
		rows = append(rows, chargeRow{Description: c.Description, Amount: c.Amount.String()})
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("marshal charges: %w", err)
	}
	return string(b), nil
}

func unmarshalCharges(raw string) ([]core.Charge, error) {
	var rows []chargeRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("unmarshal charges: %w", err)
	}
	var out []core.Charge
	for _, r := range rows {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("stored charge amount %q: %w", r.Amount, err)
		}
		out = append(out, core.Charge{Description: r.Description, Amount: amount})
	}
	return out, nil
}

const billingColumns = `id, unit_id, billing_month, base_rent_paisa,
	elec_previous, elec_current, elec_rate,
	water_previous, water_current, water_rate,
	additional_charges, total_paisa, payment_status`

func scanBilling(row interface{ Scan(...any) error }) (core.RentalBillingRecord, error) {
	var b core.RentalBillingRecord
	var elecPrev, elecCur, elecRate, waterPrev, waterCur, waterRate, charges string
	err := row.Scan(&b.ID, &b.UnitID, &b.BillingMonth, &b.BaseRent.Paisa,
		&elecPrev, &elecCur, &elecRate,
		&waterPrev, &waterCur, &waterRate,
		&charges, &b.TotalAmount.Paisa, &b.Status)
	if err != nil {
		return core.RentalBillingRecord{}, err
	}
	if b.Electricity, err = scanReading(elecPrev, elecCur, elecRate); err != nil {
		return core.RentalBillingRecord{}, fmt.Errorf("electricity reading: %w", err)
	}
	if b.Water, err = scanReading(waterPrev, waterCur, waterRate); err != nil {
		return core.RentalBillingRecord{}, fmt.Errorf("water reading: %w", err)
	}
	if b.AdditionalCharges, err = unmarshalCharges(charges); err != nil {
		return core.RentalBillingRecord{}, err
	}
	return b, nil
}

func scanReading(prev, cur, rate string) (core.MeterReading, error) {
	var m core.MeterReading
	var err error
	if m.Previous, err = decimal.NewFromString(prev); err != nil {
		return core.MeterReading{}, err
	}
	if m.Current, err = decimal.NewFromString(cur); err != nil {
		return core.MeterReading{}, err
	}
	if m.RatePerUnit, err = decimal.NewFromString(rate); err != nil {
		return core.MeterReading{}, err
	}
	return m, nil
}

// ListBillingRecords returns the user's bills, newest month first. An
// empty unitID means all units.
func (s *Store) ListBillingRecords(ctx context.Context, userID, unitID string) ([]core.RentalBillingRecord, error) {
	query := `SELECT ` + billingColumns + `
		FROM rental_billing_records
		WHERE user_id = ?`
	args := []any{userID}
	if unitID != "" {
		query += ` AND unit_id = ?`
		args = append(args, unitID)
	}
	query += ` ORDER BY billing_month DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list billing records: %w", err)
	}
	defer rows.Close()

	var out []core.RentalBillingRecord
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, fmt.Errorf("scan billing record: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) GetBillingRecord(ctx context.Context, userID, id string) (core.RentalBillingRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+billingColumns+`
		FROM rental_billing_records
		WHERE user_id = ? AND id = ?`, userID, id)
	b, err := scanBilling(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RentalBillingRecord{}, store.ErrNotFound
	}
	if err != nil {
		return core.RentalBillingRecord{}, fmt.Errorf("get billing record: %w", err)
	}
	return b, nil
}

func (s *Store) CreateBillingRecord(ctx context.Context, userID string, b core.RentalBillingRecord) error {
	// The unit lookup doubles as the ownership check: a foreign-key
	// failure alone would not distinguish another user's unit.
	if _, err := s.GetUnit(ctx, userID, b.UnitID); err != nil {
		return err
	}
	charges, err := marshalCharges(b.AdditionalCharges)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rental_billing_records (id, user_id, unit_id, billing_month, base_rent_paisa,
			elec_previous, elec_current, elec_rate,
			water_previous, water_current, water_rate,
			additional_charges, total_paisa, payment_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, userID, b.UnitID, b.BillingMonth, b.BaseRent.Paisa,
		b.Electricity.Previous.String(), b.Electricity.Current.String(), b.Electricity.RatePerUnit.String(),
		b.Water.Previous.String(), b.Water.Current.String(), b.Water.RatePerUnit.String(),
		charges, b.TotalAmount.Paisa, b.Status)
	if err != nil {
		return fmt.Errorf("create billing record: %w", err)
	}
	return nil
}

func (s *Store) SetBillingStatus(ctx context.Context, userID, id string, status core.PaymentStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rental_billing_records
		SET payment_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id = ?`, status, userID, id)
	if err != nil {
		return fmt.Errorf("set billing status: %w", err)
	}
	return requireRow(res, "set billing status")
}
