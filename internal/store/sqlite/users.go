package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

func (s *Store) CreateUser(ctx context.Context, u store.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, password_hash)
		VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.FullName, u.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	return s.getUser(ctx, `email = ?`, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (store.User, error) {
	return s.getUser(ctx, `id = ?`, id)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (store.User, error) {
	var u store.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, password_hash, created_at
		FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetSettings(ctx context.Context, userID string) (store.Settings, error) {
	var out store.Settings
	var elec, water string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, default_currency, electricity_rate, water_rate
		FROM user_settings WHERE user_id = ?`, userID).
		Scan(&out.UserID, &out.DefaultCurrency, &elec, &water)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Settings{}, store.ErrNotFound
	}
	if err != nil {
		return store.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if out.ElectricityRate, err = decimal.NewFromString(elec); err != nil {
		return store.Settings{}, fmt.Errorf("stored electricity rate: %w", err)
	}
	if out.WaterRate, err = decimal.NewFromString(water); err != nil {
		return store.Settings{}, fmt.Errorf("stored water rate: %w", err)
	}
	return out, nil
}

func (s *Store) SaveSettings(ctx context.Context, set store.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, default_currency, electricity_rate, water_rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			default_currency = excluded.default_currency,
			electricity_rate = excluded.electricity_rate,
			water_rate = excluded.water_rate,
			updated_at = CURRENT_TIMESTAMP`,
		set.UserID, set.DefaultCurrency, set.ElectricityRate.String(), set.WaterRate.String())
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
