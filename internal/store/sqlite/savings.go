package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

func scanGoal(row interface{ Scan(...any) error }) (core.SavingsGoal, error) {
	var g core.SavingsGoal
	var deadline string
	err := row.Scan(&g.ID, &g.Name, &g.TargetAmount.Paisa, &g.CurrentAmount.Paisa, &g.Currency, &deadline)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	g.Deadline, err = core.ParseDate(deadline)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("stored deadline: %w", err)
	}
	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, target_paisa, current_paisa, currency, deadline
		FROM savings_goals
		WHERE user_id = ?
		ORDER BY deadline ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) GetGoal(ctx context.Context, userID, id string) (core.SavingsGoal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, target_paisa, current_paisa, currency, deadline
		FROM savings_goals
		WHERE user_id = ? AND id = ?`, userID, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, store.ErrNotFound
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *Store) CreateGoal(ctx context.Context, userID string, g core.SavingsGoal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO savings_goals (id, user_id, name, target_paisa, current_paisa, currency, deadline)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, userID, g.Name, g.TargetAmount.Paisa, g.CurrentAmount.Paisa, g.Currency, g.Deadline.Key())
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (s *Store) UpdateGoal(ctx context.Context, userID string, g core.SavingsGoal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE savings_goals
		SET name = ?, target_paisa = ?, current_paisa = ?, currency = ?, deadline = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id = ?`,
		g.Name, g.TargetAmount.Paisa, g.CurrentAmount.Paisa, g.Currency, g.Deadline.Key(), userID, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res, "update goal")
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM savings_goals WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res, "delete goal")
}
