package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

const transactionColumns = `id, amount_paisa, currency, kind, category, sub_category, note, occurred_on, scope`

func scanTransaction(row interface{ Scan(...any) error }) (core.FinancialRecord, error) {
	var r core.FinancialRecord
	var occurredOn string
	err := row.Scan(&r.ID, &r.Amount.Paisa, &r.Currency, &r.Kind, &r.Category, &r.SubCategory, &r.Note, &occurredOn, &r.Scope)
	if err != nil {
		return core.FinancialRecord{}, err
	}
	r.OccurredOn, err = core.ParseDate(occurredOn)
	if err != nil {
		return core.FinancialRecord{}, fmt.Errorf("stored day-key: %w", err)
	}
	return r, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]core.FinancialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY occurred_on DESC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.FinancialRecord
	for rows.Next() {
		r, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id string) (core.FinancialRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND id = ? AND deleted_at IS NULL`, userID, id)
	r, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.FinancialRecord{}, store.ErrNotFound
	}
	if err != nil {
		return core.FinancialRecord{}, fmt.Errorf("get transaction: %w", err)
	}
	return r, nil
}

func (s *Store) CreateTransaction(ctx context.Context, userID string, r core.FinancialRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount_paisa, currency, kind, category, sub_category, note, occurred_on, scope)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, userID, r.Amount.Paisa, r.Currency, r.Kind, r.Category, r.SubCategory, r.Note, r.OccurredOn.Key(), r.Scope)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Store) UpdateTransaction(ctx context.Context, userID string, r core.FinancialRecord) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_paisa = ?, currency = ?, kind = ?, category = ?, sub_category = ?,
		    note = ?, occurred_on = ?, scope = ?, mirror_state = 'pending',
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id = ? AND deleted_at IS NULL`,
		r.Amount.Paisa, r.Currency, r.Kind, r.Category, r.SubCategory,
		r.Note, r.OccurredOn.Key(), r.Scope, userID, r.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res, "update transaction")
}

// DeleteTransaction soft deletes so the mirror worker can still read
// the record while announcing the deletion. The mirror state is reset
// so the sweep re-drives the deletion if the queue message is lost.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET deleted_at = CURRENT_TIMESTAMP, mirror_state = 'pending',
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id = ? AND deleted_at IS NULL`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res, "delete transaction")
}

// GetTransactionAny reads a record regardless of deletion state and
// reports the owning user and whether the row is soft deleted. Only
// the mirror worker uses this.
func (s *Store) GetTransactionAny(ctx context.Context, id string) (core.FinancialRecord, string, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`, user_id, deleted_at IS NOT NULL
		FROM transactions
		WHERE id = ?`, id)

	var r core.FinancialRecord
	var occurredOn, userID string
	var deleted bool
	err := row.Scan(&r.ID, &r.Amount.Paisa, &r.Currency, &r.Kind, &r.Category, &r.SubCategory, &r.Note, &occurredOn, &r.Scope, &userID, &deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return core.FinancialRecord{}, "", false, store.ErrNotFound
	}
	if err != nil {
		return core.FinancialRecord{}, "", false, fmt.Errorf("get transaction: %w", err)
	}
	if r.OccurredOn, err = core.ParseDate(occurredOn); err != nil {
		return core.FinancialRecord{}, "", false, fmt.Errorf("stored day-key: %w", err)
	}
	return r, userID, deleted, nil
}

// PendingMirror lists ids of records whose mirror is outstanding or
// previously failed, oldest first. Soft-deleted rows are included so
// a lost deletion message is still announced by the sweep.
func (s *Store) PendingMirror(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM transactions
		WHERE mirror_state IN ('pending', 'error')
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending mirror: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending mirror id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) MarkMirrored(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET mirror_state = 'done' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark mirrored: %w", err)
	}
	return requireRow(res, "mark mirrored")
}

func (s *Store) MarkMirrorError(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET mirror_state = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark mirror error: %w", err)
	}
	return requireRow(res, "mark mirror error")
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
