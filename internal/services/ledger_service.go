// Package services orchestrates store writes with the side effects
// around them: mirror publishing, bill computation, goal arithmetic.
// Handlers stay thin and mapping-only.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/amqp"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/log"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

// MirrorPublisher is implemented by *amqp.Client. A nil publisher
// disables mirroring; writes still succeed.
type MirrorPublisher interface {
	PublishRecordMirror(ctx context.Context, id, action string) error
}

// DayGroup is one day of the ledger: the day-key, the day's records in
// insertion order, and totals for the requested currency.
type DayGroup struct {
	Key     string
	Records []core.FinancialRecord
	Totals  core.Totals
}

// LedgerService owns financial record writes and the daily view.
type LedgerService struct {
	store     store.Store
	publisher MirrorPublisher
	logger    *slog.Logger
}

func NewLedgerService(st store.Store, publisher MirrorPublisher, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		store:     st,
		publisher: publisher,
		logger:    log.WithComponent(logger, log.ComponentLedger),
	}
}

// CreateRecord validates and stores a new record, then publishes a
// mirror message. A publish failure is logged, not returned; the
// record is already durable and the pending sweep will retry.
func (s *LedgerService) CreateRecord(ctx context.Context, userID string, r core.FinancialRecord) (core.FinancialRecord, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := r.Validate(); err != nil {
		return core.FinancialRecord{}, err
	}
	if err := s.store.CreateTransaction(ctx, userID, r); err != nil {
		return core.FinancialRecord{}, fmt.Errorf("save record: %w", err)
	}
	s.publish(ctx, r.ID, amqp.ActionAdded)
	return r, nil
}

func (s *LedgerService) UpdateRecord(ctx context.Context, userID string, r core.FinancialRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, userID, r); err != nil {
		return err
	}
	s.publish(ctx, r.ID, amqp.ActionUpdated)
	return nil
}

func (s *LedgerService) DeleteRecord(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *LedgerService) GetRecord(ctx context.Context, userID, id string) (core.FinancialRecord, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

func (s *LedgerService) ListRecords(ctx context.Context, userID string) ([]core.FinancialRecord, error) {
	return s.store.ListTransactions(ctx, userID)
}

// DailyLedger groups the user's records by day, newest day first, with
// per-day totals for the given currency. Records in other currencies
// appear in their groups but never in the totals.
func (s *LedgerService) DailyLedger(ctx context.Context, userID string, currency core.Currency) ([]DayGroup, error) {
	records, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	grouped := core.GroupByDay(records)
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	keys = core.SortDayKeys(keys)

	out := make([]DayGroup, 0, len(keys))
	for _, k := range keys {
		day := grouped[k]
		out = append(out, DayGroup{
			Key:     k,
			Records: day,
			Totals:  core.TotalsFor(day, currency),
		})
	}
	return out, nil
}

// Totals sums the whole ledger for one currency.
func (s *LedgerService) Totals(ctx context.Context, userID string, currency core.Currency) (core.Totals, error) {
	records, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return core.Totals{}, fmt.Errorf("list records: %w", err)
	}
	return core.TotalsFor(records, currency), nil
}

func (s *LedgerService) publish(ctx context.Context, id, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordMirror(ctx, id, action); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish mirror message",
			log.FieldRecordID, id,
			"action", action,
			log.FieldError, err)
	}
}
