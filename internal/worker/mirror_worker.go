// Package worker runs the mirror pipeline: it consumes mirror messages
// from the queue, reads the current record from the store, and pushes
// it to the configured sink. A periodic sweep over pending rows covers
// messages lost between API and broker.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/amqp"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/log"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/mirror"
)

// Storage is the slice of the sqlite store the worker needs. It is
// implemented by *sqlite.Store.
type Storage interface {
	GetTransactionAny(ctx context.Context, id string) (core.FinancialRecord, string, bool, error)
	PendingMirror(ctx context.Context, limit int) ([]string, error)
	MarkMirrored(ctx context.Context, id string) error
	MarkMirrorError(ctx context.Context, id string) error
}

// MirrorWorker wires the queue, the store, and one sink together.
type MirrorWorker struct {
	storage   Storage
	sink      mirror.Sink
	batchSize int
	logger    *slog.Logger
}

func NewMirrorWorker(storage Storage, sink mirror.Sink, batchSize int, logger *slog.Logger) *MirrorWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MirrorWorker{
		storage:   storage,
		sink:      sink,
		batchSize: batchSize,
		logger:    log.WithComponent(logger, log.ComponentWorker),
	}
}

// HandleMirrorMessage processes one queued message: read the row, push
// it to the sink, record the outcome on the row.
func (w *MirrorWorker) HandleMirrorMessage(ctx context.Context, msg *amqp.RecordMirrorMessage) error {
	if !validAction(msg.Action) {
		return fmt.Errorf("unknown mirror action %q", msg.Action)
	}

	w.logger.InfoContext(ctx, "processing mirror message",
		log.FieldRecordID, msg.ID,
		"action", msg.Action)

	record, _, _, err := w.storage.GetTransactionAny(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get record from storage: %w", err)
	}
	return w.mirrorRecord(ctx, msg.ID, msg.Action, record)
}

// mirrorRecord pushes one record to the sink and records the outcome
// on the row.
func (w *MirrorWorker) mirrorRecord(ctx context.Context, id, action string, record core.FinancialRecord) error {
	ev := mirror.Event{Action: action, Record: record}
	if err := w.sink.Mirror(ctx, ev); err != nil {
		if markErr := w.storage.MarkMirrorError(ctx, id); markErr != nil {
			w.logger.ErrorContext(ctx, "failed to mark mirror error",
				log.FieldRecordID, id,
				log.FieldError, markErr)
		}
		return fmt.Errorf("mirror record: %w", err)
	}

	if err := w.storage.MarkMirrored(ctx, id); err != nil {
		return fmt.Errorf("mark mirrored: %w", err)
	}

	w.logger.InfoContext(ctx, "mirrored record",
		log.FieldRecordID, id,
		"action", action)
	return nil
}

// ProcessPending sweeps rows whose mirror is outstanding. It is the
// backup path for messages that never reached the broker.
func (w *MirrorWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.storage.PendingMirror(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending mirrors: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "processing pending mirrors", "count", len(ids))

	var failed int
	for _, id := range ids {
		record, _, deleted, err := w.storage.GetTransactionAny(ctx, id)
		if err != nil {
			w.logger.ErrorContext(ctx, "failed to load pending record",
				log.FieldRecordID, id,
				log.FieldError, err)
			failed++
			continue
		}

		// A soft-deleted row in the sweep means the deletion message
		// never made it to the broker.
		action := amqp.ActionUpdated
		if deleted {
			action = amqp.ActionDeleted
		}
		if err := w.mirrorRecord(ctx, id, action, record); err != nil {
			w.logger.ErrorContext(ctx, "failed to mirror pending record",
				log.FieldRecordID, id,
				log.FieldError, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pending mirrors failed", failed, len(ids))
	}
	return nil
}

func validAction(a string) bool {
	switch a {
	case amqp.ActionAdded, amqp.ActionUpdated, amqp.ActionDeleted:
		return true
	}
	return false
}
