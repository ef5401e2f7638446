package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/amqp"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/mirror"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

type fakeStorage struct {
	records  map[string]core.FinancialRecord
	deleted  map[string]bool
	pending  []string
	mirrored []string
	errored  []string
}

func (f *fakeStorage) GetTransactionAny(_ context.Context, id string) (core.FinancialRecord, string, bool, error) {
	r, ok := f.records[id]
	if !ok {
		return core.FinancialRecord{}, "", false, store.ErrNotFound
	}
	return r, "user-1", f.deleted[id], nil
}

func (f *fakeStorage) PendingMirror(_ context.Context, limit int) ([]string, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeStorage) MarkMirrored(_ context.Context, id string) error {
	f.mirrored = append(f.mirrored, id)
	return nil
}

func (f *fakeStorage) MarkMirrorError(_ context.Context, id string) error {
	f.errored = append(f.errored, id)
	return nil
}

type fakeSink struct {
	events []mirror.Event
	err    error
}

func (f *fakeSink) Mirror(_ context.Context, ev mirror.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func sampleRecord(id string) core.FinancialRecord {
	return core.FinancialRecord{
		ID:         id,
		Amount:     core.Money{Paisa: 120000},
		Currency:   core.NPR,
		Kind:       core.Expense,
		Category:   "Groceries",
		OccurredOn: core.NewDate(2025, 4, 15),
		Scope:      core.Shared,
	}
}

func TestHandleMirrorMessage(t *testing.T) {
	st := &fakeStorage{records: map[string]core.FinancialRecord{"rec-1": sampleRecord("rec-1")}}
	sink := &fakeSink{}
	w := NewMirrorWorker(st, sink, 10, nil)

	msg := amqp.NewRecordMirrorMessage("rec-1", amqp.ActionAdded)
	if err := w.HandleMirrorMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("sink events = %d, want 1", len(sink.events))
	}
	if sink.events[0].Action != mirror.ActionAdded || sink.events[0].Record.ID != "rec-1" {
		t.Fatalf("event = %+v", sink.events[0])
	}
	if len(st.mirrored) != 1 || st.mirrored[0] != "rec-1" {
		t.Fatalf("mirrored = %v", st.mirrored)
	}
}

func TestHandleMirrorMessageSinkFailure(t *testing.T) {
	st := &fakeStorage{records: map[string]core.FinancialRecord{"rec-1": sampleRecord("rec-1")}}
	sink := &fakeSink{err: errors.New("sink down")}
	w := NewMirrorWorker(st, sink, 10, nil)

	msg := amqp.NewRecordMirrorMessage("rec-1", amqp.ActionUpdated)
	if err := w.HandleMirrorMessage(context.Background(), msg); err == nil {
		t.Fatal("want error when sink fails")
	}

	if len(st.errored) != 1 || st.errored[0] != "rec-1" {
		t.Fatalf("errored = %v, want [rec-1]", st.errored)
	}
	if len(st.mirrored) != 0 {
		t.Fatalf("mirrored = %v, want empty", st.mirrored)
	}
}

func TestHandleMirrorMessageUnknownRecord(t *testing.T) {
	st := &fakeStorage{records: map[string]core.FinancialRecord{}}
	w := NewMirrorWorker(st, &fakeSink{}, 10, nil)

	msg := amqp.NewRecordMirrorMessage("ghost", amqp.ActionAdded)
	if err := w.HandleMirrorMessage(context.Background(), msg); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestHandleMirrorMessageBadAction(t *testing.T) {
	st := &fakeStorage{records: map[string]core.FinancialRecord{"rec-1": sampleRecord("rec-1")}}
	w := NewMirrorWorker(st, &fakeSink{}, 10, nil)

	msg := amqp.NewRecordMirrorMessage("rec-1", "explode")
	if err := w.HandleMirrorMessage(context.Background(), msg); err == nil {
		t.Fatal("want error for unknown action")
	}
}

func TestProcessPending(t *testing.T) {
	st := &fakeStorage{
		records: map[string]core.FinancialRecord{
			"a": sampleRecord("a"),
			"b": sampleRecord("b"),
		},
		pending: []string{"a", "b"},
	}
	sink := &fakeSink{}
	w := NewMirrorWorker(st, sink, 10, nil)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(sink.events) != 2 {
		t.Fatalf("sink events = %d, want 2", len(sink.events))
	}
	if len(st.mirrored) != 2 {
		t.Fatalf("mirrored = %v", st.mirrored)
	}
}

func TestProcessPendingAnnouncesDeletion(t *testing.T) {
	st := &fakeStorage{
		records: map[string]core.FinancialRecord{
			"kept": sampleRecord("kept"),
			"gone": sampleRecord("gone"),
		},
		deleted: map[string]bool{"gone": true},
		pending: []string{"kept", "gone"},
	}
	sink := &fakeSink{}
	w := NewMirrorWorker(st, sink, 10, nil)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(sink.events) != 2 {
		t.Fatalf("sink events = %d, want 2", len(sink.events))
	}

	actions := map[string]string{}
	for _, ev := range sink.events {
		actions[ev.Record.ID] = ev.Action
	}
	if actions["kept"] != mirror.ActionUpdated {
		t.Fatalf("kept record action = %q, want %q", actions["kept"], mirror.ActionUpdated)
	}
	if actions["gone"] != mirror.ActionDeleted {
		t.Fatalf("soft-deleted record action = %q, want %q", actions["gone"], mirror.ActionDeleted)
	}
	if len(st.mirrored) != 2 {
		t.Fatalf("mirrored = %v", st.mirrored)
	}
}

func TestProcessPendingReportsFailures(t *testing.T) {
	st := &fakeStorage{
		records: map[string]core.FinancialRecord{"a": sampleRecord("a")},
		pending: []string{"a", "missing"},
	}
	w := NewMirrorWorker(st, &fakeSink{}, 10, nil)

	if err := w.ProcessPending(context.Background()); err == nil {
		t.Fatal("want error when a pending mirror fails")
	}
	if len(st.mirrored) != 1 {
		t.Fatalf("mirrored = %v, want just the good record", st.mirrored)
	}
}

func TestProcessPendingEmpty(t *testing.T) {
	st := &fakeStorage{}
	sink := &fakeSink{}
	w := NewMirrorWorker(st, sink, 10, nil)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("sink events = %d, want 0", len(sink.events))
	}
}
