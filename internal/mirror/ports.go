// Package mirror defines where ledger writes get mirrored to. A sink
// is an external destination (chat webhook, spreadsheet) that receives
// a copy of every create, update, and delete; the store of record is
// never the sink.
package mirror

import (
	"context"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
)

// Actions a mirrored event can carry.
const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is one ledger change to mirror. Record holds the row as read
// from the store at mirror time.
type Event struct {
	Action string
	Record core.FinancialRecord
}

// Sink pushes one event to the external destination. An error means
// the event was not delivered and may be retried.
type Sink interface {
	Mirror(ctx context.Context, ev Event) error
}
