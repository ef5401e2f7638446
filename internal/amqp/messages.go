package amqp

import (
	"encoding/json"
	"time"
)

// Mirror actions carried on the queue.
const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordMirrorMessage asks the worker to mirror one ledger record.
// It carries only the id and action; the worker reads the current row
// from the store, so a burst of edits collapses into one fetch.
type RecordMirrorMessage struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordMirrorMessage(id, action string) *RecordMirrorMessage {
	return &RecordMirrorMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *RecordMirrorMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordMirrorMessageFromJSON(data []byte) (*RecordMirrorMessage, error) {
	var msg RecordMirrorMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
