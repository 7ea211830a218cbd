package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventEntryCreated   = "entry.created"
	EventEntriesDeleted = "entries.deleted"
)

// EntryEvent is the wire message for ledger changes. It carries ids only;
// subscribers that need the full rows fetch them from the store.
type EntryEvent struct {
	Event     string    `json:"event"`
	IDs       []int64   `json:"ids"`
	Period    string    `json:"period,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryEvent(event string, ids []int64, period string) *EntryEvent {
	return &EntryEvent{
		Event:     event,
		IDs:       ids,
		Period:    period,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventFromJSON creates a message from JSON bytes
func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var msg EntryEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
