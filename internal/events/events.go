package events

import (
	"encoding/json"
	"time"
)

// Event is one progress notification from a collection run.
type Event struct {
	Type string          `json:"type"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data,omitempty"`
}

// New stamps a typed event with the current time, serializing the payload up
// front so every subscriber sees the same bytes.
func New(typ string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{Type: typ, At: time.Now().UTC(), Data: raw}
}

// JSON renders the SSE wire form of the event.
func (e Event) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}
