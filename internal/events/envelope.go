package events

import (
	"encoding/json"
	"time"
)

type Envelope struct {
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Event types carried over the per-recipient channels.
const (
	EventTypeMessageCreated      = "message.created"
	EventTypeNotificationCreated = "notification.created"
)
