package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"aimpact-messaging/pkg/logger"
)

// Publisher is the raw transport primitive the fan-out rides on.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Pusher delivers a persisted event to one recipient, best-effort. It is
// invoked strictly after the corresponding save has succeeded; a push
// failure must never surface back into the write path.
type Pusher interface {
	Push(ctx context.Context, recipientID uuid.UUID, channel string, eventType string, payload any)
}

// Fanout implements Pusher over a Publisher. Fire and forget: errors are
// logged and dropped, there is no retry and no acknowledgment.
type Fanout struct {
	publisher Publisher
	logger    *logger.Logger
}

func NewFanout(publisher Publisher, l *logger.Logger) *Fanout {
	return &Fanout{publisher: publisher, logger: l}
}

func (f *Fanout) Push(ctx context.Context, recipientID uuid.UUID, channel string, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		if f.logger != nil {
			f.logger.Errorf("fanout: marshal %s payload: %s", eventType, err)
		}
		return
	}

	envelope, err := json.Marshal(Envelope{
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	})
	if err != nil {
		if f.logger != nil {
			f.logger.Errorf("fanout: marshal envelope: %s", err)
		}
		return
	}

	if err := f.publisher.Publish(ctx, UserChannel(recipientID, channel), envelope); err != nil {
		// Recipient may simply have no subscriber; the persisted row is
		// the durable source of truth they reconcile from.
		if f.logger != nil {
			f.logger.Warnf("fanout: push %s to %s failed: %s", eventType, recipientID, err)
		}
	}
}
