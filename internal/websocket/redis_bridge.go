package websocket

import (
	"context"

	"aimpact-messaging/internal/events"
	"aimpact-messaging/pkg/logger"
)

// Subscriber is the pub/sub side the bridge listens on.
type Subscriber interface {
	Subscribe(ctx context.Context, patterns []string, handler func(channel string, payload []byte)) error
}

// RedisBridge relays published per-user events into the local hub, so
// every instance delivers to the connections it holds regardless of
// which instance persisted the event.
type RedisBridge struct {
	subscriber Subscriber
	hub        *Hub
	logger     *logger.Logger
}

func NewRedisBridge(subscriber Subscriber, hub *Hub, l *logger.Logger) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub, logger: l}
}

func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{events.UserChannelPattern}, func(channel string, payload []byte) {
		userID, _, ok := events.ParseUserChannel(channel)
		if !ok {
			b.logger.Warnf("bridge: unrecognized channel %q", channel)
			return
		}
		b.hub.BroadcastToUser(userID, payload)
	})
}
