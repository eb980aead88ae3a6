package services

import (
	"context"

	"github.com/google/uuid"

	"aimpact-messaging/pkg/logger"
)

// PresenceTracker maps connection lifecycle events onto the directory's
// online flag. Presence is a flat boolean: concurrent connections for the
// same user are not reference-counted, so the close of any connection
// marks the user offline.
type PresenceTracker struct {
	users  *UserService
	logger *logger.Logger
}

func NewPresenceTracker(users *UserService, l *logger.Logger) *PresenceTracker {
	return &PresenceTracker{users: users, logger: l}
}

func (t *PresenceTracker) HandleConnected(ctx context.Context, userID uuid.UUID) {
	t.logger.Infof("presence: user %s connected", userID)
	if err := t.users.SetOnlineStatus(ctx, userID, true); err != nil {
		t.logger.Errorf("presence: mark %s online: %s", userID, err)
	}
}

func (t *PresenceTracker) HandleDisconnected(ctx context.Context, userID uuid.UUID) {
	t.logger.Infof("presence: user %s disconnected", userID)
	if err := t.users.SetOnlineStatus(ctx, userID, false); err != nil {
		t.logger.Errorf("presence: mark %s offline: %s", userID, err)
	}
}
