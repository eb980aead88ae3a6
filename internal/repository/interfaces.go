package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aimpact-messaging/internal/domain/conversation"
	"aimpact-messaging/internal/domain/message"
	"aimpact-messaging/internal/domain/notification"
	"aimpact-messaging/internal/domain/task"
	"aimpact-messaging/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetAll(ctx context.Context) ([]user.User, error)
	GetOnline(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, u user.User) error
	UpdateOnlineStatus(ctx context.Context, userID uuid.UUID, isOnline bool, lastActive time.Time) error
	UpdateLastActive(ctx context.Context, userID uuid.UUID, lastActive time.Time) error
	SetOffline(ctx context.Context, userID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, c *conversation.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error)
	GetByPairKey(ctx context.Context, pairKey string) (conversation.Conversation, error)
	GetForParticipant(ctx context.Context, userID uuid.UUID) ([]conversation.Conversation, error)
	GetAll(ctx context.Context) ([]conversation.Conversation, error)
	UpdateLastMessageAt(ctx context.Context, conversationID uuid.UUID, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByConversationAsc(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error)
	GetLatest(ctx context.Context, conversationID uuid.UUID) (message.Message, error)
	MarkConversationRead(ctx context.Context, conversationID, recipientID uuid.UUID) error
	MarkRead(ctx context.Context, ids []uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnreadInConversation(ctx context.Context, conversationID, recipientID uuid.UUID) (int64, error)
	CountInConversation(ctx context.Context, conversationID uuid.UUID) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (notification.Notification, error)
	GetForRecipientDesc(ctx context.Context, recipientID uuid.UUID) ([]notification.Notification, error)
	GetUnreadForRecipientDesc(ctx context.Context, recipientID uuid.UUID) ([]notification.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type TaskRepository interface {
	Create(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (task.Task, error)
	GetForAssignee(ctx context.Context, assigneeID uuid.UUID) ([]task.Task, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
}
