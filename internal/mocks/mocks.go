package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aimpact-messaging/internal/domain/conversation"
	"aimpact-messaging/internal/domain/message"
	"aimpact-messaging/internal/domain/notification"
	"aimpact-messaging/internal/domain/task"
	"aimpact-messaging/internal/domain/user"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	args := m.Called(ctx, id)
	var u user.User
	if val := args.Get(0); val != nil {
		u = val.(user.User)
	}
	return u, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	var u user.User
	if val := args.Get(0); val != nil {
		u = val.(user.User)
	}
	return u, args.Error(1)
}

func (m *UserRepositoryMock) GetAll(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	var users []user.User
	if val := args.Get(0); val != nil {
		users = val.([]user.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) GetOnline(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	var users []user.User
	if val := args.Get(0); val != nil {
		users = val.([]user.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) Update(ctx context.Context, u user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateOnlineStatus(ctx context.Context, userID uuid.UUID, isOnline bool, lastActive time.Time) error {
	args := m.Called(ctx, userID, isOnline, lastActive)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdateLastActive(ctx context.Context, userID uuid.UUID, lastActive time.Time) error {
	args := m.Called(ctx, userID, lastActive)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetOffline(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) Create(ctx context.Context, c *conversation.Conversation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error) {
	args := m.Called(ctx, id)
	var c conversation.Conversation
	if val := args.Get(0); val != nil {
		c = val.(conversation.Conversation)
	}
	return c, args.Error(1)
}

func (m *ConversationRepositoryMock) GetByPairKey(ctx context.Context, pairKey string) (conversation.Conversation, error) {
	args := m.Called(ctx, pairKey)
	var c conversation.Conversation
	if val := args.Get(0); val != nil {
		c = val.(conversation.Conversation)
	}
	return c, args.Error(1)
}

func (m *ConversationRepositoryMock) GetForParticipant(ctx context.Context, userID uuid.UUID) ([]conversation.Conversation, error) {
	args := m.Called(ctx, userID)
	var list []conversation.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]conversation.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) GetAll(ctx context.Context) ([]conversation.Conversation, error) {
	args := m.Called(ctx)
	var list []conversation.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]conversation.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) UpdateLastMessageAt(ctx context.Context, conversationID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, conversationID, at)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, msg *message.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepositoryMock) GetByConversationAsc(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []message.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]message.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetLatest(ctx context.Context, conversationID uuid.UUID) (message.Message, error) {
	args := m.Called(ctx, conversationID)
	var msg message.Message
	if val := args.Get(0); val != nil {
		msg = val.(message.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) MarkConversationRead(ctx context.Context, conversationID, recipientID uuid.UUID) error {
	args := m.Called(ctx, conversationID, recipientID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MessageRepositoryMock) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) CountUnreadInConversation(ctx context.Context, conversationID, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, conversationID, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) CountInConversation(ctx context.Context, conversationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).(int64), args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (notification.Notification, error) {
	args := m.Called(ctx, id)
	var n notification.Notification
	if val := args.Get(0); val != nil {
		n = val.(notification.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) GetForRecipientDesc(ctx context.Context, recipientID uuid.UUID) ([]notification.Notification, error) {
	args := m.Called(ctx, recipientID)
	var list []notification.Notification
	if val := args.Get(0); val != nil {
		list = val.([]notification.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) GetUnreadForRecipientDesc(ctx context.Context, recipientID uuid.UUID) ([]notification.Notification, error) {
	args := m.Called(ctx, recipientID)
	var list []notification.Notification
	if val := args.Get(0); val != nil {
		list = val.([]notification.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type TaskRepositoryMock struct {
	mock.Mock
}

func (m *TaskRepositoryMock) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (task.Task, error) {
	args := m.Called(ctx, id)
	var t task.Task
	if val := args.Get(0); val != nil {
		t = val.(task.Task)
	}
	return t, args.Error(1)
}

func (m *TaskRepositoryMock) GetForAssignee(ctx context.Context, assigneeID uuid.UUID) ([]task.Task, error) {
	args := m.Called(ctx, assigneeID)
	var list []task.Task
	if val := args.Get(0); val != nil {
		list = val.([]task.Task)
	}
	return list, args.Error(1)
}

func (m *TaskRepositoryMock) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// PusherMock records pushes instead of publishing them.
type PusherMock struct {
	mock.Mock
}

func (m *PusherMock) Push(ctx context.Context, recipientID uuid.UUID, channel string, eventType string, payload any) {
	m.Called(ctx, recipientID, channel, eventType, payload)
}
