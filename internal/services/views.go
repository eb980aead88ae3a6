package services

import (
	"time"

	"github.com/google/uuid"

	"aimpact-messaging/internal/domain/message"
	"aimpact-messaging/internal/domain/notification"
	"aimpact-messaging/internal/domain/task"
)

// Outward-facing projections. UserView carries a derived unreadMessages
// count computed against the message ledger on every call; it is never
// cached on the user row.

type UserView struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Avatar         string     `json:"avatar"`
	Role           string     `json:"role"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	LastActive     *time.Time `json:"lastActive,omitempty"`
	Online         bool       `json:"online"`
	UnreadMessages int64      `json:"unreadMessages"`
}

type MessageView struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversationId"`
	SenderID       uuid.UUID `json:"senderId"`
	RecipientID    uuid.UUID `json:"recipientId"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
	Read           bool      `json:"read"`
}

type ConversationView struct {
	ID            uuid.UUID    `json:"id"`
	Participants  []UserView   `json:"participants"`
	LastMessage   *MessageView `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time   `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UnreadCount   int64        `json:"unreadCount"`
}

type NotificationView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

type TaskView struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  uuid.UUID  `json:"assigneeId"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	Completed   bool       `json:"completed"`
}

func messageToView(m message.Message) MessageView {
	return MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		Text:           m.Text,
		Timestamp:      m.Timestamp,
		Read:           m.Read,
	}
}

func notificationToView(n notification.Notification) NotificationView {
	return NotificationView{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Timestamp: n.Timestamp,
		Read:      n.Read,
	}
}

func taskToView(t task.Task) TaskView {
	view := TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssigneeID:  t.AssigneeID,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		Completed:   t.Completed,
	}
	if t.DueDate.Valid {
		due := t.DueDate.Time
		view.DueDate = &due
	}
	return view
}
