package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"aimpact-messaging/internal/domain/message"
	"aimpact-messaging/internal/events"
	"aimpact-messaging/internal/repository"
	messaging_errors "aimpact-messaging/pkg/errors"
	"aimpact-messaging/pkg/logger"
)

// MessageService is the message ledger: append-only apart from the read
// flag, with viewer-scoped read state and unread counts.
type MessageService struct {
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
	users            *UserService
	fanout           events.Pusher
	logger           *logger.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, conversationRepo repository.ConversationRepository, users *UserService, fanout events.Pusher, l *logger.Logger) *MessageService {
	return &MessageService{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		users:            users,
		fanout:           fanout,
		logger:           l,
	}
}

// Send appends a message to the conversation and pushes it to the
// recipient. Unlike the read paths, failures here are signalled
// distinctly so the caller never announces a phantom send. The push runs
// only after the persist succeeded and its outcome does not affect the
// stored row.
func (s *MessageService) Send(ctx context.Context, conversationID, senderID, recipientID uuid.UUID, text string) (MessageView, error) {
	if strings.TrimSpace(text) == "" {
		return MessageView{}, messaging_errors.ErrInvalidInput
	}

	if _, err := s.conversationRepo.GetByID(ctx, conversationID); err != nil {
		return MessageView{}, err
	}
	if _, err := s.users.GetUser(ctx, senderID); err != nil {
		return MessageView{}, err
	}
	if _, err := s.users.GetUser(ctx, recipientID); err != nil {
		return MessageView{}, err
	}

	msg := message.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		Text:           text,
		Timestamp:      time.Now(),
		Read:           false,
	}

	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		return MessageView{}, err
	}

	// The message is durable at this point; a failed bookkeeping update
	// only costs lastMessageAt freshness.
	if err := s.conversationRepo.UpdateLastMessageAt(ctx, conversationID, msg.Timestamp); err != nil {
		s.logger.Warnf("message: update last_message_at for %s: %s", conversationID, err)
	}

	view := messageToView(msg)
	s.fanout.Push(ctx, recipientID, events.ChannelMessages, events.EventTypeMessageCreated, view)

	return view, nil
}

// GetForConversation returns the conversation's messages oldest first.
// Viewing marks the viewer's unread messages read as a side effect. The
// fetch runs first and only the returned messages are marked, so a
// message persisted mid-request is either shown and marked together on
// this call or left untouched for the next one.
// Unknown conversation or viewer ids degrade to an empty result.
func (s *MessageService) GetForConversation(ctx context.Context, conversationID, viewerID uuid.UUID) ([]MessageView, error) {
	if !s.resolveBoth(ctx, conversationID, viewerID) {
		return []MessageView{}, nil
	}

	messages, err := s.messageRepo.GetByConversationAsc(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	var viewedIDs []uuid.UUID
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		if m.RecipientID == viewerID && !m.Read {
			viewedIDs = append(viewedIDs, m.ID)
			m.Read = true
		}
		views = append(views, messageToView(m))
	}

	if len(viewedIDs) > 0 {
		if err := s.messageRepo.MarkRead(ctx, viewedIDs); err != nil {
			return nil, err
		}
	}
	return views, nil
}

// MarkRead is the explicit variant of the read-on-view mutation,
// idempotent and monotonic. Unknown ids are a no-op.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, viewerID uuid.UUID) error {
	if !s.resolveBoth(ctx, conversationID, viewerID) {
		return nil
	}
	return s.messageRepo.MarkConversationRead(ctx, conversationID, viewerID)
}

// CountUnread counts unread messages addressed to userID across all
// conversations. Unknown users count zero.
func (s *MessageService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}

func (s *MessageService) CountUnreadInConversation(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnreadInConversation(ctx, conversationID, userID)
}

func (s *MessageService) resolveBoth(ctx context.Context, conversationID, viewerID uuid.UUID) bool {
	if _, err := s.conversationRepo.GetByID(ctx, conversationID); err != nil {
		return false
	}
	if _, err := s.users.GetUser(ctx, viewerID); err != nil {
		return false
	}
	return true
}
