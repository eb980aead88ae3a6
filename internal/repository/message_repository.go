package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aimpact-messaging/internal/domain/message"
	messaging_errors "aimpact-messaging/pkg/errors"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostgresMessageRepository) GetByConversationAsc(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) GetLatest(ctx context.Context, conversationID uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, messaging_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}

// MarkConversationRead flips read on the viewer's unread messages in one
// statement. The read=false predicate keeps the flag monotonic and the
// call idempotent under concurrent invocation.
func (r *PostgresMessageRepository) MarkConversationRead(ctx context.Context, conversationID, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND read = ?", conversationID, recipientID, false).
		Update("read", true).Error
}

// MarkRead flips read on an explicit message set. Used by the
// read-on-view path so only messages actually returned to the viewer get
// marked.
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id IN ? AND read = ?", ids, false).
		Update("read", true).Error
}

func (r *PostgresMessageRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) CountUnreadInConversation(ctx context.Context, conversationID, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND read = ?", conversationID, recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) CountInConversation(ctx context.Context, conversationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
