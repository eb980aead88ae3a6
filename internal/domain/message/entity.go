package message

import (
	"time"

	"github.com/google/uuid"
)

// Message represents the messages table.
// Read is monotonic: it only ever transitions false -> true, and only via
// the recipient-side read path. Messages are removed exclusively through
// the cascade on their conversation.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;index;not null"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null"`
	RecipientID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Text           string    `gorm:"type:text;not null"`
	Timestamp      time.Time `gorm:"index"`
	Read           bool
}

func (Message) TableName() string {
	return "messages"
}
