package conversation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Conversation represents the conversations table.
// A conversation always has exactly two participants; PairKey is the
// normalized unordered participant pair and carries the uniqueness
// guarantee at the storage layer.
type Conversation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PairKey       string    `gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time
	LastMessageAt sql.NullTime

	// Relationships
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE"`
}

// Participant represents the conversation_participants table
type Participant struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	JoinedAt       time.Time
}

// PairKey normalizes an unordered user pair into a stable lookup key.
// PairKey(a, b) == PairKey(b, a) for any a, b.
func PairKey(a, b uuid.UUID) string {
	if a.String() < b.String() {
		return a.String() + ":" + b.String()
	}
	return b.String() + ":" + a.String()
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Participant) TableName() string {
	return "conversation_participants"
}
