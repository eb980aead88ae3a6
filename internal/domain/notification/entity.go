package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification represents the notifications table.
// A broadcast fans out into one independent row per recipient; rows are
// never shared between users.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"not null"`
	Message     string    `gorm:"type:text;not null"`
	Type        string
	Timestamp   time.Time `gorm:"index"`
	Read        bool
}

func (Notification) TableName() string {
	return "notifications"
}
