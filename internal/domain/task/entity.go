package task

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Task represents the tasks table
type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text"`
	AssigneeID  uuid.UUID `gorm:"type:uuid;index;not null"`
	DueDate     sql.NullTime
	Priority    string
	CreatedAt   time.Time
	Completed   bool
}

func (Task) TableName() string {
	return "tasks"
}
