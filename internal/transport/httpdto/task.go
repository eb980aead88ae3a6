package httpdto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssigneeID  uuid.UUID  `json:"assigneeId" binding:"required"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
}
