package httpdto

import "github.com/google/uuid"

type SendNotificationRequest struct {
	RecipientIDs []uuid.UUID `json:"recipientIds" binding:"required"`
	Title        string      `json:"title" binding:"required"`
	Message      string      `json:"message" binding:"required"`
	Type         string      `json:"type"`
}

type SendNotificationToAllRequest struct {
	SenderID uuid.UUID `json:"senderId" binding:"required"`
	Title    string    `json:"title" binding:"required"`
	Message  string    `json:"message" binding:"required"`
	Type     string    `json:"type"`
}
