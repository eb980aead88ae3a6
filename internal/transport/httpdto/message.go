package httpdto

import "github.com/google/uuid"

type SendMessageRequest struct {
	ConversationID uuid.UUID `json:"conversationId" binding:"required"`
	SenderID       uuid.UUID `json:"senderId" binding:"required"`
	RecipientID    uuid.UUID `json:"recipientId" binding:"required"`
	Text           string    `json:"text" binding:"required"`
}
