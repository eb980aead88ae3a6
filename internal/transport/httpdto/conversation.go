package httpdto

import "github.com/google/uuid"

type GetOrCreateConversationRequest struct {
	UserID1 uuid.UUID `json:"userId1" binding:"required"`
	UserID2 uuid.UUID `json:"userId2" binding:"required"`
}
