package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aimpact-messaging/internal/services"
	"aimpact-messaging/internal/transport/httpdto"
)

type ConversationHandler struct {
	service *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// ListForUser returns the caller's conversations, most recent activity
// first. The viewer comes from the userId query parameter.
func (h *ConversationHandler) ListForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid userId", "INVALID_REQUEST"))
		return
	}

	conversations, err := h.service.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(conversations))
}

func (h *ConversationHandler) ListAll(c *gin.Context) {
	conversations, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(conversations))
}

func (h *ConversationHandler) GetOrCreate(c *gin.Context) {
	var req httpdto.GetOrCreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	conversation, err := h.service.GetOrCreate(c.Request.Context(), req.UserID1, req.UserID2)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(conversation))
}
