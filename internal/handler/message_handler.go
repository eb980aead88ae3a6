package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aimpact-messaging/internal/middleware"
	"aimpact-messaging/internal/redis"
	"aimpact-messaging/internal/services"
	"aimpact-messaging/internal/transport/httpdto"
)

type MessageHandler struct {
	service *services.MessageService
	limiter *redis.RateLimiter
}

func NewMessageHandler(service *services.MessageService, limiter *redis.RateLimiter) *MessageHandler {
	return &MessageHandler{service: service, limiter: limiter}
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if h.limiter != nil {
		result, err := h.limiter.AllowSend(c.Request.Context(), req.SenderID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
			return
		}
		middleware.SetRateLimitHeaders(c, result)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("send rate limit exceeded", "RATE_LIMITED"))
			return
		}
	}

	msg, err := h.service.Send(c.Request.Context(), req.ConversationID, req.SenderID, req.RecipientID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(msg))
}

// ListForConversation returns the conversation's messages oldest first
// and marks the viewer's unread messages read.
func (h *MessageHandler) ListForConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation id", "INVALID_REQUEST"))
		return
	}
	viewerID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid userId", "INVALID_REQUEST"))
		return
	}

	messages, err := h.service.GetForConversation(c.Request.Context(), conversationID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(messages))
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation id", "INVALID_REQUEST"))
		return
	}
	viewerID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid userId", "INVALID_REQUEST"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), conversationID, viewerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *MessageHandler) CountUnread(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid userId", "INVALID_REQUEST"))
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"count": count}))
}

func (h *MessageHandler) CountUnreadInConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation id", "INVALID_REQUEST"))
		return
	}
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid userId", "INVALID_REQUEST"))
		return
	}

	count, err := h.service.CountUnreadInConversation(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"count": count}))
}
