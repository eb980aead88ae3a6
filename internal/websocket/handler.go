package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"aimpact-messaging/internal/services"
	"aimpact-messaging/internal/transport/httpdto"
	"aimpact-messaging/pkg/logger"
)

// Inbound operation types. Frames with any other type are ignored.
const (
	opChatSend      = "chat.send"
	opNotifySend    = "notification.send"
	opNotifySendAll = "notification.sendToAll"
)

type inboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type chatSendPayload struct {
	ConversationID uuid.UUID `json:"conversationId"`
	RecipientID    uuid.UUID `json:"recipientId"`
	Text           string    `json:"text"`
}

type notifySendPayload struct {
	RecipientIDs []uuid.UUID `json:"recipientIds"`
	Title        string      `json:"title"`
	Message      string      `json:"message"`
	Type         string      `json:"type"`
}

type notifySendAllPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Handler owns the WebSocket handshake and the inbound frame dispatch.
// The connection's identity is fixed at handshake time; inbound frames
// never carry a sender, the resolved user is always the sender.
type Handler struct {
	hub           *Hub
	users         *services.UserService
	presence      *services.PresenceTracker
	messages      *services.MessageService
	notifications *services.NotificationService
	logger        *logger.Logger
}

func NewHandler(hub *Hub, users *services.UserService, presence *services.PresenceTracker, messages *services.MessageService, notifications *services.NotificationService, l *logger.Logger) *Handler {
	return &Handler{
		hub:           hub,
		users:         users,
		presence:      presence,
		messages:      messages,
		notifications: notifications,
		logger:        l,
	}
}

// Connect upgrades the request to a WebSocket connection. The userId
// query parameter must resolve to an existing user or the handshake is
// rejected before the upgrade.
func (h *Handler) Connect(c *gin.Context) {
	raw := c.Query("userId")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("userId is required", "UNAUTHORIZED"))
		return
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid userId", "INVALID_REQUEST"))
		return
	}

	if _, err := h.users.GetUser(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unknown user", "UNAUTHORIZED"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, userID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	h.presence.HandleConnected(ctx, userID)
	go client.WriteLoop(ctx)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		h.dispatch(ctx, userID, data)
	}

	h.hub.Unregister(client)
	h.presence.HandleDisconnected(context.Background(), userID)
}

// dispatch routes one inbound frame. Malformed frames and failing
// operations are logged and dropped; they never tear the connection down.
func (h *Handler) dispatch(ctx context.Context, senderID uuid.UUID, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.logger.Warnf("ws: malformed frame from %s: %s", senderID, err)
		return
	}

	switch frame.Type {
	case opChatSend:
		var p chatSendPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			h.logger.Warnf("ws: malformed %s payload from %s: %s", frame.Type, senderID, err)
			return
		}
		if _, err := h.messages.Send(ctx, p.ConversationID, senderID, p.RecipientID, p.Text); err != nil {
			h.logger.Warnf("ws: %s from %s failed: %s", frame.Type, senderID, err)
		}

	case opNotifySend:
		var p notifySendPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			h.logger.Warnf("ws: malformed %s payload from %s: %s", frame.Type, senderID, err)
			return
		}
		if _, err := h.notifications.Notify(ctx, p.RecipientIDs, p.Title, p.Message, p.Type); err != nil {
			h.logger.Warnf("ws: %s from %s failed: %s", frame.Type, senderID, err)
		}

	case opNotifySendAll:
		var p notifySendAllPayload
		if err := json.Unmarshal(frame.Payload, &p); err != nil {
			h.logger.Warnf("ws: malformed %s payload from %s: %s", frame.Type, senderID, err)
			return
		}
		if _, err := h.notifications.NotifyAll(ctx, senderID, p.Title, p.Message, p.Type); err != nil {
			h.logger.Warnf("ws: %s from %s failed: %s", frame.Type, senderID, err)
		}

	default:
		h.logger.Warnf("ws: unknown frame type %q from %s", frame.Type, senderID)
	}
}
