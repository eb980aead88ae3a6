package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aimpact-messaging/internal/domain/conversation"
	"aimpact-messaging/internal/domain/message"
	"aimpact-messaging/internal/domain/user"
	"aimpact-messaging/internal/mocks"
	"aimpact-messaging/internal/services"
	messaging_errors "aimpact-messaging/pkg/errors"
	"aimpact-messaging/pkg/logger"
)

type messageRouterFixture struct {
	router      *gin.Engine
	messageRepo *mocks.MessageRepositoryMock
	convRepo    *mocks.ConversationRepositoryMock
	userRepo    *mocks.UserRepositoryMock
	pusher      *mocks.PusherMock
}

func setupMessageRouter(t *testing.T) *messageRouterFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := &logger.Logger{Logger: zap.NewNop()}

	f := &messageRouterFixture{
		messageRepo: new(mocks.MessageRepositoryMock),
		convRepo:    new(mocks.ConversationRepositoryMock),
		userRepo:    new(mocks.UserRepositoryMock),
		pusher:      new(mocks.PusherMock),
	}
	users := services.NewUserService(f.userRepo, f.messageRepo, l)
	svc := services.NewMessageService(f.messageRepo, f.convRepo, users, f.pusher, l)
	h := NewMessageHandler(svc, nil)

	r := gin.New()
	r.POST("/api/messages", h.Send)
	r.GET("/api/messages/conversation/:id", h.ListForConversation)
	r.GET("/api/messages/unread/count", h.CountUnread)
	f.router = r
	return f
}

func TestSendMessageEndpoint(t *testing.T) {
	f := setupMessageRouter(t)

	convID := uuid.New()
	sender := uuid.New()
	recipient := uuid.New()

	f.convRepo.On("GetByID", mock.Anything, convID).Return(conversation.Conversation{ID: convID}, nil).Once()
	f.userRepo.On("GetByID", mock.Anything, sender).Return(user.User{ID: sender}, nil).Once()
	f.userRepo.On("GetByID", mock.Anything, recipient).Return(user.User{ID: recipient}, nil).Once()
	f.messageRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.convRepo.On("UpdateLastMessageAt", mock.Anything, convID, mock.Anything).Return(nil).Once()
	f.pusher.On("Push", mock.Anything, recipient, mock.Anything, mock.Anything, mock.Anything).Once()

	payload := fmt.Sprintf(`{"conversationId":%q,"senderId":%q,"recipientId":%q,"text":"hello"}`,
		convID, sender, recipient)
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	f.pusher.AssertExpectations(t)
}

func TestSendMessageUnknownConversationIs404(t *testing.T) {
	f := setupMessageRouter(t)

	convID := uuid.New()
	f.convRepo.On("GetByID", mock.Anything, convID).
		Return(conversation.Conversation{}, messaging_errors.ErrNotFound).Once()

	payload := fmt.Sprintf(`{"conversationId":%q,"senderId":%q,"recipientId":%q,"text":"hello"}`,
		convID, uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageMissingFieldsIs400(t *testing.T) {
	f := setupMessageRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewBufferString(`{"text":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	f.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListConversationMessagesMarksRead(t *testing.T) {
	f := setupMessageRouter(t)

	convID := uuid.New()
	viewer := uuid.New()

	unread := message.Message{ID: uuid.New(), ConversationID: convID, RecipientID: viewer}

	f.convRepo.On("GetByID", mock.Anything, convID).Return(conversation.Conversation{ID: convID}, nil).Once()
	f.userRepo.On("GetByID", mock.Anything, viewer).Return(user.User{ID: viewer}, nil).Once()
	f.messageRepo.On("GetByConversationAsc", mock.Anything, convID).Return([]message.Message{unread}, nil).Once()
	f.messageRepo.On("MarkRead", mock.Anything, []uuid.UUID{unread.ID}).Return(nil).Once()

	url := "/api/messages/conversation/" + convID.String() + "?userId=" + viewer.String()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	f.messageRepo.AssertExpectations(t)
}

func TestCountUnreadEndpoint(t *testing.T) {
	f := setupMessageRouter(t)

	id := uuid.New()
	f.messageRepo.On("CountUnread", mock.Anything, id).Return(int64(4), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/messages/unread/count?userId="+id.String(), nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
