package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aimpact-messaging/internal/domain/conversation"
	"aimpact-messaging/internal/domain/message"
	"aimpact-messaging/internal/domain/user"
	"aimpact-messaging/internal/events"
	"aimpact-messaging/internal/mocks"
	messaging_errors "aimpact-messaging/pkg/errors"
)

func newMessageFixture(t *testing.T) (*MessageService, *mocks.MessageRepositoryMock, *mocks.ConversationRepositoryMock, *mocks.UserRepositoryMock, *mocks.PusherMock) {
	t.Helper()
	messageRepo := new(mocks.MessageRepositoryMock)
	convRepo := new(mocks.ConversationRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	pusher := new(mocks.PusherMock)
	users := NewUserService(userRepo, messageRepo, testLogger())
	svc := NewMessageService(messageRepo, convRepo, users, pusher, testLogger())
	return svc, messageRepo, convRepo, userRepo, pusher
}

func TestSendPersistsThenPushes(t *testing.T) {
	svc, messageRepo, convRepo, userRepo, pusher := newMessageFixture(t)

	convID := uuid.New()
	sender := uuid.New()
	recipient := uuid.New()

	convRepo.On("GetByID", mock.Anything, convID).Return(conversation.Conversation{ID: convID}, nil).Once()
	userRepo.On("GetByID", mock.Anything, sender).Return(user.User{ID: sender}, nil).Once()
	userRepo.On("GetByID", mock.Anything, recipient).Return(user.User{ID: recipient}, nil).Once()
	messageRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *message.Message) bool {
		return m.ConversationID == convID && m.SenderID == sender && m.RecipientID == recipient && !m.Read
	})).Return(nil).Once()
	convRepo.On("UpdateLastMessageAt", mock.Anything, convID, mock.Anything).Return(nil).Once()
	pusher.On("Push", mock.Anything, recipient, events.ChannelMessages, events.EventTypeMessageCreated, mock.Anything).Once()

	view, err := svc.Send(context.Background(), convID, sender, recipient, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", view.Text)
	assert.False(t, view.Read)
	messageRepo.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestSendRejectsBlankText(t *testing.T) {
	svc, messageRepo, _, _, pusher := newMessageFixture(t)

	_, err := svc.Send(context.Background(), uuid.New(), uuid.New(), uuid.New(), "   ")
	assert.ErrorIs(t, err, messaging_errors.ErrInvalidInput)
	messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	pusher.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendFailedPersistSuppressesPush(t *testing.T) {
	svc, messageRepo, convRepo, userRepo, pusher := newMessageFixture(t)

	convID := uuid.New()
	sender := uuid.New()
	recipient := uuid.New()

	convRepo.On("GetByID", mock.Anything, convID).Return(conversation.Conversation{ID: convID}, nil).Once()
	userRepo.On("GetByID", mock.Anything, sender).Return(user.User{ID: sender}, nil).Once()
	userRepo.On("GetByID", mock.Anything, recipient).Return(user.User{ID: recipient}, nil).Once()
	messageRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := svc.Send(context.Background(), convID, sender, recipient, "hello")
	require.Error(t, err)
	pusher.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendUnknownConversationFailsDistinctly(t *testing.T) {
	svc, messageRepo, convRepo, _, _ := newMessageFixture(t)

	convID := uuid.New()
	convRepo.On("GetByID", mock.Anything, convID).
		Return(conversation.Conversation{}, messaging_errors.ErrNotFound).Once()

	_, err := svc.Send(context.Background(), convID, uuid.New(), uuid.New(), "hello")
	assert.ErrorIs(t, err, messaging_errors.ErrNotFound)
	messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendSucceedsWhenBookkeepingFails(t *testing.T) {
	svc, messageRepo, convRepo, userRepo, pusher := newMessageFixture(t)

	convID := uuid.New()
	sender := uuid.New()
	recipient := uuid.New()

	convRepo.On("GetByID", mock.Anything, convID).Return(conversation.Conversation{ID: convID}, nil).Once()
	userRepo.On("GetByID", mock.Anything, sender).Return(user.User{ID: sender}, nil).Once()
	userRepo.On("GetByID", mock.Anything, recipient).Return(user.User{ID: recipient}, nil).Once()
	messageRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	convRepo.On("UpdateLastMessageAt", mock.Anything, convID, mock.Anything).Return(assert.AnError).Once()
	pusher.On("Push", mock.Anything, recipient, events.ChannelMessages, events.EventTypeMessageCreated, mock.Anything).Once()

	_, err := svc.Send(context.Background(), convID, sender, recipient, "hello")
	assert.NoError(t, err)
	pusher.AssertExpectations(t)
}

func TestGetForConversationMarksOnlyFetchedMessages(t *testing.T) {
	svc, messageRepo, convRepo, userRepo, _ := newMessageFixture(t)

	convID := uuid.New()
	viewer := uuid.New()
	sender := uuid.New()

	unreadForViewer := message.Message{
		ID: uuid.New(), ConversationID: convID, SenderID: sender, RecipientID: viewer,
		Timestamp: time.Now().Add(-time.Minute), Read: false,
	}
	sentByViewer := message.Message{
		ID: uuid.New(), ConversationID: convID, SenderID: viewer, RecipientID: sender,
		Timestamp: time.Now(), Read: false,
	}

	convRepo.On("GetByID", mock.Anything, convID).Return(conversation.Conversation{ID: convID}, nil).Once()
	userRepo.On("GetByID", mock.Anything, viewer).Return(user.User{ID: viewer}, nil).Once()
	messageRepo.On("GetByConversationAsc", mock.Anything, convID).
		Return([]message.Message{unreadForViewer, sentByViewer}, nil).Once()
	messageRepo.On("MarkRead", mock.Anything, []uuid.UUID{unreadForViewer.ID}).Return(nil).Once()

	views, err := svc.GetForConversation(context.Background(), convID, viewer)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].Read, "fetched message addressed to the viewer must come back read")
	assert.False(t, views[1].Read, "the viewer's own outgoing message stays untouched")
	messageRepo.AssertExpectations(t)
	messageRepo.AssertNotCalled(t, "MarkConversationRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetForConversationEveryReturnedUnreadIsMarked(t *testing.T) {
	svc, messageRepo, convRepo, userRepo, _ := newMessageFixture(t)

	convID := uuid.New()
	viewer := uuid.New()
	sender := uuid.New()

	// Simulates a message landing between an earlier read pass and this
	// fetch: whatever the fetch returns unread for the viewer must be in
	// the mark set of this same call, never silently skipped.
	first := message.Message{
		ID: uuid.New(), ConversationID: convID, SenderID: sender, RecipientID: viewer,
		Timestamp: time.Now().Add(-time.Minute), Read: true,
	}
	lateArrival := message.Message{
		ID: uuid.New(), ConversationID: convID, SenderID: sender, RecipientID: viewer,
		Timestamp: time.Now(), Read: false,
	}

	convRepo.On("GetByID", mock.Anything, convID).Return(conversation.Conversation{ID: convID}, nil).Once()
	userRepo.On("GetByID", mock.Anything, viewer).Return(user.User{ID: viewer}, nil).Once()
	messageRepo.On("GetByConversationAsc", mock.Anything, convID).
		Return([]message.Message{first, lateArrival}, nil).Once()
	messageRepo.On("MarkRead", mock.Anything, []uuid.UUID{lateArrival.ID}).Return(nil).Once()

	views, err := svc.GetForConversation(context.Background(), convID, viewer)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.True(t, v.Read, "no viewer-addressed message may be returned unread")
	}
	messageRepo.AssertExpectations(t)
}

func TestGetForConversationAllReadSkipsMark(t *testing.T) {
	svc, messageRepo, convRepo, userRepo, _ := newMessageFixture(t)

	convID := uuid.New()
	viewer := uuid.New()

	convRepo.On("GetByID", mock.Anything, convID).Return(conversation.Conversation{ID: convID}, nil).Once()
	userRepo.On("GetByID", mock.Anything, viewer).Return(user.User{ID: viewer}, nil).Once()
	messageRepo.On("GetByConversationAsc", mock.Anything, convID).Return([]message.Message{
		{ID: uuid.New(), ConversationID: convID, RecipientID: viewer, Read: true},
	}, nil).Once()

	views, err := svc.GetForConversation(context.Background(), convID, viewer)
	require.NoError(t, err)
	assert.Len(t, views, 1)
	messageRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestGetForConversationUnknownIDsReturnEmpty(t *testing.T) {
	svc, messageRepo, convRepo, _, _ := newMessageFixture(t)

	convID := uuid.New()
	convRepo.On("GetByID", mock.Anything, convID).
		Return(conversation.Conversation{}, messaging_errors.ErrNotFound).Once()

	views, err := svc.GetForConversation(context.Background(), convID, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, views)
	messageRepo.AssertNotCalled(t, "MarkConversationRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkReadUnknownIDsIsNoop(t *testing.T) {
	svc, messageRepo, convRepo, _, _ := newMessageFixture(t)

	convID := uuid.New()
	convRepo.On("GetByID", mock.Anything, convID).
		Return(conversation.Conversation{}, messaging_errors.ErrNotFound).Once()

	assert.NoError(t, svc.MarkRead(context.Background(), convID, uuid.New()))
	messageRepo.AssertNotCalled(t, "MarkConversationRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestCountUnreadPassesThrough(t *testing.T) {
	svc, messageRepo, _, _, _ := newMessageFixture(t)

	id := uuid.New()
	messageRepo.On("CountUnread", mock.Anything, id).Return(int64(7), nil).Once()

	count, err := svc.CountUnread(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
