package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aimpact-messaging/internal/domain/conversation"
	"aimpact-messaging/internal/domain/message"
	"aimpact-messaging/internal/domain/user"
	"aimpact-messaging/internal/mocks"
	messaging_errors "aimpact-messaging/pkg/errors"
)

func newConversationFixture(t *testing.T) (*ConversationService, *mocks.ConversationRepositoryMock, *mocks.MessageRepositoryMock, *mocks.UserRepositoryMock) {
	t.Helper()
	convRepo := new(mocks.ConversationRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	users := NewUserService(userRepo, messageRepo, testLogger())
	svc := NewConversationService(convRepo, messageRepo, users, testLogger())
	return svc, convRepo, messageRepo, userRepo
}

func expectUser(userRepo *mocks.UserRepositoryMock, id uuid.UUID) {
	userRepo.On("GetByID", mock.Anything, id).Return(user.User{ID: id}, nil)
}

func TestGetOrCreateReturnsSameConversationForBothOrders(t *testing.T) {
	svc, convRepo, messageRepo, userRepo := newConversationFixture(t)

	a := uuid.New()
	b := uuid.New()
	pairKey := conversation.PairKey(a, b)
	require.Equal(t, pairKey, conversation.PairKey(b, a))

	existing := conversation.Conversation{
		ID:      uuid.New(),
		PairKey: pairKey,
		Participants: []conversation.Participant{
			{UserID: a}, {UserID: b},
		},
		CreatedAt: time.Now(),
	}

	expectUser(userRepo, a)
	expectUser(userRepo, b)
	messageRepo.On("CountUnread", mock.Anything, mock.Anything).Return(int64(0), nil)
	convRepo.On("GetByPairKey", mock.Anything, pairKey).Return(existing, nil).Twice()
	messageRepo.On("GetLatest", mock.Anything, existing.ID).Return(message.Message{}, messaging_errors.ErrNotFound).Twice()
	messageRepo.On("CountUnreadInConversation", mock.Anything, existing.ID, mock.Anything).Return(int64(0), nil).Twice()

	first, err := svc.GetOrCreate(context.Background(), a, b)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(context.Background(), b, a)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	convRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetOrCreateCreatesWhenAbsent(t *testing.T) {
	svc, convRepo, messageRepo, userRepo := newConversationFixture(t)

	a := uuid.New()
	b := uuid.New()
	pairKey := conversation.PairKey(a, b)

	expectUser(userRepo, a)
	expectUser(userRepo, b)
	messageRepo.On("CountUnread", mock.Anything, mock.Anything).Return(int64(0), nil)
	convRepo.On("GetByPairKey", mock.Anything, pairKey).
		Return(conversation.Conversation{}, messaging_errors.ErrNotFound).Once()
	convRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *conversation.Conversation) bool {
		return c.PairKey == pairKey && len(c.Participants) == 2
	})).Return(nil).Once()
	messageRepo.On("GetLatest", mock.Anything, mock.Anything).Return(message.Message{}, messaging_errors.ErrNotFound).Once()
	messageRepo.On("CountUnreadInConversation", mock.Anything, mock.Anything, a).Return(int64(0), nil).Once()

	view, err := svc.GetOrCreate(context.Background(), a, b)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, view.ID)
	convRepo.AssertExpectations(t)
}

func TestGetOrCreateSelfPairStoresOneParticipant(t *testing.T) {
	svc, convRepo, messageRepo, userRepo := newConversationFixture(t)

	a := uuid.New()
	pairKey := conversation.PairKey(a, a)

	expectUser(userRepo, a)
	messageRepo.On("CountUnread", mock.Anything, mock.Anything).Return(int64(0), nil)
	convRepo.On("GetByPairKey", mock.Anything, pairKey).
		Return(conversation.Conversation{}, messaging_errors.ErrNotFound).Once()
	convRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *conversation.Conversation) bool {
		return c.PairKey == pairKey && len(c.Participants) == 1 && c.Participants[0].UserID == a
	})).Return(nil).Once()
	messageRepo.On("GetLatest", mock.Anything, mock.Anything).Return(message.Message{}, messaging_errors.ErrNotFound).Once()
	messageRepo.On("CountUnreadInConversation", mock.Anything, mock.Anything, a).Return(int64(0), nil).Once()

	view, err := svc.GetOrCreate(context.Background(), a, a)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, view.ID)
	convRepo.AssertExpectations(t)
}

func TestGetOrCreateRetriesLookupOnConflict(t *testing.T) {
	svc, convRepo, messageRepo, userRepo := newConversationFixture(t)

	a := uuid.New()
	b := uuid.New()
	pairKey := conversation.PairKey(a, b)
	winner := conversation.Conversation{
		ID:           uuid.New(),
		PairKey:      pairKey,
		Participants: []conversation.Participant{{UserID: a}, {UserID: b}},
	}

	expectUser(userRepo, a)
	expectUser(userRepo, b)
	messageRepo.On("CountUnread", mock.Anything, mock.Anything).Return(int64(0), nil)
	convRepo.On("GetByPairKey", mock.Anything, pairKey).
		Return(conversation.Conversation{}, messaging_errors.ErrNotFound).Once()
	convRepo.On("Create", mock.Anything, mock.Anything).
		Return(messaging_errors.ErrAlreadyExists).Once()
	convRepo.On("GetByPairKey", mock.Anything, pairKey).Return(winner, nil).Once()
	messageRepo.On("GetLatest", mock.Anything, winner.ID).Return(message.Message{}, messaging_errors.ErrNotFound).Once()
	messageRepo.On("CountUnreadInConversation", mock.Anything, winner.ID, a).Return(int64(0), nil).Once()

	view, err := svc.GetOrCreate(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, view.ID)
	convRepo.AssertExpectations(t)
}

func TestGetOrCreateRejectsUnknownParticipant(t *testing.T) {
	svc, _, _, userRepo := newConversationFixture(t)

	a := uuid.New()
	b := uuid.New()
	expectUser(userRepo, a)
	userRepo.On("GetByID", mock.Anything, b).Return(user.User{}, messaging_errors.ErrNotFound)

	_, err := svc.GetOrCreate(context.Background(), a, b)
	assert.ErrorIs(t, err, messaging_errors.ErrInvalidParticipant)
}

func TestGetForUserUnknownUserReturnsEmpty(t *testing.T) {
	svc, _, _, userRepo := newConversationFixture(t)

	id := uuid.New()
	userRepo.On("GetByID", mock.Anything, id).Return(user.User{}, messaging_errors.ErrNotFound)

	views, err := svc.GetForUser(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetForUserSortsByActivityDesc(t *testing.T) {
	svc, convRepo, messageRepo, userRepo := newConversationFixture(t)

	viewer := uuid.New()
	other1 := uuid.New()
	other2 := uuid.New()

	old := conversation.Conversation{
		ID:           uuid.New(),
		Participants: []conversation.Participant{{UserID: viewer}, {UserID: other1}},
		CreatedAt:    time.Now().Add(-2 * time.Hour),
	}
	recent := conversation.Conversation{
		ID:           uuid.New(),
		Participants: []conversation.Participant{{UserID: viewer}, {UserID: other2}},
		CreatedAt:    time.Now().Add(-2 * time.Hour),
	}

	expectUser(userRepo, viewer)
	expectUser(userRepo, other1)
	expectUser(userRepo, other2)
	messageRepo.On("CountUnread", mock.Anything, mock.Anything).Return(int64(0), nil)
	convRepo.On("GetForParticipant", mock.Anything, viewer).
		Return([]conversation.Conversation{old, recent}, nil).Once()

	messageRepo.On("GetLatest", mock.Anything, old.ID).Return(message.Message{
		ID: uuid.New(), ConversationID: old.ID, Timestamp: time.Now().Add(-time.Hour),
	}, nil).Once()
	messageRepo.On("GetLatest", mock.Anything, recent.ID).Return(message.Message{
		ID: uuid.New(), ConversationID: recent.ID, Timestamp: time.Now(),
	}, nil).Once()
	messageRepo.On("CountUnreadInConversation", mock.Anything, mock.Anything, viewer).Return(int64(0), nil)

	views, err := svc.GetForUser(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, recent.ID, views[0].ID)
	assert.Equal(t, old.ID, views[1].ID)
}

func TestGetForUserAnnotatesOtherParticipantOnly(t *testing.T) {
	svc, convRepo, messageRepo, userRepo := newConversationFixture(t)

	viewer := uuid.New()
	other := uuid.New()
	conv := conversation.Conversation{
		ID:            uuid.New(),
		Participants:  []conversation.Participant{{UserID: viewer}, {UserID: other}},
		CreatedAt:     time.Now(),
		LastMessageAt: sql.NullTime{Time: time.Now(), Valid: true},
	}

	expectUser(userRepo, viewer)
	expectUser(userRepo, other)
	messageRepo.On("CountUnread", mock.Anything, mock.Anything).Return(int64(0), nil)
	convRepo.On("GetForParticipant", mock.Anything, viewer).
		Return([]conversation.Conversation{conv}, nil).Once()
	messageRepo.On("GetLatest", mock.Anything, conv.ID).
		Return(message.Message{}, messaging_errors.ErrNotFound).Once()
	messageRepo.On("CountUnreadInConversation", mock.Anything, conv.ID, viewer).Return(int64(3), nil).Once()

	views, err := svc.GetForUser(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Participants, 1)
	assert.Equal(t, other, views[0].Participants[0].ID)
	assert.Equal(t, int64(3), views[0].UnreadCount)
}

func TestGetAllUsesTotalMessageCount(t *testing.T) {
	svc, convRepo, messageRepo, userRepo := newConversationFixture(t)

	a := uuid.New()
	b := uuid.New()
	conv := conversation.Conversation{
		ID:           uuid.New(),
		Participants: []conversation.Participant{{UserID: a}, {UserID: b}},
		CreatedAt:    time.Now(),
	}

	expectUser(userRepo, a)
	expectUser(userRepo, b)
	messageRepo.On("CountUnread", mock.Anything, mock.Anything).Return(int64(0), nil)
	convRepo.On("GetAll", mock.Anything).Return([]conversation.Conversation{conv}, nil).Once()
	messageRepo.On("GetLatest", mock.Anything, conv.ID).
		Return(message.Message{}, messaging_errors.ErrNotFound).Once()
	messageRepo.On("CountInConversation", mock.Anything, conv.ID).Return(int64(12), nil).Once()

	views, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Len(t, views[0].Participants, 2)
	assert.Equal(t, int64(12), views[0].UnreadCount)
}
