package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"aimpact-messaging/internal/domain/conversation"
	"aimpact-messaging/internal/repository"
	messaging_errors "aimpact-messaging/pkg/errors"
	"aimpact-messaging/pkg/logger"
)

// ConversationService resolves the unique conversation per unordered user
// pair and builds the annotated conversation views.
type ConversationService struct {
	repo        repository.ConversationRepository
	messageRepo repository.MessageRepository
	users       *UserService
	pairLocks   pairLockSet
	logger      *logger.Logger
}

func NewConversationService(repo repository.ConversationRepository, messageRepo repository.MessageRepository, users *UserService, l *logger.Logger) *ConversationService {
	return &ConversationService{
		repo:        repo,
		messageRepo: messageRepo,
		users:       users,
		logger:      l,
	}
}

// GetOrCreate returns the single conversation for the unordered pair
// {userID1, userID2}, creating it if absent. Both ids must resolve to
// existing users. The check-then-create sequence is serialized per pair,
// and the unique pair_key index backstops races across processes: a
// duplicate-key conflict falls back to the lookup.
func (s *ConversationService) GetOrCreate(ctx context.Context, userID1, userID2 uuid.UUID) (ConversationView, error) {
	if _, err := s.users.GetUser(ctx, userID1); err != nil {
		return ConversationView{}, invalidParticipant(err)
	}
	if _, err := s.users.GetUser(ctx, userID2); err != nil {
		return ConversationView{}, invalidParticipant(err)
	}

	pairKey := conversation.PairKey(userID1, userID2)

	lock := s.pairLocks.get(pairKey)
	lock.Lock()
	defer lock.Unlock()

	conv, err := s.repo.GetByPairKey(ctx, pairKey)
	if err == nil {
		return s.toView(ctx, conv, userID1)
	}
	if !errors.Is(err, messaging_errors.ErrNotFound) {
		return ConversationView{}, err
	}

	now := time.Now()
	// A user pairing with themselves gets a single participant row; the
	// membership table keys on (conversation_id, user_id).
	participants := []conversation.Participant{{UserID: userID1, JoinedAt: now}}
	if userID2 != userID1 {
		participants = append(participants, conversation.Participant{UserID: userID2, JoinedAt: now})
	}
	conv = conversation.Conversation{
		ID:            uuid.New(),
		PairKey:       pairKey,
		CreatedAt:     now,
		LastMessageAt: sql.NullTime{Time: now, Valid: true},
		Participants:  participants,
	}

	if err := s.repo.Create(ctx, &conv); err != nil {
		if errors.Is(err, messaging_errors.ErrAlreadyExists) {
			// Lost the race to another instance; the row exists now.
			conv, err = s.repo.GetByPairKey(ctx, pairKey)
			if err != nil {
				return ConversationView{}, err
			}
			return s.toView(ctx, conv, userID1)
		}
		return ConversationView{}, err
	}

	return s.toView(ctx, conv, userID1)
}

// GetForUser lists every conversation containing userID, annotated with
// the other participant, the latest message and the viewer-scoped unread
// count, most recent activity first. An unknown user yields an empty list.
func (s *ConversationService) GetForUser(ctx context.Context, userID uuid.UUID) ([]ConversationView, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, messaging_errors.ErrNotFound) {
			return []ConversationView{}, nil
		}
		return nil, err
	}

	conversations, err := s.repo.GetForParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		view, err := s.toView(ctx, conv, userID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	sortByActivityDesc(views)
	return views, nil
}

// GetAll is the administrative listing: every conversation, annotated
// with all participants. There is no viewer on this path, so the unread
// field carries the conversation's total message count instead.
func (s *ConversationService) GetAll(ctx context.Context) ([]ConversationView, error) {
	conversations, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		view, err := s.toAdminView(ctx, conv)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	sortByActivityDesc(views)
	return views, nil
}

// GetConversation returns the raw entity for other services.
func (s *ConversationService) GetConversation(ctx context.Context, id uuid.UUID) (conversation.Conversation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ConversationService) toView(ctx context.Context, conv conversation.Conversation, viewerID uuid.UUID) (ConversationView, error) {
	view := ConversationView{
		ID:        conv.ID,
		CreatedAt: conv.CreatedAt,
	}

	// Annotate with the other participant only.
	for _, p := range conv.Participants {
		if p.UserID == viewerID {
			continue
		}
		other, err := s.users.GetByID(ctx, p.UserID)
		if err != nil {
			return ConversationView{}, err
		}
		view.Participants = append(view.Participants, other)
	}

	if err := s.annotateLastMessage(ctx, &view, conv); err != nil {
		return ConversationView{}, err
	}

	unread, err := s.messageRepo.CountUnreadInConversation(ctx, conv.ID, viewerID)
	if err != nil {
		return ConversationView{}, err
	}
	view.UnreadCount = unread

	return view, nil
}

func (s *ConversationService) toAdminView(ctx context.Context, conv conversation.Conversation) (ConversationView, error) {
	view := ConversationView{
		ID:        conv.ID,
		CreatedAt: conv.CreatedAt,
	}

	for _, p := range conv.Participants {
		participant, err := s.users.GetByID(ctx, p.UserID)
		if err != nil {
			return ConversationView{}, err
		}
		view.Participants = append(view.Participants, participant)
	}

	if err := s.annotateLastMessage(ctx, &view, conv); err != nil {
		return ConversationView{}, err
	}

	total, err := s.messageRepo.CountInConversation(ctx, conv.ID)
	if err != nil {
		return ConversationView{}, err
	}
	view.UnreadCount = total

	return view, nil
}

func (s *ConversationService) annotateLastMessage(ctx context.Context, view *ConversationView, conv conversation.Conversation) error {
	latest, err := s.messageRepo.GetLatest(ctx, conv.ID)
	switch {
	case err == nil:
		last := messageToView(latest)
		view.LastMessage = &last
		view.LastMessageAt = &last.Timestamp
	case errors.Is(err, messaging_errors.ErrNotFound):
		// No messages yet: created-at substitutes as the activity time.
		createdAt := conv.CreatedAt
		view.LastMessageAt = &createdAt
	default:
		return err
	}
	return nil
}

func sortByActivityDesc(views []ConversationView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].LastMessageAt, views[j].LastMessageAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}

func invalidParticipant(err error) error {
	if errors.Is(err, messaging_errors.ErrNotFound) {
		return messaging_errors.ErrInvalidParticipant
	}
	return err
}

// pairLockSet hands out one mutex per normalized pair key, serializing
// get-or-create within this process.
type pairLockSet struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (s *pairLockSet) get(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
