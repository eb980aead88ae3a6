package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"aimpact-messaging/internal/domain/user"
	"aimpact-messaging/internal/repository"
	messaging_errors "aimpact-messaging/pkg/errors"
	"aimpact-messaging/pkg/logger"
)

// UserService is the user directory: identity, presence flag and activity
// timestamps. It also owns authentication against the stored credential.
type UserService struct {
	repo        repository.UserRepository
	messageRepo repository.MessageRepository
	logger      *logger.Logger
}

func NewUserService(repo repository.UserRepository, messageRepo repository.MessageRepository, l *logger.Logger) *UserService {
	return &UserService{repo: repo, messageRepo: messageRepo, logger: l}
}

func (s *UserService) GetAll(ctx context.Context) ([]UserView, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, users)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (UserView, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return UserView{}, err
	}
	return s.toView(ctx, u)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (UserView, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return UserView{}, err
	}
	return s.toView(ctx, u)
}

func (s *UserService) GetOnline(ctx context.Context) ([]UserView, error) {
	users, err := s.repo.GetOnline(ctx)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, users)
}

// Authenticate verifies the credential and, on success, marks the user
// online and refreshes both login and activity timestamps. Unknown email
// and wrong password fail identically with ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (UserView, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, messaging_errors.ErrNotFound) {
			return UserView{}, messaging_errors.ErrUnauthorized
		}
		return UserView{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return UserView{}, messaging_errors.ErrUnauthorized
	}

	now := time.Now()
	u.LastLogin = nullTime(now)
	u.LastActive = nullTime(now)
	u.IsOnline = true
	if err := s.repo.Update(ctx, u); err != nil {
		return UserView{}, err
	}

	return s.toView(ctx, u)
}

// SetOnlineStatus flips the presence flag and refreshes last_active.
// Unknown users are a no-op, not an error.
func (s *UserService) SetOnlineStatus(ctx context.Context, userID uuid.UUID, isOnline bool) error {
	err := s.repo.UpdateOnlineStatus(ctx, userID, isOnline, time.Now())
	if errors.Is(err, messaging_errors.ErrNotFound) {
		return nil
	}
	return err
}

// TouchActivity refreshes last_active only. Unknown users are a no-op.
func (s *UserService) TouchActivity(ctx context.Context, userID uuid.UUID) error {
	err := s.repo.UpdateLastActive(ctx, userID, time.Now())
	if errors.Is(err, messaging_errors.ErrNotFound) {
		return nil
	}
	return err
}

// Logout marks the user offline without touching last_active; logging out
// is not activity.
func (s *UserService) Logout(ctx context.Context, userID uuid.UUID) error {
	err := s.repo.SetOffline(ctx, userID)
	if errors.Is(err, messaging_errors.ErrNotFound) {
		return nil
	}
	return err
}

// GetUser returns the raw entity for other services that need to resolve
// a participant or recipient.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]user.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) toView(ctx context.Context, u user.User) (UserView, error) {
	unread, err := s.messageRepo.CountUnread(ctx, u.ID)
	if err != nil {
		return UserView{}, err
	}

	view := UserView{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Avatar:         u.Avatar,
		Role:           u.Role,
		Online:         u.IsOnline,
		UnreadMessages: unread,
	}
	if u.LastLogin.Valid {
		t := u.LastLogin.Time
		view.LastLogin = &t
	}
	if u.LastActive.Valid {
		t := u.LastActive.Time
		view.LastActive = &t
	}
	return view, nil
}

func (s *UserService) toViews(ctx context.Context, users []user.User) ([]UserView, error) {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		view, err := s.toView(ctx, u)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}
