package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"aimpact-messaging/internal/domain/notification"
	"aimpact-messaging/internal/events"
	"aimpact-messaging/internal/repository"
	messaging_errors "aimpact-messaging/pkg/errors"
	"aimpact-messaging/pkg/logger"
)

// NotificationService creates one notification row per resolvable
// recipient and pushes each over the notifications channel after its
// persist.
type NotificationService struct {
	repo   repository.NotificationRepository
	users  *UserService
	fanout events.Pusher
	logger *logger.Logger
}

func NewNotificationService(repo repository.NotificationRepository, users *UserService, fanout events.Pusher, l *logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, fanout: fanout, logger: l}
}

// Notify persists one notification per resolvable recipient id.
// Unresolvable ids are skipped, not fatal; an empty recipient list is a
// no-op. Returns the notifications that were actually created.
func (s *NotificationService) Notify(ctx context.Context, recipientIDs []uuid.UUID, title, body, notificationType string) ([]NotificationView, error) {
	if len(recipientIDs) == 0 {
		return nil, nil
	}

	var created []NotificationView
	for _, recipientID := range recipientIDs {
		if _, err := s.users.GetUser(ctx, recipientID); err != nil {
			if errors.Is(err, messaging_errors.ErrNotFound) {
				continue
			}
			return created, err
		}

		view, err := s.createAndPush(ctx, recipientID, title, body, notificationType)
		if err != nil {
			return created, err
		}
		created = append(created, view)
	}
	return created, nil
}

// NotifyAll fans the event out to every user in the directory except the
// sender.
func (s *NotificationService) NotifyAll(ctx context.Context, senderID uuid.UUID, title, body, notificationType string) ([]NotificationView, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}

	var created []NotificationView
	for _, u := range users {
		if u.ID == senderID {
			continue
		}
		view, err := s.createAndPush(ctx, u.ID, title, body, notificationType)
		if err != nil {
			return created, err
		}
		created = append(created, view)
	}
	return created, nil
}

func (s *NotificationService) GetForUser(ctx context.Context, userID uuid.UUID) ([]NotificationView, error) {
	notifications, err := s.repo.GetForRecipientDesc(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toNotificationViews(notifications), nil
}

func (s *NotificationService) GetUnreadForUser(ctx context.Context, userID uuid.UUID) ([]NotificationView, error) {
	notifications, err := s.repo.GetUnreadForRecipientDesc(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toNotificationViews(notifications), nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flips the notification read, but only for its own recipient.
// A missing row and a foreign row fail identically with ErrNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) (NotificationView, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return NotificationView{}, err
	}
	if n.RecipientID != userID {
		return NotificationView{}, messaging_errors.ErrNotFound
	}

	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return NotificationView{}, err
	}
	n.Read = true
	return notificationToView(n), nil
}

func (s *NotificationService) createAndPush(ctx context.Context, recipientID uuid.UUID, title, body, notificationType string) (NotificationView, error) {
	n := notification.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Title:       title,
		Message:     body,
		Type:        notificationType,
		Timestamp:   time.Now(),
		Read:        false,
	}

	if err := s.repo.Create(ctx, &n); err != nil {
		return NotificationView{}, err
	}

	view := notificationToView(n)
	s.fanout.Push(ctx, recipientID, events.ChannelNotifications, events.EventTypeNotificationCreated, view)
	return view, nil
}

func toNotificationViews(notifications []notification.Notification) []NotificationView {
	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, notificationToView(n))
	}
	return views
}
