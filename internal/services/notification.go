package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cheerup/internal/domain"
)

type notificationService struct {
	notificationRepo domain.NotificationRepository
	userRepo         domain.UserRepository
	mailer           domain.Mailer
	logger           *slog.Logger
}

// NewNotificationService creates a NotificationService. The mailer is a
// best-effort secondary channel; pass the noop mailer to disable email.
func NewNotificationService(
	notificationRepo domain.NotificationRepository,
	userRepo domain.UserRepository,
	mailer domain.Mailer,
	logger *slog.Logger,
) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mailer:           mailer,
		logger:           logger,
	}
}

// Notify records the message for the user and tries to email it. Both
// channels are fire-and-forget: a failure is logged and dropped so it can
// never fail the transition that triggered it.
func (s *notificationService) Notify(ctx context.Context, userID, message string) {
	n := domain.NewNotification(userID, message, time.Now())
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "failed to create notification", "user_id", userID, "err", err)
		return
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping notification email", "user_id", userID, "err", err)
		return
	}
	if err := s.mailer.Send(user.Email, "CheerUp notification", "", message); err != nil {
		s.logger.WarnContext(ctx, "failed to send notification email", "user_id", userID, "err", err)
	}
}

func (s *notificationService) ListUnread(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.notificationRepo.ListUnreadByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notificationRepo.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
