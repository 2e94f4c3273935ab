package domain

import (
	"context"
	"time"
)

// Notification is a short message shown to a user, created on every
// participation or friendship transition.
// swagger:model Notification
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification returns an unread notification. ID is set by the
// repository on create.
func NewNotification(userID, message string, createdAt time.Time) *Notification {
	return &Notification{
		UserID:    userID,
		Message:   message,
		CreatedAt: createdAt,
	}
}

// NotificationRepository defines storage operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListUnreadByUserID(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// Notifier delivers a short message to a user. Implementations are
// fire-and-forget: delivery failure is logged and never propagated, so a
// failed notification cannot roll back the transition that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID, message string)
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// NotificationService exposes the notification inbox plus the fire-and-forget
// Notifier used by the participation and friendship services.
type NotificationService interface {
	Notifier
	ListUnread(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}
