package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/toast"
)

// notifier persists user notifications and mirrors them as toasts.
// Nothing is delivered while notifications are disabled in the settings.
type notifier struct {
	notifications repository.NotificationRepository
	settings      repository.SettingsRepository
	toasts        *toast.Queue
	log           logrus.FieldLogger
	now           func() time.Time
}

func (n *notifier) enabled(ctx context.Context) bool {
	s, err := n.settings.Get(ctx)
	if err != nil {
		n.log.WithError(err).Warn("settings unavailable, notifications skipped")
		return false
	}
	return s.NotificationEnabled
}

// notify delivers a message to userID. Failures are logged, never returned.
func (n *notifier) notify(ctx context.Context, userID int64, typ model.NotificationType, title, message string) {
	if !n.enabled(ctx) {
		return
	}
	n.deliver(ctx, userID, typ, title, message)
}

func (n *notifier) deliver(ctx context.Context, userID int64, typ model.NotificationType, title, message string) *model.Notification {
	stored, err := n.notifications.Create(ctx, &model.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: n.now().UTC(),
	})
	if err != nil {
		n.log.WithError(err).WithField("user_id", userID).Error("notification not stored")
		return nil
	}
	n.toast(userID, typ, title, message)
	return stored
}

// toast shows transient feedback to userID.
func (n *notifier) toast(userID int64, typ model.NotificationType, title, message string) {
	if n.toasts == nil {
		return
	}
	n.toasts.Push(userID, typ, title, message, 0)
}
