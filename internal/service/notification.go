package service

import (
	"context"
	"strings"

	"lendflow/internal/auth"
	"lendflow/internal/model"
	"lendflow/internal/repository"
)

// NotificationInput is a message sent by staff to one user.
type NotificationInput struct {
	UserID  int64                  `json:"userId"`
	Type    model.NotificationType `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
}

// NotificationService manages the caller's inbox.
type NotificationService interface {
	List(ctx context.Context, p auth.Principal, unreadOnly bool, limit, offset int) (*ListResult[model.Notification], error)
	MarkRead(ctx context.Context, p auth.Principal, id int64) error
	Create(ctx context.Context, p auth.Principal, in NotificationInput) (*model.Notification, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	n             *notifier
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, n *notifier) NotificationService {
	return &notificationService{notifications: notifications, users: users, n: n}
}

func (s *notificationService) List(ctx context.Context, p auth.Principal, unreadOnly bool, limit, offset int) (*ListResult[model.Notification], error) {
	res, err := s.notifications.List(ctx, p.UserID, unreadOnly, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *notificationService) MarkRead(ctx context.Context, p auth.Principal, id int64) error {
	return notFound("notification", s.notifications.MarkRead(ctx, p.UserID, id))
}

func (s *notificationService) Create(ctx context.Context, p auth.Principal, in NotificationInput) (*model.Notification, error) {
	if err := requireRole(p, model.RoleAdmin, model.RoleLender); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = model.NotificationInfo
	}
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case !in.Type.Valid():
		return nil, invalid("type", "unknown notification type %q", in.Type)
	case in.Title == "":
		return nil, invalid("title", "title is required")
	case strings.TrimSpace(in.Message) == "":
		return nil, invalid("message", "message is required")
	}

	target, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, notFound("user", err)
	}
	if p.Is(model.RoleLender) && target.Role != model.RoleBorrower {
		return nil, forbidden("lenders can only notify borrowers")
	}
	if !s.n.enabled(ctx) {
		return nil, conflict("notifications are disabled")
	}
	out := s.n.deliver(ctx, target.ID, in.Type, in.Title, in.Message)
	if out == nil {
		return nil, ErrNotificationFailed
	}
	return out, nil
}
