package repository

import (
	"context"

	"lendflow/internal/model"
)

// ApplicationFilter narrows application listings. Zero fields are ignored.
type ApplicationFilter struct {
	BorrowerID int64
	LenderID   int64
	Status     model.ApplicationStatus
}

// ApplicationRepository persists loan applications.
type ApplicationRepository interface {
	Create(ctx context.Context, a *model.LoanApplication) (*model.LoanApplication, error)
	FindByID(ctx context.Context, id int64) (*model.LoanApplication, error)
	List(ctx context.Context, f ApplicationFilter, pq PageQuery) (*PageResult[model.LoanApplication], error)
	Update(ctx context.Context, a *model.LoanApplication) (*model.LoanApplication, error)
}

// NotificationRepository persists user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	List(ctx context.Context, userID int64, unreadOnly bool, pq PageQuery) (*PageResult[model.Notification], error)
	// MarkRead flags a notification of userID as read.
	MarkRead(ctx context.Context, userID, id int64) error
}

// SettingsRepository persists the single platform settings record.
type SettingsRepository interface {
	// Get returns the stored settings, or the defaults when none were saved.
	Get(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, s model.Settings) (model.Settings, error)
}
