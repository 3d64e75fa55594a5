package postgres

import (
	"context"
	"database/sql"

	"lendflow/internal/model"
	"lendflow/internal/repository"
)

const notificationColumns = `id, user_id, type, title, message, is_read, created_at`

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

func scanNotification(row scanner) (*model.Notification, error) {
	var n model.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &n, nil
}

// Create inserts a notification.
func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	q := `
		INSERT INTO notifications (user_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRowContext(ctx, q, n.UserID, n.Type, n.Title, n.Message, n.IsRead, n.CreatedAt))
}

// List returns a user's notifications, newest first.
func (r *NotificationPostgres) List(ctx context.Context, userID int64, unreadOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	w := &where{}
	w.add("user_id = $%d", userID)
	if unreadOnly {
		w.add("is_read = $%d", false)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + notificationColumns + ` FROM notifications` + w.String() + ` ORDER BY created_at DESC, id DESC` + w.page(pq)
	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Notification]{Items: items, Total: total}, nil
}

// MarkRead flags one of userID's notifications as read.
func (r *NotificationPostgres) MarkRead(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
