package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository/base"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новое уведомление
func (r *NotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message, link)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		notification.UserID,
		notification.Message,
		notification.Link,
	).Scan(&notification.ID, &notification.CreatedAt)

	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// ListUnreadByUserID получает непрочитанные уведомления пользователя
func (r *NotificationRepository) ListUnreadByUserID(ctx context.Context, userID int64) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, link, created_at
		FROM notifications
		WHERE user_id = $1 AND is_read = false
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.Link, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, nil
}

// MarkRead помечает уведомление прочитанным
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("notification not found")
	}

	return nil
}
