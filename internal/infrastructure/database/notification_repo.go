package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/ports/output"
)

var _ output.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository stores the in-app inbox in the notifications table.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Save(ctx context.Context, n *entities.Notification) error {
	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, activity_id, kind, title, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		n.UserID, n.ActivityID, string(n.Kind), n.Title, n.Body,
	).Scan(&n.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	n.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]entities.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, COALESCE(activity_id, 0), kind, title, body, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []entities.Notification
	for rows.Next() {
		var (
			n         entities.Notification
			kind      string
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.ActivityID, &kind, &n.Title, &n.Body, &n.IsRead, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = entities.EventKind(kind)
		n.CreatedAt = pgtypeTimestamptzToTime(createdAt)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return output.ErrNotFound
	}
	return nil
}
