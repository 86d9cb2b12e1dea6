package output

import (
	"context"

	"rosterbot/internal/domain/entities"
)

// EventSink receives post-commit events. Delivery is best effort.
type EventSink interface {
	Publish(ctx context.Context, ev entities.Event) error
}

// NotificationRepository stores the in-app inbox.
type NotificationRepository interface {
	Save(ctx context.Context, n *entities.Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]entities.Notification, error)
	MarkRead(ctx context.Context, userID string, id int64) error
}
