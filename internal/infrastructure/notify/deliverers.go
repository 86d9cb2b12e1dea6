package notify

import (
	"context"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/output"
)

// Inbox persists each event as an unread notification.
type Inbox struct {
	repo output.NotificationRepository
}

func NewInbox(repo output.NotificationRepository) *Inbox {
	return &Inbox{repo: repo}
}

func (i *Inbox) Name() string { return "inbox" }

func (i *Inbox) Deliver(ctx context.Context, ev entities.Event) error {
	return i.repo.Save(ctx, &entities.Notification{
		UserID:     ev.TargetUserID,
		ActivityID: ev.ActivityID,
		Kind:       ev.Kind,
		Title:      ev.Title,
		Body:       ev.Body,
	})
}

// LogDeliverer writes events to the application log.
type LogDeliverer struct {
	log *logger.Logger
}

func NewLogDeliverer(log *logger.Logger) *LogDeliverer {
	return &LogDeliverer{log: log.With("deliverer", "log")}
}

func (l *LogDeliverer) Name() string { return "log" }

func (l *LogDeliverer) Deliver(_ context.Context, ev entities.Event) error {
	l.log.Info("notification", "kind", ev.Kind, "activity_id", ev.ActivityID, "target", ev.TargetUserID, "title", ev.Title)
	return nil
}
