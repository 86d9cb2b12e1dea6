package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/input"
	"rosterbot/internal/ports/output"
	"rosterbot/pkg/tz"
)

var _ input.ReminderUseCase = (*ReminderService)(nil)

// ReminderService notifies participants the day before an activity.
type ReminderService struct {
	store    output.ParticipationStore
	sink     output.EventSink
	messages *messages
	opts     Options
	log      *logger.Logger
}

func NewReminderService(store output.ParticipationStore, sink output.EventSink, translator output.T, opts Options, log *logger.Logger) *ReminderService {
	opts = opts.withDefaults()
	return &ReminderService{
		store:    store,
		sink:     sink,
		messages: &messages{t: translator, defaultLocale: opts.DefaultLocale},
		opts:     opts,
		log:      log.With("service", "ReminderService"),
	}
}

func (s *ReminderService) SendReminders(ctx context.Context, now time.Time) (int, error) {
	now = now.In(s.opts.Location)
	tomorrow := tz.StartOfDay(now).AddDate(0, 0, 1)

	activities, err := s.store.FindActivitiesOnDate(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("find activities on %s: %w", tomorrow.Format("2006-01-02"), err)
	}

	sent := 0
	for i := range activities {
		a := &activities[i]
		participants, err := s.store.ListParticipants(ctx, a.ID)
		if err != nil {
			s.log.Warn("list participants for reminder failed", "activity_id", a.ID, "error", err)
			continue
		}
		for _, p := range participants {
			ev := s.messages.event(entities.EventActivityReminder, a, p.UserID, s.locale(ctx, p.UserID), "", now)
			if err := s.sink.Publish(ctx, ev); err != nil {
				s.log.Warn("reminder publish failed", "activity_id", a.ID, "user_id", p.UserID, "error", err)
				continue
			}
			sent++
		}
	}
	s.log.Info("reminders sent", "date", tomorrow.Format("2006-01-02"), "activities", len(activities), "events", sent)
	return sent, nil
}

func (s *ReminderService) locale(ctx context.Context, userID string) string {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, output.ErrNotFound) {
			s.log.Debug("reminder locale lookup failed", "user_id", userID, "error", err)
		}
		return ""
	}
	return u.Locale
}
