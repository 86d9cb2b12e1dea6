// Package scheduler drives periodic use cases from a ticker.
package scheduler

import (
	"context"
	"time"

	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/input"
	"rosterbot/internal/ports/output"
)

// Reminders runs SendReminders once per civil day, on the first tick after
// midnight in loc. The day the scheduler starts counts as already done so a
// restart does not repeat reminders.
type Reminders struct {
	reminders input.ReminderUseCase
	clock     output.Clock
	loc       *time.Location
	interval  time.Duration
	log       *logger.Logger

	lastDay string
}

func NewReminders(reminders input.ReminderUseCase, clock output.Clock, loc *time.Location, interval time.Duration, log *logger.Logger) *Reminders {
	if loc == nil {
		loc = time.UTC
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reminders{
		reminders: reminders,
		clock:     clock,
		loc:       loc,
		interval:  interval,
		log:       log.With("component", "scheduler"),
		lastDay:   day(clock.Now(), loc),
	}
}

// Run ticks until ctx is done.
func (r *Reminders) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.tick(ctx, r.clock.Now())
		}
	}
}

// tick reports whether reminders were sent.
func (r *Reminders) tick(ctx context.Context, now time.Time) bool {
	today := day(now, r.loc)
	if today == r.lastDay {
		return false
	}
	sent, err := r.reminders.SendReminders(ctx, now)
	if err != nil {
		// Retried on the next tick.
		r.log.Error("send reminders failed", "day", today, "error", err)
		return false
	}
	r.lastDay = today
	r.log.Info("daily reminders done", "day", today, "sent", sent)
	return true
}

func day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
