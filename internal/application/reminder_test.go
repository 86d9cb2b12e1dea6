package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/input"
)

func TestSendReminders_TomorrowOnly(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.user(t, "owner", domain.Female, true)
	h.user(t, "amy", domain.Female, true)
	svc := NewReminderService(h.store, h.sink, keyTranslator{}, Options{Location: h.clock.Now().Location()}, logger.Nop())

	// base is 19:00 on the 10th; 23:30 on the 11th is still tomorrow.
	tomorrow, err := h.activities.CreateActivity(context.Background(), createInput(func(in *input.CreateActivity) {
		in.Title = "Night run"
		in.StartsAt = time.Date(2026, 4, 11, 23, 30, 0, 0, base.Location())
	}))
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if _, err := h.enrollment.Join(context.Background(), tomorrow.ID, "amy"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := h.activities.CreateActivity(context.Background(), createInput(func(in *input.CreateActivity) {
		in.StartsAt = time.Date(2026, 4, 12, 0, 0, 0, 0, base.Location())
	})); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	h.sink.take()

	sent, err := svc.SendReminders(context.Background(), h.clock.Now())
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent=%d, want 2", sent)
	}
	events := h.sink.take()
	for _, ev := range events {
		if ev.Kind != entities.EventActivityReminder || ev.ActivityID != tomorrow.ID {
			t.Fatalf("event=%+v", ev)
		}
		if ev.Title != "notify.activity_reminder.title||Night run" {
			t.Fatalf("Title=%q", ev.Title)
		}
	}
	if got := kinds(events); len(got) != 2 || got[0] != "ACTIVITY_REMINDER->amy" || got[1] != "ACTIVITY_REMINDER->owner" {
		t.Fatalf("events=%v", got)
	}
}

func TestSendReminders_CountsOnlyPublished(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.user(t, "owner", domain.Male, true)
	if _, err := h.activities.CreateActivity(context.Background(), createInput(func(in *input.CreateActivity) {
		in.StartsAt = base.Add(24 * time.Hour)
	})); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	h.sink.err = errors.New("queue full")
	svc := NewReminderService(h.store, h.sink, keyTranslator{}, Options{Location: base.Location()}, logger.Nop())

	sent, err := svc.SendReminders(context.Background(), base)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 0 {
		t.Fatalf("sent=%d, want 0 when every publish fails", sent)
	}
}
