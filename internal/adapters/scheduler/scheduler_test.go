package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"rosterbot/internal/platform/clock"
	"rosterbot/internal/platform/logger"
	"rosterbot/pkg/tz"
)

type fakeReminders struct {
	calls []time.Time
	err   error
}

func (f *fakeReminders) SendReminders(_ context.Context, now time.Time) (int, error) {
	f.calls = append(f.calls, now)
	return len(f.calls), f.err
}

func TestReminders_OncePerCivilDay(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 4, 10, 23, 58, 0, 0, tz.Taipei)
	clk := &clock.Fixed{T: start}
	fake := &fakeReminders{}
	r := NewReminders(fake, clk, tz.Taipei, time.Minute, logger.Nop())

	if r.tick(context.Background(), start.Add(time.Minute)) {
		t.Fatalf("ran on the start day")
	}
	// 00:00 Taipei is 16:00 UTC the previous day; the zone decides.
	midnight := time.Date(2026, 4, 10, 16, 0, 0, 0, time.UTC)
	if !r.tick(context.Background(), midnight) {
		t.Fatalf("did not run after midnight")
	}
	if r.tick(context.Background(), midnight.Add(12*time.Hour)) {
		t.Fatalf("ran twice on the same day")
	}
	if !r.tick(context.Background(), midnight.Add(24*time.Hour)) {
		t.Fatalf("did not run the next day")
	}
	if len(fake.calls) != 2 {
		t.Fatalf("calls=%d, want 2", len(fake.calls))
	}
}

func TestReminders_RetriesAfterFailure(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 4, 10, 12, 0, 0, 0, tz.Taipei)
	fake := &fakeReminders{err: errors.New("db down")}
	r := NewReminders(fake, &clock.Fixed{T: start}, tz.Taipei, time.Minute, logger.Nop())

	next := start.Add(12 * time.Hour)
	if r.tick(context.Background(), next) {
		t.Fatalf("failed run reported as done")
	}
	fake.err = nil
	if !r.tick(context.Background(), next.Add(time.Minute)) {
		t.Fatalf("did not retry on the next tick")
	}
}

func TestReminders_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	r := NewReminders(&fakeReminders{}, clock.NewSystemClock(tz.Taipei), tz.Taipei, time.Hour, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
