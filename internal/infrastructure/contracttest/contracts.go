// Package contracttest holds behaviour every ParticipationStore adapter must
// share. Adapter packages call RunParticipationStore from their own tests.
package contracttest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/ports/output"
	"rosterbot/pkg/tz"
)

type CleanupFunc = func()

// StoreFactory returns an empty store. Stores must read civil timestamps in
// tz.Taipei.
type StoreFactory func(t *testing.T) (output.ParticipationStore, CleanupFunc)

var base = time.Date(2026, 4, 10, 19, 0, 0, 0, tz.Taipei)

func RunParticipationStore(t *testing.T, newStore StoreFactory) {
	t.Helper()

	cases := []struct {
		name string
		run  func(t *testing.T, s output.ParticipationStore)
	}{
		{"activity lifecycle", activityLifecycle},
		{"users", users},
		{"missing activity", missingActivity},
		{"upsert and recompute", upsertAndRecompute},
		{"rollback on error", rollbackOnError},
		{"soft delete and rejoin", softDeleteAndRejoin},
		{"earliest waiting", earliestWaiting},
		{"list order", listOrder},
		{"activities on date", activitiesOnDate},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, cleanup := newStore(t)
			if cleanup != nil {
				t.Cleanup(cleanup)
			}
			c.run(t, s)
		})
	}
}

func seedUsers(t *testing.T, s output.ParticipationStore, genders map[string]domain.Gender) {
	t.Helper()
	for id, g := range genders {
		if err := s.UpsertUser(context.Background(), &entities.User{ID: id, Nickname: "nick-" + id, Gender: g}); err != nil {
			t.Fatalf("UpsertUser(%s): %v", id, err)
		}
	}
}

func seedActivity(t *testing.T, s output.ParticipationStore, owner string, max int) *entities.Activity {
	t.Helper()
	a := &entities.Activity{
		Title:           "Board games",
		Location:        "Da'an",
		StartsAt:        base.Add(48 * time.Hour),
		MaxParticipants: max,
		CreatedBy:       owner,
	}
	if err := s.CreateActivity(context.Background(), a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("CreateActivity did not assign an id")
	}
	return a
}

func within(t *testing.T, s output.ParticipationStore, id int64, fn func(ctx context.Context, tx output.ParticipationTx) error) {
	t.Helper()
	if err := s.WithinActivity(context.Background(), id, fn); err != nil {
		t.Fatalf("WithinActivity: %v", err)
	}
}

func activityLifecycle(t *testing.T, s output.ParticipationStore) {
	ctx := context.Background()
	seedUsers(t, s, map[string]domain.Gender{"owner": domain.Female})
	a := seedActivity(t, s, "owner", 6)

	got, err := s.GetActivity(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	if got.Title != "Board games" || got.MaxParticipants != 6 || got.CreatedBy != "owner" {
		t.Fatalf("unexpected activity: %+v", got)
	}
	if !got.StartsAt.Equal(a.StartsAt) {
		t.Fatalf("StartsAt=%v, want %v", got.StartsAt, a.StartsAt)
	}
	if _, err := s.GetActivity(ctx, a.ID+1000); !errors.Is(err, output.ErrNotFound) {
		t.Fatalf("GetActivity(missing) err=%v, want ErrNotFound", err)
	}
}

func users(t *testing.T, s output.ParticipationStore) {
	ctx := context.Background()
	u := &entities.User{ID: "u1", Nickname: "Amy", Gender: domain.Female, IsVerified: true, Locale: "en"}
	if err := s.UpsertUser(ctx, u); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	u.Nickname = "Amy L."
	if err := s.UpsertUser(ctx, u); err != nil {
		t.Fatalf("UpsertUser overwrite: %v", err)
	}
	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Nickname != "Amy L." || got.Gender != domain.Female || !got.IsVerified || got.Locale != "en" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, output.ErrNotFound) {
		t.Fatalf("GetUser(missing) err=%v, want ErrNotFound", err)
	}
}

func missingActivity(t *testing.T, s output.ParticipationStore) {
	called := false
	err := s.WithinActivity(context.Background(), 987654, func(context.Context, output.ParticipationTx) error {
		called = true
		return nil
	})
	if !errors.Is(err, output.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	if called {
		t.Fatalf("fn must not run for a missing activity")
	}
}

func upsertAndRecompute(t *testing.T, s output.ParticipationStore) {
	seedUsers(t, s, map[string]domain.Gender{"owner": domain.Female, "m1": domain.Male, "f1": domain.Female})
	a := seedActivity(t, s, "owner", 6)

	within(t, s, a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		for i, id := range []string{"owner", "m1", "f1"} {
			if err := tx.UpsertParticipant(ctx, id, id == "f1", id == "owner", base.Add(time.Duration(i)*time.Minute)); err != nil {
				return err
			}
		}
		active, err := tx.IsActiveParticipant(ctx, "m1")
		if err != nil || !active {
			return fmt.Errorf("IsActiveParticipant(m1)=(%v,%v)", active, err)
		}
		updated, err := tx.RecomputeAggregateCounts(ctx)
		if err != nil {
			return err
		}
		if updated.CurrentParticipants != 3 || updated.MaleCount != 1 || updated.FemaleCount != 2 {
			return fmt.Errorf("counts=%d/%d/%d, want 3/1/2", updated.CurrentParticipants, updated.MaleCount, updated.FemaleCount)
		}
		return nil
	})

	got, err := s.GetActivity(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	if got.CurrentParticipants != 3 || got.MaleCount+got.FemaleCount != got.CurrentParticipants {
		t.Fatalf("committed counts=%+v", got)
	}
}

func rollbackOnError(t *testing.T, s output.ParticipationStore) {
	seedUsers(t, s, map[string]domain.Gender{"owner": domain.Female, "m1": domain.Male})
	a := seedActivity(t, s, "owner", 6)

	boom := errors.New("boom")
	err := s.WithinActivity(context.Background(), a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		if err := tx.UpsertParticipant(ctx, "m1", false, false, base); err != nil {
			return err
		}
		if _, err := tx.RecomputeAggregateCounts(ctx); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want boom", err)
	}

	got, err := s.GetActivity(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	if got.CurrentParticipants != 0 {
		t.Fatalf("CurrentParticipants=%d after rollback, want 0", got.CurrentParticipants)
	}
	list, err := s.ListParticipants(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListParticipants: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("participants after rollback=%v, want none", list)
	}
}

func softDeleteAndRejoin(t *testing.T, s output.ParticipationStore) {
	seedUsers(t, s, map[string]domain.Gender{"owner": domain.Female, "m1": domain.Male})
	a := seedActivity(t, s, "owner", 6)
	leftAt := base.Add(10 * time.Minute)

	within(t, s, a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		if err := tx.UpsertParticipant(ctx, "m1", false, false, base); err != nil {
			return err
		}
		last, err := tx.LastLeaveTimestamp(ctx, "m1")
		if err != nil || !last.IsZero() {
			return fmt.Errorf("LastLeaveTimestamp before leave=(%v,%v), want zero", last, err)
		}
		return tx.SoftDeleteParticipant(ctx, "m1", leftAt)
	})

	within(t, s, a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		p, err := tx.FindParticipant(ctx, "m1")
		if err != nil {
			return err
		}
		if !p.IsDeleted() {
			return fmt.Errorf("State=%s, want REMOVED", p.State)
		}
		active, err := tx.IsActiveParticipant(ctx, "m1")
		if err != nil || active {
			return fmt.Errorf("IsActiveParticipant=(%v,%v), want false", active, err)
		}
		last, err := tx.LastLeaveTimestamp(ctx, "m1")
		if err != nil {
			return err
		}
		if !last.Equal(leftAt) {
			return fmt.Errorf("LastLeaveTimestamp=%v, want %v", last, leftAt)
		}
		if err := tx.SoftDeleteParticipant(ctx, "m1", leftAt); !errors.Is(err, output.ErrNotFound) {
			return fmt.Errorf("second SoftDeleteParticipant err=%v, want ErrNotFound", err)
		}
		if _, err := tx.FindParticipant(ctx, "nobody"); !errors.Is(err, output.ErrNotFound) {
			return fmt.Errorf("FindParticipant(nobody) err=%v, want ErrNotFound", err)
		}
		return tx.UpsertParticipant(ctx, "m1", true, false, leftAt.Add(time.Hour))
	})

	within(t, s, a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		p, err := tx.FindParticipant(ctx, "m1")
		if err != nil {
			return err
		}
		if !p.IsActive() || !p.IsWaiting {
			return fmt.Errorf("rejoined row=%+v, want active waiting", p)
		}
		if !p.JoinedAt.Equal(leftAt.Add(time.Hour)) {
			return fmt.Errorf("JoinedAt=%v, want %v", p.JoinedAt, leftAt.Add(time.Hour))
		}
		return nil
	})
}

func earliestWaiting(t *testing.T, s output.ParticipationStore) {
	seedUsers(t, s, map[string]domain.Gender{"owner": domain.Female, "w1": domain.Male, "w2": domain.Female, "w3": domain.Male})
	a := seedActivity(t, s, "owner", 1)

	within(t, s, a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		none, err := tx.FindEarliestWaiting(ctx)
		if err != nil || none != nil {
			return fmt.Errorf("FindEarliestWaiting on empty=(%v,%v), want nil", none, err)
		}
		if err := tx.UpsertParticipant(ctx, "owner", false, true, base); err != nil {
			return err
		}
		if err := tx.UpsertParticipant(ctx, "w2", true, false, base.Add(2*time.Minute)); err != nil {
			return err
		}
		if err := tx.UpsertParticipant(ctx, "w1", true, false, base.Add(1*time.Minute)); err != nil {
			return err
		}
		if err := tx.UpsertParticipant(ctx, "w3", true, false, base.Add(3*time.Minute)); err != nil {
			return err
		}
		return tx.SoftDeleteParticipant(ctx, "w1", base.Add(4*time.Minute))
	})

	within(t, s, a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		next, err := tx.FindEarliestWaiting(ctx)
		if err != nil {
			return err
		}
		if next == nil || next.UserID != "w2" {
			return fmt.Errorf("FindEarliestWaiting=%+v, want w2", next)
		}
		if err := tx.SetWaiting(ctx, "w2", false, base.Add(5*time.Minute)); err != nil {
			return err
		}
		next, err = tx.FindEarliestWaiting(ctx)
		if err != nil {
			return err
		}
		if next == nil || next.UserID != "w3" {
			return fmt.Errorf("after promotion FindEarliestWaiting=%+v, want w3", next)
		}
		return nil
	})
}

func listOrder(t *testing.T, s output.ParticipationStore) {
	seedUsers(t, s, map[string]domain.Gender{"owner": domain.Female, "a": domain.Male, "b": domain.Female, "c": domain.Male})
	a := seedActivity(t, s, "owner", 6)

	within(t, s, a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		if err := tx.UpsertParticipant(ctx, "b", false, false, base.Add(2*time.Minute)); err != nil {
			return err
		}
		if err := tx.UpsertParticipant(ctx, "a", false, false, base.Add(1*time.Minute)); err != nil {
			return err
		}
		if err := tx.UpsertParticipant(ctx, "owner", false, true, base.Add(3*time.Minute)); err != nil {
			return err
		}
		if err := tx.UpsertParticipant(ctx, "c", false, false, base); err != nil {
			return err
		}
		return tx.SoftDeleteParticipant(ctx, "c", base.Add(4*time.Minute))
	})

	list, err := s.ListParticipants(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListParticipants: %v", err)
	}
	var got []string
	for _, p := range list {
		got = append(got, p.UserID)
	}
	want := []string{"owner", "a", "b"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("order=%v, want %v", got, want)
	}
}

func activitiesOnDate(t *testing.T, s output.ParticipationStore) {
	ctx := context.Background()
	seedUsers(t, s, map[string]domain.Gender{"owner": domain.Female})

	day := time.Date(2026, 4, 12, 0, 0, 0, 0, tz.Taipei)
	for _, startsAt := range []time.Time{
		day.Add(-time.Minute),                  // previous evening
		day,                                    // midnight
		day.Add(23*time.Hour + 59*time.Minute), // late evening
		day.Add(24 * time.Hour),                // next day
	} {
		a := &entities.Activity{Title: startsAt.Format(time.RFC3339), StartsAt: startsAt, MaxParticipants: 4, CreatedBy: "owner"}
		if err := s.CreateActivity(ctx, a); err != nil {
			t.Fatalf("CreateActivity: %v", err)
		}
	}

	got, err := s.FindActivitiesOnDate(ctx, day)
	if err != nil {
		t.Fatalf("FindActivitiesOnDate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("found %d activities, want 2: %+v", len(got), got)
	}
	if !got[0].StartsAt.Equal(day) || !got[1].StartsAt.Equal(day.Add(23*time.Hour+59*time.Minute)) {
		t.Fatalf("unexpected activities: %v, %v", got[0].StartsAt, got[1].StartsAt)
	}
}
