package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/infrastructure/memory"
	"rosterbot/internal/platform/clock"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/output"
	"rosterbot/pkg/tz"
)

var base = time.Date(2026, 4, 10, 19, 0, 0, 0, tz.Taipei)

// keyTranslator renders "<key>|<Name>|<Activity>" so tests can assert which
// message was chosen and with what data.
type keyTranslator struct{}

func (keyTranslator) T(locale, key string, data map[string]any) string {
	return fmt.Sprintf("%s|%v|%v", key, data["Name"], data["Activity"])
}

type recordingSink struct {
	mu     sync.Mutex
	events []entities.Event
	err    error
}

func (r *recordingSink) Publish(_ context.Context, ev entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingSink) take() []entities.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

type harness struct {
	store      *memory.Store
	sink       *recordingSink
	clock      *clock.Fixed
	enrollment *EnrollmentService
	activities *ActivityService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store: memory.NewStore(),
		sink:  &recordingSink{},
		clock: &clock.Fixed{T: base},
	}
	opts := Options{Location: tz.Taipei, StoreTimeout: time.Second, DefaultLocale: "zh-TW"}
	h.enrollment = NewEnrollmentService(h.store, h.sink, keyTranslator{}, h.clock, opts, logger.Nop())
	h.activities = NewActivityService(h.store, h.clock, opts, logger.Nop())
	return h
}

func (h *harness) user(t *testing.T, id string, g domain.Gender, verified bool) {
	t.Helper()
	if err := h.store.UpsertUser(context.Background(), &entities.User{ID: id, Nickname: "nick-" + id, Gender: g, IsVerified: verified}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
}

// activity creates an activity owned by "owner" without enrolling anyone.
func (h *harness) activity(t *testing.T, mutate func(a *entities.Activity)) int64 {
	t.Helper()
	a := &entities.Activity{
		Title:           "Hiking",
		Location:        "Yangmingshan",
		StartsAt:        base.Add(72 * time.Hour),
		MaxParticipants: 6,
		CreatedBy:       "owner",
	}
	if mutate != nil {
		mutate(a)
	}
	if err := h.store.CreateActivity(context.Background(), a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	return a.ID
}

// seed writes participants directly, bypassing the capacity rules, and
// recomputes the counters.
func (h *harness) seed(t *testing.T, activityID int64, waiting bool, genders ...domain.Gender) []string {
	t.Helper()
	var ids []string
	err := h.store.WithinActivity(context.Background(), activityID, func(ctx context.Context, tx output.ParticipationTx) error {
		a, _ := tx.GetActivitySnapshot(ctx)
		for i, g := range genders {
			id := fmt.Sprintf("seed-%d-%d-%s", activityID, a.CurrentParticipants+i, g)
			if err := h.store.UpsertUser(ctx, &entities.User{ID: id, Gender: g, IsVerified: true}); err != nil {
				return err
			}
			if err := tx.UpsertParticipant(ctx, id, waiting, false, base.Add(-time.Hour+time.Duration(len(ids))*time.Minute)); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		_, err := tx.RecomputeAggregateCounts(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ids
}

func (h *harness) get(t *testing.T, activityID int64) *entities.Activity {
	t.Helper()
	a, err := h.store.GetActivity(context.Background(), activityID)
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	return a
}

// assertCounts checks current == male + female == live rows.
func (h *harness) assertCounts(t *testing.T, activityID int64) {
	t.Helper()
	a := h.get(t, activityID)
	live, err := h.store.ListParticipants(context.Background(), activityID)
	if err != nil {
		t.Fatalf("ListParticipants: %v", err)
	}
	if a.CurrentParticipants != a.MaleCount+a.FemaleCount || a.CurrentParticipants != len(live) {
		t.Fatalf("counts current=%d male=%d female=%d live=%d", a.CurrentParticipants, a.MaleCount, a.FemaleCount, len(live))
	}
}

func (h *harness) participant(t *testing.T, activityID int64, userID string) entities.Participant {
	t.Helper()
	var p *entities.Participant
	err := h.store.WithinActivity(context.Background(), activityID, func(ctx context.Context, tx output.ParticipationTx) error {
		var err error
		p, err = tx.FindParticipant(ctx, userID)
		return err
	})
	if err != nil {
		t.Fatalf("FindParticipant(%s): %v", userID, err)
	}
	return *p
}

func entitiesUser(id, gender string) entities.User {
	return entities.User{ID: id, Nickname: id, Gender: domain.Gender(gender)}
}

func kinds(events []entities.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, string(ev.Kind)+"->"+ev.TargetUserID)
	}
	sort.Strings(out)
	return out
}
