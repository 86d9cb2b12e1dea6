// Package memory is an in-process ParticipationStore. Each activity has its
// own lock; a WithinActivity call works on staged copies and publishes them
// only when fn succeeds.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/ports/output"
)

var _ output.ParticipationStore = (*Store)(nil)

type Store struct {
	mu           sync.RWMutex
	nextID       int64
	activities   map[int64]entities.Activity
	participants map[int64]map[string]entities.Participant
	users        map[string]entities.User
	locks        map[int64]chan struct{}
}

func NewStore() *Store {
	return &Store{
		activities:   make(map[int64]entities.Activity),
		participants: make(map[int64]map[string]entities.Participant),
		users:        make(map[string]entities.User),
		locks:        make(map[int64]chan struct{}),
	}
}

func (s *Store) lockFor(activityID int64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[activityID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[activityID] = ch
	}
	return ch
}

func (s *Store) WithinActivity(ctx context.Context, activityID int64, fn func(ctx context.Context, tx output.ParticipationTx) error) error {
	lock := s.lockFor(activityID)
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	s.mu.RLock()
	a, ok := s.activities[activityID]
	rows := make(map[string]entities.Participant, len(s.participants[activityID]))
	for k, v := range s.participants[activityID] {
		rows[k] = v
	}
	s.mu.RUnlock()
	if !ok {
		return output.ErrNotFound
	}

	tx := &memTx{store: s, activity: a, rows: rows}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.activities[activityID] = tx.activity
	s.participants[activityID] = tx.rows
	s.mu.Unlock()
	return nil
}

func (s *Store) CreateActivity(_ context.Context, a *entities.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	a.ID = s.nextID
	a.CurrentParticipants, a.MaleCount, a.FemaleCount = 0, 0, 0
	a.CreatedAt, a.UpdatedAt = now, now
	s.activities[a.ID] = *a
	s.participants[a.ID] = make(map[string]entities.Participant)
	return nil
}

func (s *Store) GetActivity(_ context.Context, activityID int64) (*entities.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[activityID]
	if !ok {
		return nil, output.ErrNotFound
	}
	return &a, nil
}

func (s *Store) ListParticipants(_ context.Context, activityID int64) ([]entities.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Participant, 0, len(s.participants[activityID]))
	for _, p := range s.participants[activityID] {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsCaptain != out[j].IsCaptain {
			return out[i].IsCaptain
		}
		return joinedBefore(out[i], out[j])
	})
	return out, nil
}

func (s *Store) FindActivitiesOnDate(_ context.Context, day time.Time) ([]entities.Activity, error) {
	y, m, d := day.Date()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Activity
	for _, a := range s.activities {
		ay, am, ad := a.StartsAt.In(day.Location()).Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpsertUser(_ context.Context, u *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, output.ErrNotFound
	}
	return &u, nil
}

func (s *Store) gender(userID string) domain.Gender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.ParseGender(string(s.users[userID].Gender))
}

// joinedBefore orders by join time, then creation time, then user id.
func joinedBefore(a, b entities.Participant) bool {
	if !a.JoinedAt.Equal(b.JoinedAt) {
		return a.JoinedAt.Before(b.JoinedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.UserID < b.UserID
}
