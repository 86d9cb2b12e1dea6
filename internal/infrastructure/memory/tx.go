package memory

import (
	"context"
	"time"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/ports/output"
)

var _ output.ParticipationTx = (*memTx)(nil)

// memTx holds staged copies for one activity. Only the goroutine holding
// the activity lock touches it.
type memTx struct {
	store    *Store
	activity entities.Activity
	rows     map[string]entities.Participant
}

func (t *memTx) GetActivitySnapshot(context.Context) (*entities.Activity, error) {
	a := t.activity
	return &a, nil
}

func (t *memTx) GetUserAttributes(ctx context.Context, userID string) (*entities.User, error) {
	return t.store.GetUser(ctx, userID)
}

func (t *memTx) IsActiveParticipant(_ context.Context, userID string) (bool, error) {
	p, ok := t.rows[userID]
	return ok && p.IsActive(), nil
}

func (t *memTx) FindParticipant(_ context.Context, userID string) (*entities.Participant, error) {
	p, ok := t.rows[userID]
	if !ok {
		return nil, output.ErrNotFound
	}
	return &p, nil
}

func (t *memTx) LastLeaveTimestamp(_ context.Context, userID string) (time.Time, error) {
	p, ok := t.rows[userID]
	if !ok || !p.IsDeleted() {
		return time.Time{}, nil
	}
	return p.LeftAt, nil
}

func (t *memTx) UpsertParticipant(_ context.Context, userID string, isWaiting, isCaptain bool, at time.Time) error {
	p, ok := t.rows[userID]
	if !ok {
		p = entities.Participant{
			ActivityID: t.activity.ID,
			UserID:     userID,
			CreatedAt:  at,
		}
	}
	p.State = domain.StateActive
	p.IsWaiting = isWaiting
	p.IsCaptain = isCaptain
	p.JoinedAt = at
	p.UpdatedAt = at
	t.rows[userID] = p
	return nil
}

func (t *memTx) SoftDeleteParticipant(_ context.Context, userID string, at time.Time) error {
	p, ok := t.rows[userID]
	if !ok || !p.IsActive() {
		return output.ErrNotFound
	}
	p.State = domain.StateRemoved
	p.LeftAt = at
	p.UpdatedAt = at
	t.rows[userID] = p
	return nil
}

func (t *memTx) RecomputeAggregateCounts(context.Context) (*entities.Activity, error) {
	var male, female int
	for _, p := range t.rows {
		if !p.IsActive() {
			continue
		}
		if t.store.gender(p.UserID) == domain.Male {
			male++
		} else {
			female++
		}
	}
	t.activity.MaleCount = male
	t.activity.FemaleCount = female
	t.activity.CurrentParticipants = male + female
	a := t.activity
	return &a, nil
}

func (t *memTx) FindEarliestWaiting(context.Context) (*entities.Participant, error) {
	var earliest *entities.Participant
	for _, p := range t.rows {
		if !p.IsActive() || !p.IsWaiting {
			continue
		}
		if earliest == nil || joinedBefore(p, *earliest) {
			p := p
			earliest = &p
		}
	}
	return earliest, nil
}

func (t *memTx) SetWaiting(_ context.Context, userID string, isWaiting bool, at time.Time) error {
	p, ok := t.rows[userID]
	if !ok || !p.IsActive() {
		return output.ErrNotFound
	}
	p.IsWaiting = isWaiting
	p.UpdatedAt = at
	t.rows[userID] = p
	return nil
}
