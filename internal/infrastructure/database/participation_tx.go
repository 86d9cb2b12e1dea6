package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"rosterbot/internal/domain/entities"
	"rosterbot/internal/ports/output"
)

var _ output.ParticipationTx = (*participationTx)(nil)

// participationTx runs inside the transaction that holds the activity lock.
type participationTx struct {
	tx       pgx.Tx
	activity *entities.Activity
	times    civilTimes
}

func (t *participationTx) GetActivitySnapshot(context.Context) (*entities.Activity, error) {
	a := *t.activity
	return &a, nil
}

func (t *participationTx) GetUserAttributes(ctx context.Context, userID string) (*entities.User, error) {
	return getUser(ctx, t.tx, userID)
}

func (t *participationTx) IsActiveParticipant(ctx context.Context, userID string) (bool, error) {
	var active bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM activity_participants
			WHERE activity_id = $1 AND user_id = $2 AND state = 'ACTIVE'
		)`, t.activity.ID, userID).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("is active participant: %w", err)
	}
	return active, nil
}

func (t *participationTx) FindParticipant(ctx context.Context, userID string) (*entities.Participant, error) {
	p, err := t.times.scanParticipant(t.tx.QueryRow(ctx, `
		SELECT `+participantColumns+`
		FROM activity_participants
		WHERE activity_id = $1 AND user_id = $2`, t.activity.ID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, output.ErrNotFound
		}
		return nil, fmt.Errorf("find participant: %w", err)
	}
	return p, nil
}

func (t *participationTx) LastLeaveTimestamp(ctx context.Context, userID string) (time.Time, error) {
	p, err := t.FindParticipant(ctx, userID)
	if err != nil {
		if errors.Is(err, output.ErrNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	if !p.IsDeleted() {
		return time.Time{}, nil
	}
	return p.LeftAt, nil
}

func (t *participationTx) UpsertParticipant(ctx context.Context, userID string, isWaiting, isCaptain bool, at time.Time) error {
	ts := t.times.toColumn(at)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO activity_participants (
			activity_id, user_id, state, is_waiting, is_captain, joined_at, created_at, updated_at
		) VALUES ($1, $2, 'ACTIVE', $3, $4, $5, $5, $5)
		ON CONFLICT (activity_id, user_id) DO UPDATE SET
			state = 'ACTIVE',
			is_waiting = EXCLUDED.is_waiting,
			is_captain = EXCLUDED.is_captain,
			joined_at = EXCLUDED.joined_at,
			updated_at = EXCLUDED.updated_at`,
		t.activity.ID, userID, isWaiting, isCaptain, ts)
	if err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

func (t *participationTx) SoftDeleteParticipant(ctx context.Context, userID string, at time.Time) error {
	ts := t.times.toColumn(at)
	tag, err := t.tx.Exec(ctx, `
		UPDATE activity_participants
		SET state = 'REMOVED', left_at = $3, updated_at = $3
		WHERE activity_id = $1 AND user_id = $2 AND state = 'ACTIVE'`,
		t.activity.ID, userID, ts)
	if err != nil {
		return fmt.Errorf("soft delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return output.ErrNotFound
	}
	return nil
}

// RecomputeAggregateCounts rewrites the activity counters from live rows.
// Users without a stored gender count as female.
func (t *participationTx) RecomputeAggregateCounts(ctx context.Context) (*entities.Activity, error) {
	a, err := scanActivity(t.tx.QueryRow(ctx, `
		UPDATE activities AS a SET
			current_participants = c.total,
			male_count = c.male,
			female_count = c.total - c.male,
			updated_at = now()
		FROM (
			SELECT count(*) AS total,
			       count(*) FILTER (WHERE u.gender = 'MALE') AS male
			FROM activity_participants p
			LEFT JOIN users u ON u.id = p.user_id
			WHERE p.activity_id = $1 AND p.state = 'ACTIVE'
		) AS c
		WHERE a.id = $1
		RETURNING a.id, a.title, a.location, a.starts_at, a.max_participants,
			a.current_participants, a.male_count, a.female_count, a.male_quota, a.female_quota,
			a.female_priority, a.require_verification, a.created_by, a.created_at, a.updated_at`,
		t.activity.ID))
	if err != nil {
		return nil, fmt.Errorf("recompute counts: %w", err)
	}
	t.activity = a
	out := *a
	return &out, nil
}

func (t *participationTx) FindEarliestWaiting(ctx context.Context) (*entities.Participant, error) {
	p, err := t.times.scanParticipant(t.tx.QueryRow(ctx, `
		SELECT `+participantColumns+`
		FROM activity_participants
		WHERE activity_id = $1 AND state = 'ACTIVE' AND is_waiting
		ORDER BY joined_at, created_at, user_id
		LIMIT 1`, t.activity.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find earliest waiting: %w", err)
	}
	return p, nil
}

func (t *participationTx) SetWaiting(ctx context.Context, userID string, isWaiting bool, at time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE activity_participants
		SET is_waiting = $3, updated_at = $4
		WHERE activity_id = $1 AND user_id = $2 AND state = 'ACTIVE'`,
		t.activity.ID, userID, isWaiting, t.times.toColumn(at))
	if err != nil {
		return fmt.Errorf("set waiting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return output.ErrNotFound
	}
	return nil
}
