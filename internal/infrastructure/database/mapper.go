package database

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
)

const activityColumns = `id, title, location, starts_at, max_participants,
	current_participants, male_count, female_count, male_quota, female_quota,
	female_priority, require_verification, created_by, created_at, updated_at`

const participantColumns = `activity_id, user_id, state, is_waiting, is_captain,
	joined_at, left_at, created_at, updated_at`

// civilTimes converts between zone-aware times and TIMESTAMP columns, which
// hold wall-clock values in loc.
type civilTimes struct {
	loc *time.Location
}

// toColumn keeps t's wall clock as seen in loc and drops the zone.
func (c civilTimes) toColumn(t time.Time) pgtype.Timestamp {
	if t.IsZero() {
		return pgtype.Timestamp{}
	}
	w := t.In(c.loc)
	return pgtype.Timestamp{
		Time:  time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), time.UTC),
		Valid: true,
	}
}

// fromColumn reads a TIMESTAMP value as wall-clock time in loc.
func (c civilTimes) fromColumn(ts pgtype.Timestamp) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	t := ts.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), c.loc)
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func scanActivity(row pgx.Row) (*entities.Activity, error) {
	var (
		a                   entities.Activity
		startsAt, createdAt pgtype.Timestamptz
		updatedAt           pgtype.Timestamptz
		capacity, current   int32
		male, female        int32
		maleQuota, femQuota int32
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Location, &startsAt, &capacity,
		&current, &male, &female, &maleQuota, &femQuota,
		&a.FemalePriority, &a.RequireVerification, &a.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.StartsAt = pgtypeTimestamptzToTime(startsAt)
	a.MaxParticipants = int(capacity)
	a.CurrentParticipants = int(current)
	a.MaleCount = int(male)
	a.FemaleCount = int(female)
	a.MaleQuota = int(maleQuota)
	a.FemaleQuota = int(femQuota)
	a.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	a.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return &a, nil
}

func (c civilTimes) scanParticipant(row pgx.Row) (*entities.Participant, error) {
	var (
		p                    entities.Participant
		state                string
		joinedAt, leftAt     pgtype.Timestamp
		createdAt, updatedAt pgtype.Timestamp
	)
	err := row.Scan(
		&p.ActivityID, &p.UserID, &state, &p.IsWaiting, &p.IsCaptain,
		&joinedAt, &leftAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.State = domain.ParticipantState(state)
	p.JoinedAt = c.fromColumn(joinedAt)
	p.LeftAt = c.fromColumn(leftAt)
	p.CreatedAt = c.fromColumn(createdAt)
	p.UpdatedAt = c.fromColumn(updatedAt)
	return &p, nil
}
