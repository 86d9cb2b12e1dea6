package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/ports/output"
)

var _ output.ParticipationStore = (*ParticipationStore)(nil)

// ParticipationStore implements output.ParticipationStore with pgx.
// WithinActivity holds a row lock on the activity until commit.
type ParticipationStore struct {
	pool  *pgxpool.Pool
	times civilTimes
}

// NewParticipationStore creates a ParticipationStore. loc is the zone whose
// wall clock participant timestamps are stored in.
func NewParticipationStore(pool *pgxpool.Pool, loc *time.Location) *ParticipationStore {
	return &ParticipationStore{pool: pool, times: civilTimes{loc: loc}}
}

func (s *ParticipationStore) WithinActivity(ctx context.Context, activityID int64, fn func(ctx context.Context, tx output.ParticipationTx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		a, err := scanActivity(tx.QueryRow(ctx,
			`SELECT `+activityColumns+` FROM activities WHERE id = $1 FOR UPDATE`, activityID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return output.ErrNotFound
			}
			return fmt.Errorf("lock activity: %w", err)
		}
		return fn(ctx, &participationTx{tx: tx, activity: a, times: s.times})
	})
}

func (s *ParticipationStore) CreateActivity(ctx context.Context, a *entities.Activity) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO activities (
			title, location, starts_at, max_participants,
			male_quota, female_quota, female_priority, require_verification, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		a.Title, a.Location, a.StartsAt, a.MaxParticipants,
		a.MaleQuota, a.FemaleQuota, a.FemalePriority, a.RequireVerification, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	a.CurrentParticipants, a.MaleCount, a.FemaleCount = 0, 0, 0
	return nil
}

func (s *ParticipationStore) GetActivity(ctx context.Context, activityID int64) (*entities.Activity, error) {
	a, err := scanActivity(s.pool.QueryRow(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1`, activityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, output.ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (s *ParticipationStore) ListParticipants(ctx context.Context, activityID int64) ([]entities.Participant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+participantColumns+`
		FROM activity_participants
		WHERE activity_id = $1 AND state = 'ACTIVE'
		ORDER BY is_captain DESC, joined_at, created_at, user_id`, activityID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []entities.Participant
	for rows.Next() {
		p, err := s.times.scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return out, nil
}

func (s *ParticipationStore) FindActivitiesOnDate(ctx context.Context, day time.Time) ([]entities.Activity, error) {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	rows, err := s.pool.Query(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at, id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("find activities on date: %w", err)
	}
	defer rows.Close()

	var out []entities.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find activities on date: %w", err)
	}
	return out, nil
}

func (s *ParticipationStore) UpsertUser(ctx context.Context, u *entities.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, nickname, gender, is_verified, locale)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			nickname = EXCLUDED.nickname,
			gender = EXCLUDED.gender,
			is_verified = EXCLUDED.is_verified,
			locale = EXCLUDED.locale,
			updated_at = now()`,
		u.ID, u.Nickname, string(u.Gender), u.IsVerified, u.Locale)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *ParticipationStore) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	return getUser(ctx, s.pool, userID)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getUser(ctx context.Context, q queryRower, userID string) (*entities.User, error) {
	var (
		u      entities.User
		gender string
	)
	err := q.QueryRow(ctx,
		`SELECT id, nickname, gender, is_verified, locale FROM users WHERE id = $1`, userID,
	).Scan(&u.ID, &u.Nickname, &gender, &u.IsVerified, &u.Locale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, output.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Gender = domain.ParseGender(gender)
	return &u, nil
}
