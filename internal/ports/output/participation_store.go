package output

import (
	"context"
	"errors"
	"time"

	"rosterbot/internal/domain/entities"
)

// ErrNotFound is returned by store lookups that match no row.
var ErrNotFound = errors.New("not found")

// ParticipationStore persists activities, users and participant rows.
//
// WithinActivity is the only way to mutate participation: fn runs with the
// activity serialized against every other WithinActivity call for the same
// id, and its writes commit only if fn returns nil.
type ParticipationStore interface {
	WithinActivity(ctx context.Context, activityID int64, fn func(ctx context.Context, tx ParticipationTx) error) error

	CreateActivity(ctx context.Context, a *entities.Activity) error
	GetActivity(ctx context.Context, activityID int64) (*entities.Activity, error)
	// ListParticipants returns live rows, captain first, then by join time.
	ListParticipants(ctx context.Context, activityID int64) ([]entities.Participant, error)
	// FindActivitiesOnDate returns activities whose start falls on the civil
	// date of day, evaluated in day's location.
	FindActivitiesOnDate(ctx context.Context, day time.Time) ([]entities.Activity, error)

	UpsertUser(ctx context.Context, u *entities.User) error
	GetUser(ctx context.Context, userID string) (*entities.User, error)
}

// ParticipationTx is the per-activity unit of work handed to WithinActivity.
type ParticipationTx interface {
	GetActivitySnapshot(ctx context.Context) (*entities.Activity, error)
	GetUserAttributes(ctx context.Context, userID string) (*entities.User, error)
	IsActiveParticipant(ctx context.Context, userID string) (bool, error)
	FindParticipant(ctx context.Context, userID string) (*entities.Participant, error)
	// LastLeaveTimestamp returns the zero time when the user never left.
	LastLeaveTimestamp(ctx context.Context, userID string) (time.Time, error)
	UpsertParticipant(ctx context.Context, userID string, isWaiting, isCaptain bool, at time.Time) error
	SoftDeleteParticipant(ctx context.Context, userID string, at time.Time) error
	RecomputeAggregateCounts(ctx context.Context) (*entities.Activity, error)
	// FindEarliestWaiting returns nil, nil when nobody is waiting.
	FindEarliestWaiting(ctx context.Context) (*entities.Participant, error)
	SetWaiting(ctx context.Context, userID string, isWaiting bool, at time.Time) error
}
