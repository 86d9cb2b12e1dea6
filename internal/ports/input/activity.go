package input

import (
	"context"
	"time"

	"rosterbot/internal/domain/entities"
)

type CreateActivity struct {
	Title               string
	Location            string
	StartsAt            time.Time
	MaxParticipants     int
	MaleQuota           int
	FemaleQuota         int
	FemalePriority      bool
	RequireVerification bool
	CreatedBy           string
}

type ActivityUseCase interface {
	CreateActivity(ctx context.Context, in CreateActivity) (*entities.Activity, error)
	GetActivity(ctx context.Context, activityID int64) (*entities.Activity, error)
	ListParticipants(ctx context.Context, activityID int64) ([]entities.Participant, error)
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	RegisterUser(ctx context.Context, u entities.User) error
}

type ReminderUseCase interface {
	// SendReminders notifies participants of activities starting tomorrow
	// and returns how many events were published.
	SendReminders(ctx context.Context, now time.Time) (int, error)
}
