package input

import (
	"context"

	"rosterbot/internal/domain/policy"
)

// Admission reports where a successful join landed.
type Admission struct {
	ActivityID int64
	UserID     string
	Outcome    policy.Outcome
	IsCaptain  bool
}

type EnrollmentUseCase interface {
	Join(ctx context.Context, activityID int64, userID string) (Admission, error)
	Leave(ctx context.Context, activityID int64, userID string) error
}
