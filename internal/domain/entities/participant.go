package entities

import (
	"time"

	"rosterbot/internal/domain"
)

// Participant is the single row linking a user to an activity. Leaving flips
// State to REMOVED; rejoining reactivates the same row.
type Participant struct {
	ActivityID int64
	UserID     string
	State      domain.ParticipantState
	IsWaiting  bool
	IsCaptain  bool
	JoinedAt   time.Time
	LeftAt     time.Time // zero until the first leave
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Participant) IsDeleted() bool {
	return p.State == domain.StateRemoved
}

func (p *Participant) IsActive() bool {
	return p.State == domain.StateActive
}
