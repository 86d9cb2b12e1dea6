package entities

import (
	"time"

	"rosterbot/internal/domain"
)

// Activity is a capacity-limited group event. The count fields are derived
// from live participant rows and rewritten on every join and leave.
type Activity struct {
	ID                  int64
	Title               string
	Location            string
	StartsAt            time.Time
	MaxParticipants     int
	CurrentParticipants int
	MaleCount           int
	FemaleCount         int
	MaleQuota           int // -1 banned, 0 unlimited, N cap
	FemaleQuota         int
	FemalePriority      bool
	RequireVerification bool
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// QuotaFor returns the quota that applies to g.
func (a *Activity) QuotaFor(g domain.Gender) int {
	if g == domain.Male {
		return a.MaleQuota
	}
	return a.FemaleQuota
}

// CountFor returns the number of live participants of gender g.
func (a *Activity) CountFor(g domain.Gender) int {
	if g == domain.Male {
		return a.MaleCount
	}
	return a.FemaleCount
}

func (a *Activity) MainFull() bool {
	return a.CurrentParticipants >= a.MaxParticipants
}
