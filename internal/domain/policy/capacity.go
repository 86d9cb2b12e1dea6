// Package policy holds the pure enrollment decisions. Nothing here performs
// I/O or reads the clock.
package policy

import (
	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
)

// WaitingLimit is how many participants may queue beyond MaxParticipants.
const WaitingLimit = 10

type Outcome string

const (
	AdmitMain    Outcome = "ADMIT_MAIN"
	AdmitWaiting Outcome = "ADMIT_WAITING"
	Reject       Outcome = "REJECT"
)

// Candidate is the subset of user attributes the capacity rules read.
type Candidate struct {
	Gender   domain.Gender
	Verified bool
}

// Decision is the result of Decide. Reason is set only when Outcome is Reject.
type Decision struct {
	Outcome Outcome
	Reason  *domain.EnrollmentError
}

func (d Decision) Waiting() bool { return d.Outcome == AdmitWaiting }

func (d Decision) Err() error {
	if d.Outcome != Reject {
		return nil
	}
	return d.Reason
}

func reject(reason *domain.EnrollmentError) Decision {
	return Decision{Outcome: Reject, Reason: reason}
}

// Decide applies the capacity rules in order; the first matching rule wins.
func Decide(a entities.Activity, c Candidate) Decision {
	quota := a.QuotaFor(c.Gender)
	if quota == domain.QuotaBanned {
		return reject(domain.GenderBanned(c.Gender))
	}

	mainFull := a.MainFull()
	priorityHold := femalePriorityHolds(a, c)
	if (mainFull || priorityHold) && a.CurrentParticipants >= a.MaxParticipants+WaitingLimit {
		return reject(domain.ErrCapacityFull)
	}

	// Verification runs before quota checks so an unverified user never
	// consumes a quota slot.
	if a.RequireVerification && !c.Verified {
		return reject(domain.ErrRequiresVerification)
	}

	if priorityHold {
		return Decision{Outcome: AdmitWaiting}
	}

	if !mainFull && quota > 0 && a.CountFor(c.Gender) >= quota {
		return reject(domain.GenderFull(c.Gender))
	}

	if mainFull {
		return Decision{Outcome: AdmitWaiting}
	}
	return Decision{Outcome: AdmitMain}
}

// femalePriorityHolds reports whether a male candidate must wait because
// open female seats are still reserved.
func femalePriorityHolds(a entities.Activity, c Candidate) bool {
	return a.FemalePriority &&
		c.Gender == domain.Male &&
		a.FemaleQuota > 0 &&
		a.FemaleCount < a.FemaleQuota
}
