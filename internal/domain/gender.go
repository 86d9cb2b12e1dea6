package domain

import "strings"

type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
)

// ParseGender maps stored values onto the two quota buckets. Anything that is
// not male counts against the female quota.
func ParseGender(s string) Gender {
	if strings.EqualFold(strings.TrimSpace(s), string(Male)) {
		return Male
	}
	return Female
}

// ParticipantState is the lifecycle state of an (activity, user) row.
type ParticipantState string

const (
	StateActive  ParticipantState = "ACTIVE"
	StateRemoved ParticipantState = "REMOVED"
)

// Quota sentinels.
const (
	QuotaBanned    = -1
	QuotaUnlimited = 0
)
