package policy

import (
	"rosterbot/internal/domain"
)

// ValidateQuotas checks a quota pair against the activity size.
func ValidateQuotas(maxParticipants, maleQuota, femaleQuota int) error {
	if maxParticipants < 1 {
		return domain.InvalidQuota("max participants must be at least 1")
	}
	if maleQuota == domain.QuotaBanned && femaleQuota == domain.QuotaBanned {
		return domain.InvalidQuota("both genders cannot be banned")
	}
	if maleQuota == domain.QuotaBanned && femaleQuota != domain.QuotaUnlimited {
		return domain.InvalidQuota("female quota must be unlimited when males are banned")
	}
	if femaleQuota == domain.QuotaBanned && maleQuota != domain.QuotaUnlimited {
		return domain.InvalidQuota("male quota must be unlimited when females are banned")
	}
	if maleQuota == domain.QuotaUnlimited && femaleQuota == maxParticipants {
		return domain.InvalidQuota("female quota cannot equal max when male quota is unlimited")
	}
	if femaleQuota == domain.QuotaUnlimited && maleQuota == maxParticipants {
		return domain.InvalidQuota("male quota cannot equal max when female quota is unlimited")
	}
	if maleQuota < domain.QuotaBanned || femaleQuota < domain.QuotaBanned {
		return domain.InvalidQuota("quota below -1")
	}
	if maleQuota > maxParticipants || femaleQuota > maxParticipants {
		return domain.InvalidQuota("quota exceeds max participants")
	}
	if maleQuota > 0 && femaleQuota > 0 && maleQuota+femaleQuota != maxParticipants {
		return domain.InvalidQuota("positive quotas must sum to max participants")
	}
	return nil
}
