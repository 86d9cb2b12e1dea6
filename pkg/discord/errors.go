package discord

import (
	"errors"

	"rosterbot/internal/domain"
	"rosterbot/internal/ports/output"
)

// ErrorKey maps err to a message key and its template data. Business codes
// map to "errors.<CODE>"; infrastructure failures ask the user to retry.
func ErrorKey(err error) (string, map[string]any) {
	var ee *domain.EnrollmentError
	switch {
	case err == nil:
		return "", nil
	case errors.As(err, &ee):
		data := map[string]any{
			"Minutes": ee.MinutesRemaining,
			"Gender":  string(ee.Gender),
			"Detail":  ee.Detail,
		}
		return "errors." + string(ee.Code), data
	case errors.Is(err, ErrInvalidDateTime):
		return "errors.invalid_datetime", nil
	case errors.Is(err, ErrDateTimeInPast):
		return "errors.datetime_in_past", nil
	case errors.Is(err, ErrInvalidCapacity):
		return "errors.invalid_capacity", nil
	case domain.IsRetryable(err):
		return "errors.retry", nil
	default:
		return "errors.generic", nil
	}
}

// ErrorMessage renders err for the user in locale.
func ErrorMessage(t output.T, locale string, err error) string {
	key, data := ErrorKey(err)
	if key == "" {
		return ""
	}
	if g, ok := data["Gender"].(string); ok && g != "" {
		data["Gender"] = t.T(locale, "gender."+g, nil)
	}
	return "❌ " + t.T(locale, key, data)
}
