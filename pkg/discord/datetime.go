package discord

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDateTime = errors.New("invalid date or time")
	ErrDateTimeInPast  = errors.New("date and time must be in the future")
)

const (
	dateLayout = "2006/01/02"
	timeLayout = "15:04"
)

// ParseActivityDateTime parses date (YYYY/MM/DD, dashes accepted) and time
// (HH:MM) as wall clock in loc. The result must be after now.
func ParseActivityDateTime(dateStr, timeStr string, loc *time.Location, now time.Time) (time.Time, error) {
	dateStr = strings.ReplaceAll(strings.TrimSpace(dateStr), "-", "/")
	timeStr = strings.TrimSpace(timeStr)
	if dateStr == "" || timeStr == "" {
		return time.Time{}, ErrInvalidDateTime
	}
	tDate, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	tTime, err := time.Parse(timeLayout, timeStr)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	if loc == nil {
		loc = time.UTC
	}
	dt := time.Date(tDate.Year(), tDate.Month(), tDate.Day(), tTime.Hour(), tTime.Minute(), 0, 0, loc)
	if !dt.After(now) {
		return time.Time{}, ErrDateTimeInPast
	}
	return dt, nil
}

func FormatActivityDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006/01/02 15:04")
}
