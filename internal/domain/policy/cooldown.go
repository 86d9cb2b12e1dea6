package policy

import "time"

// DefaultCooldown is the minimum wait between leaving and rejoining.
const DefaultCooldown = 30 * time.Minute

// Cooldown decides whether a user who left may rejoin yet.
//
// Leave timestamps are stored as civil wall-clock values. Both sides are
// read in Location so the outcome does not depend on the process zone.
type Cooldown struct {
	Window   time.Duration
	Location *time.Location
}

func NewCooldown(loc *time.Location) Cooldown {
	return Cooldown{Window: DefaultCooldown, Location: loc}
}

// Check returns allowed=true, or the whole minutes still to wait. A zero
// lastLeave means the user never left.
func (c Cooldown) Check(lastLeave, now time.Time) (allowed bool, minutesRemaining int) {
	if lastLeave.IsZero() {
		return true, 0
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	left := civil(lastLeave, loc)
	elapsed := int(now.In(loc).Sub(left) / time.Minute)
	window := int(c.Window / time.Minute)
	if elapsed >= window {
		return true, 0
	}
	return false, window - elapsed
}

// civil reinterprets t's wall-clock fields in loc.
func civil(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
