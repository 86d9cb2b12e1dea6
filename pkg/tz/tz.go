package tz

import (
	"fmt"
	"time"
)

// Taipei is the Asia/Taipei location (UTC+8, no DST). Leave timestamps and
// reminder dates are civil times in this zone unless TIMEZONE overrides it.
var Taipei *time.Location

func init() {
	var err error
	Taipei, err = time.LoadLocation("Asia/Taipei")
	if err != nil {
		panic("tz: load Asia/Taipei: " + err.Error())
	}
}

// Load resolves a configured zone name. Empty means Taipei.
func Load(name string) (*time.Location, error) {
	if name == "" || name == "Asia/Taipei" {
		return Taipei, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// StartOfDay returns midnight of t's civil date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
