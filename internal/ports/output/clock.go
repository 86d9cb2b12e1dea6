package output

import "time"

// Clock provides time to the application so tests can pin it.
type Clock interface {
	Now() time.Time
}
