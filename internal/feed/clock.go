package feed

import "time"

// Clock supplies the current time, which decides the civil day treated as
// today.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in the local time zone.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
