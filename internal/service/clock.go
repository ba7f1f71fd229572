package service

import "time"

// Clock abstracts the time source for the lifecycle engine. Every
// temporal decision (sale window, allocation gate, settlement gate)
// reads the clock exactly once per operation so a request cannot
// straddle a state change.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
