package shared

import (
	"time"

	"github.com/insurance/backend/internal/domain/shared/valueobject"
)

// Clock supplies the current moment to the domain. Overdue and coverage-window
// checks never read the system clock directly so they stay deterministic
// under test.
type Clock interface {
	Now() time.Time
	Today() valueobject.Date
}

// SystemClock reads the real system time in UTC
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Today returns the current UTC calendar date
func (SystemClock) Today() valueobject.Date {
	return valueobject.DateOf(time.Now().UTC())
}

// FixedClock always reports the same moment; for tests and replays
type FixedClock struct {
	Time time.Time
}

// NewFixedClock creates a clock pinned to the given moment
func NewFixedClock(t time.Time) FixedClock {
	return FixedClock{Time: t}
}

// Now returns the pinned moment
func (c FixedClock) Now() time.Time {
	return c.Time
}

// Today returns the pinned calendar date
func (c FixedClock) Today() valueobject.Date {
	return valueobject.DateOf(c.Time)
}
